// Package storage provides the blob store the thumbnail pipeline writes to.
// Keys are opaque slash-separated identifiers.
package storage

// Store is a minimal blob store contract.
type Store interface {
	Put(key string, data []byte) error
	Delete(key string) error
	Exists(key string) bool
}
