// Package imaging turns uploaded images into fixed-canvas thumbnails.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"math"
	"net/http"
	"strings"

	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"server-deck/internal/storage"
)

const (
	// TargetSize is the square thumbnail edge length in pixels.
	TargetSize = 300

	jpegQuality = 90
	keyPrefix   = "servers/"
)

var (
	// ErrUnsupportedMedia marks a payload that cannot be handled as an image.
	ErrUnsupportedMedia = errors.New("payload is not a decodable image")

	// ErrTooSmall marks an image below the configured minimum dimensions.
	ErrTooSmall = errors.New("image below minimum dimensions")
)

// StorageError wraps a blob store failure during normalization.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string { return "store thumbnail: " + e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }

// Normalizer renders uploads onto a white TargetSize canvas and writes the
// result to blob storage.
type Normalizer struct {
	store           storage.Store
	minDimension    int
	keepUnsupported bool
}

func NewNormalizer(store storage.Store, minDimension int, keepUnsupported bool) *Normalizer {
	return &Normalizer{
		store:           store,
		minDimension:    minDimension,
		keepUnsupported: keepUnsupported,
	}
}

// Normalize processes raw upload bytes and returns the storage key of the
// stored result. JPEG/PNG/GIF inputs are scaled so their long edge equals
// TargetSize, centered on a white square canvas and re-encoded as JPEG.
// Other image types are stored unmodified when the keep-unsupported policy
// is enabled; that fallback is deliberate, not an error. The minimum
// dimension check applies to every format whose header can be read.
func (n *Normalizer) Normalize(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", ErrUnsupportedMedia
	}

	mime := http.DetectContentType(raw)
	switch mime {
	case "image/jpeg", "image/png", "image/gif":
	default:
		if strings.HasPrefix(mime, "image/") && n.keepUnsupported {
			// The minimum dimensions still apply when the header is
			// readable (BMP and WebP decoders are registered for this).
			// Formats without a registered decoder pass through unchecked.
			if cfg, _, err := image.DecodeConfig(bytes.NewReader(raw)); err == nil {
				if cfg.Width < n.minDimension || cfg.Height < n.minDimension {
					return "", ErrTooSmall
				}
			}
			return n.storeRaw(raw, mime)
		}
		return "", ErrUnsupportedMedia
	}

	// Header-only decode: dimension guard before the expensive full decode.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return "", ErrUnsupportedMedia
	}
	if cfg.Width < n.minDimension || cfg.Height < n.minDimension {
		return "", ErrTooSmall
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", ErrUnsupportedMedia
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, renderThumbnail(src), &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("encode thumbnail: %w", err)
	}

	key := keyPrefix + uuid.NewString() + ".jpg"
	if err := n.store.Put(key, buf.Bytes()); err != nil {
		return "", &StorageError{Err: err}
	}
	return key, nil
}

// DeleteStale removes a replaced thumbnail. Callers invoke it only after the
// replacement is durable, so a failure here never strands a record.
func (n *Normalizer) DeleteStale(key string) error {
	return n.store.Delete(key)
}

// renderThumbnail scales src so its long edge equals TargetSize, preserving
// aspect ratio, and composes it centered on a white square canvas. Square
// inputs fill the canvas with zero offsets.
func renderThumbnail(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	var newW, newH int
	if w >= h {
		newW = TargetSize
		newH = int(math.Round(float64(h) * TargetSize / float64(w)))
	} else {
		newH = TargetSize
		newW = int(math.Round(float64(w) * TargetSize / float64(h)))
	}

	dst := image.NewRGBA(image.Rect(0, 0, TargetSize, TargetSize))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	x := (TargetSize - newW) / 2
	y := (TargetSize - newH) / 2
	xdraw.CatmullRom.Scale(dst, image.Rect(x, y, x+newW, y+newH), src, b, xdraw.Over, nil)

	return dst
}

func (n *Normalizer) storeRaw(raw []byte, mime string) (string, error) {
	ext := "bin"
	if i := strings.LastIndex(mime, "/"); i >= 0 && i+1 < len(mime) {
		ext = mime[i+1:]
	}
	key := keyPrefix + uuid.NewString() + "." + ext
	if err := n.store.Put(key, raw); err != nil {
		return "", &StorageError{Err: err}
	}
	return key, nil
}
