// Package service holds the business rules for the server catalog:
// request validation, image side-effect ordering and the reorder contract.
package service

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"server-deck/internal/imaging"
	"server-deck/internal/model"
	"server-deck/internal/repository"
	"server-deck/internal/validation"
)

type ServerService struct {
	repo       *repository.ServerRepository
	normalizer *imaging.Normalizer
	logger     *zap.Logger
	baseURL    string
}

func NewServerService(repo *repository.ServerRepository, normalizer *imaging.Normalizer, logger *zap.Logger, baseURL string) *ServerService {
	return &ServerService{
		repo:       repo,
		normalizer: normalizer,
		logger:     logger,
		baseURL:    baseURL,
	}
}

// ListResult bundles the canonical listing with the active record count.
type ListResult struct {
	Servers []model.ServerView
	Count   int64
}

// List returns all active servers in canonical order.
func (s *ServerService) List() (*ListResult, error) {
	servers, err := s.repo.ListActiveOrdered()
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}
	count, err := s.repo.CountActive()
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}

	views := make([]model.ServerView, 0, len(servers))
	for i := range servers {
		views = append(views, servers[i].View(s.baseURL, true))
	}
	return &ListResult{Servers: views, Count: count}, nil
}

// Get returns the active server with the given id.
func (s *ServerService) Get(id uint) (*model.ServerView, error) {
	server, err := s.repo.Find(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, &PersistenceError{Err: err}
	}
	view := server.View(s.baseURL, true)
	return &view, nil
}

// Create validates the input, normalizes an attached image and persists the
// record. The image is written before the row so a persist failure can at
// worst orphan a blob, never produce a row pointing at an unwritten image.
func (s *ServerService) Create(in validation.ServerInput) (*model.ServerView, error) {
	if errs := validation.ValidateCreate(in); !errs.Empty() {
		return nil, &ValidationError{Fields: errs}
	}

	var imagePath string
	if in.Image != nil {
		key, err := s.normalizeImage(in.Image)
		if err != nil {
			return nil, err
		}
		imagePath = key
	}

	server := model.Server{
		Name:      *in.Name,
		Host:      *in.Host,
		IPAddress: *in.IPAddress,
		ImagePath: imagePath,
		Status:    true,
	}
	if in.Description != nil {
		server.Description = *in.Description
	}
	if in.Status != nil {
		server.Status = *in.Status
	}
	sortOrderSet := in.SortOrder != nil
	if sortOrderSet {
		server.SortOrder = uint(*in.SortOrder)
	}

	if err := s.repo.Create(&server, sortOrderSet); err != nil {
		return nil, &PersistenceError{Err: err}
	}

	view := server.View(s.baseURL, false)
	return &view, nil
}

// Update applies the supplied fields to an existing record. A replacement
// image is normalized and attached first; the prior thumbnail is deleted
// only after the new image and the updated row are both durable.
func (s *ServerService) Update(id uint, in validation.ServerInput) (*model.ServerView, error) {
	server, err := s.repo.Find(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, &PersistenceError{Err: err}
	}

	if errs := validation.ValidateUpdate(in); !errs.Empty() {
		return nil, &ValidationError{Fields: errs}
	}

	var staleImage string
	if in.Image != nil {
		key, err := s.normalizeImage(in.Image)
		if err != nil {
			return nil, err
		}
		staleImage = server.ImagePath
		server.ImagePath = key
	}

	if in.Name != nil {
		server.Name = *in.Name
	}
	if in.Description != nil {
		server.Description = *in.Description
	}
	if in.Host != nil {
		server.Host = *in.Host
	}
	if in.IPAddress != nil {
		server.IPAddress = *in.IPAddress
	}
	if in.SortOrder != nil {
		server.SortOrder = uint(*in.SortOrder)
	}
	if in.Status != nil {
		server.Status = *in.Status
	}

	if err := s.repo.Update(server); err != nil {
		return nil, &PersistenceError{Err: err}
	}

	if staleImage != "" {
		if err := s.normalizer.DeleteStale(staleImage); err != nil {
			s.logger.Warn("failed to delete replaced thumbnail",
				zap.String("key", staleImage), zap.Error(err))
		}
	}

	view := server.View(s.baseURL, false)
	return &view, nil
}

// Delete soft-deletes the record. The stored image is left in place.
func (s *ServerService) Delete(id uint) error {
	ok, err := s.repo.SoftDelete(id)
	if err != nil {
		return &PersistenceError{Err: err}
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Reorder validates that every entry references an active record, then
// applies the batch atomically. A rejected batch changes nothing.
func (s *ServerService) Reorder(entries []repository.OrderEntry) error {
	if len(entries) == 0 {
		return &ValidationError{Fields: validation.Errors{
			"servers": {"The servers field is required."},
		}}
	}

	errs := validation.Errors{}
	for i, entry := range entries {
		if entry.SortOrder == nil {
			field := fmt.Sprintf("servers.%d.sort_order", i)
			errs.Add(field, fmt.Sprintf("The %s field is required.", field))
			continue
		}
		ok, err := s.repo.Exists(entry.ID)
		if err != nil {
			return &PersistenceError{Err: err}
		}
		if !ok {
			field := fmt.Sprintf("servers.%d.id", i)
			errs.Add(field, fmt.Sprintf("The selected %s is invalid.", field))
		}
	}
	if !errs.Empty() {
		return &ValidationError{Fields: errs}
	}

	if err := s.repo.BulkSetSortOrder(entries); err != nil {
		var unknown *repository.UnknownIDError
		if errors.As(err, &unknown) {
			// A row vanished between the existence check and the batch.
			return &ValidationError{Fields: validation.Errors{
				"servers": {fmt.Sprintf("The selected server id %d is invalid.", unknown.ID)},
			}}
		}
		return &PersistenceError{Err: err}
	}
	return nil
}

// normalizeImage runs the thumbnail pipeline, translating media rejections
// into field-level validation errors; storage failures pass through.
func (s *ServerService) normalizeImage(raw []byte) (string, error) {
	key, err := s.normalizer.Normalize(raw)
	if err == nil {
		return key, nil
	}

	var storageErr *imaging.StorageError
	switch {
	case errors.Is(err, imaging.ErrUnsupportedMedia):
		return "", &ValidationError{Fields: validation.Errors{
			"image": {"The image must be an image."},
		}}
	case errors.Is(err, imaging.ErrTooSmall):
		return "", &ValidationError{Fields: validation.Errors{
			"image": {"The image has invalid image dimensions."},
		}}
	case errors.As(err, &storageErr):
		return "", &StorageError{Err: storageErr.Err}
	default:
		return "", &StorageError{Err: err}
	}
}
