// Package repository provides data access for server records. Soft-deleted
// rows are excluded everywhere unless a method says otherwise.
package repository

import (
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	"server-deck/internal/model"
)

// UnknownIDError reports a reorder entry referencing no active row. The
// whole batch is rolled back when it occurs.
type UnknownIDError struct {
	ID uint
}

func (e *UnknownIDError) Error() string {
	return fmt.Sprintf("unknown server id %d", e.ID)
}

// OrderEntry pairs a server id with its new sort position. Both fields
// must be present; a nil SortOrder never reaches BulkSetSortOrder because
// callers validate it first.
type OrderEntry struct {
	ID        uint  `json:"id" binding:"required"`
	SortOrder *uint `json:"sort_order" binding:"required"`
}

type ServerRepository struct {
	db *gorm.DB
}

func NewServerRepository(db *gorm.DB) *ServerRepository {
	return &ServerRepository{db: db}
}

// ListActiveOrdered returns non-deleted servers in display order:
// sort_order ascending, newest created_at first between equal orders.
func (r *ServerRepository) ListActiveOrdered() ([]model.Server, error) {
	var servers []model.Server
	err := r.db.Order("sort_order asc, created_at desc").Find(&servers).Error
	return servers, err
}

// Find returns the active server with the given id. Missing and
// soft-deleted rows both surface gorm.ErrRecordNotFound.
func (r *ServerRepository) Find(id uint) (*model.Server, error) {
	var server model.Server
	if err := r.db.First(&server, id).Error; err != nil {
		return nil, err
	}
	return &server, nil
}

// FindIncludingDeleted looks the row up regardless of its deletion state.
func (r *ServerRepository) FindIncludingDeleted(id uint) (*model.Server, error) {
	var server model.Server
	if err := r.db.Unscoped().First(&server, id).Error; err != nil {
		return nil, err
	}
	return &server, nil
}

// Exists reports whether an active row with the given id exists.
func (r *ServerRepository) Exists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Server{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Create inserts a new server. When the caller did not choose a sort order
// the row goes to the end of the list: max(sort_order)+1, computed and
// inserted inside one transaction so concurrent creates cannot collide.
func (r *ServerRepository) Create(server *model.Server, sortOrderSet bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if !sortOrderSet {
			var max sql.NullInt64
			if err := tx.Model(&model.Server{}).Select("max(sort_order)").Scan(&max).Error; err != nil {
				return err
			}
			server.SortOrder = uint(max.Int64) + 1
		}
		return tx.Create(server).Error
	})
}

// Update persists all fields of the given record.
func (r *ServerRepository) Update(server *model.Server) error {
	return r.db.Save(server).Error
}

// SoftDelete stamps deleted_at on the active row with this id. Returns
// false when no such row exists. The row and any referenced stored image
// are left in place.
func (r *ServerRepository) SoftDelete(id uint) (bool, error) {
	res := r.db.Delete(&model.Server{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// BulkSetSortOrder applies all entries as one atomic unit. An entry whose
// id matches no active row aborts the transaction and no order changes.
func (r *ServerRepository) BulkSetSortOrder(entries []OrderEntry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			res := tx.Model(&model.Server{}).
				Where("id = ?", entry.ID).
				Update("sort_order", *entry.SortOrder)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return &UnknownIDError{ID: entry.ID}
			}
		}
		return nil
	})
}

// CountActive returns the number of non-deleted rows.
func (r *ServerRepository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&model.Server{}).Count(&count).Error
	return count, err
}
