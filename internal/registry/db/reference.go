package db

import (
	"context"
	"errors"

	e "github.com/nbakri/tmregistry/internal/registry/errors"
	"gorm.io/gorm"
)

// The reference tables (Country, Government, ComType, DocType,
// DecreeCategory) share the same flat shape, so their CRUD goes through
// generic helpers instead of five near-identical method sets.

// CreateRef inserts a reference row, mapping unique-name collisions to the
// duplicate sentinel.
func CreateRef[T any](ctx context.Context, r *Repository, row *T) error {
	result := r.db.WithContext(ctx).Create(row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateNumber
		}
		return result.Error
	}
	return nil
}

// GetRef fetches a reference row by primary key.
func GetRef[T any](ctx context.Context, r *Repository, id uint) (*T, error) {
	var row T
	result := r.db.WithContext(ctx).First(&row, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &row, nil
}

// ListRefs returns every row of a reference table ordered by id.
func ListRefs[T any](ctx context.Context, r *Repository) ([]T, error) {
	var rows []T
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteRef removes a reference row. The foreign keys on the primary
// entities are RESTRICT, so rows still in use fail at the database.
func DeleteRef[T any](ctx context.Context, r *Repository, id uint) error {
	var row T
	result := r.db.WithContext(ctx).Delete(&row, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}
