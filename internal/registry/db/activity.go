package db

import (
	"context"

	"github.com/nbakri/tmregistry/internal/registry/models"
)

func (r *Repository) SaveActivity(ctx context.Context, entry *models.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ActivityFilter narrows ListActivity. Zero values mean "no constraint".
type ActivityFilter struct {
	Actor  string
	Action models.ActivityAction
	Offset int
	Limit  int
}

func (r *Repository) ListActivity(ctx context.Context, filter ActivityFilter) ([]models.ActivityLog, error) {
	q := r.db.WithContext(ctx).Model(&models.ActivityLog{}).Order("id DESC")
	if filter.Actor != "" {
		q = q.Where("actor = ?", filter.Actor)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	var entries []models.ActivityLog
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
