package db

import (
	"context"
	"errors"

	e "github.com/nbakri/tmregistry/internal/registry/errors"
	"github.com/nbakri/tmregistry/internal/registry/models"
	"gorm.io/gorm"
)

func (r *Repository) CreateFormPlus(ctx context.Context, doc *models.FormPlus) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *Repository) GetFormPlus(ctx context.Context, id uint) (*models.FormPlus, error) {
	var doc models.FormPlus
	result := r.db.WithContext(ctx).
		Preload("Government").Preload("Type").
		First(&doc, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &doc, nil
}

func (r *Repository) UpdateFormPlus(ctx context.Context, update *models.FormPlusUpdate) error {
	fields := map[string]interface{}{}
	if update.Number != nil {
		fields["number"] = *update.Number
	}
	if update.Date != nil {
		fields["date"] = *update.Date
	}
	if update.GovernmentID != nil {
		fields["government_id"] = *update.GovernmentID
	}
	if update.TypeID != nil {
		fields["type_id"] = *update.TypeID
	}
	if update.Title != nil {
		fields["title"] = *update.Title
	}
	if update.Keywords != nil {
		fields["keywords"] = *update.Keywords
	}
	if update.PDFFile != nil {
		fields["pdf_file"] = *update.PDFFile
	}
	if update.WordFile != nil {
		fields["word_file"] = *update.WordFile
	}
	if len(fields) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).Model(&models.FormPlus{}).
		Where("id = ?", update.ID).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteFormPlus(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.FormPlus{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// FormPlusFilter narrows ListFormPlus. Zero values mean "no constraint".
type FormPlusFilter struct {
	TypeID uint
	Year   int
	Offset int
	Limit  int
}

func (r *Repository) ListFormPlus(ctx context.Context, filter FormPlusFilter) ([]models.FormPlus, error) {
	q := r.db.WithContext(ctx).Model(&models.FormPlus{}).
		Preload("Government").Preload("Type").
		Order("id DESC")
	if filter.TypeID != 0 {
		q = q.Where("type_id = ?", filter.TypeID)
	}
	if filter.Year != 0 {
		start, end := yearBounds(filter.Year)
		q = q.Where("date >= ? AND date < ?", start, end)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	var docs []models.FormPlus
	if err := q.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}
