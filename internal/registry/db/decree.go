package db

import (
	"context"
	"errors"
	"time"

	e "github.com/nbakri/tmregistry/internal/registry/errors"
	"github.com/nbakri/tmregistry/internal/registry/models"
	"gorm.io/gorm"
)

func (r *Repository) CreateDecree(ctx context.Context, decree *models.Decree) error {
	result := r.db.WithContext(ctx).Create(decree)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateNumber
		}
		return result.Error
	}
	return nil
}

func (r *Repository) GetDecree(ctx context.Context, id uint) (*models.Decree, error) {
	var decree models.Decree
	result := r.db.WithContext(ctx).
		Preload("Country").Preload("Category").
		First(&decree, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &decree, nil
}

// FindDecreeByNumberYear locates the decree identified by its number and the
// year of its date. Used to reconcile publications with existing decrees or
// placeholders.
func (r *Repository) FindDecreeByNumberYear(ctx context.Context, number, year int) (*models.Decree, error) {
	start, end := yearBounds(year)
	var decree models.Decree
	result := r.db.WithContext(ctx).
		Where("number = ? AND date >= ? AND date < ?", number, start, end).
		First(&decree)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &decree, nil
}

// UpdateDecree applies the set fields of the update and clears the
// placeholder flag: an explicit edit is what promotes a stub to a real
// record.
func (r *Repository) UpdateDecree(ctx context.Context, update *models.DecreeUpdate) error {
	fields := map[string]interface{}{"is_placeholder": false}
	if update.Number != nil {
		fields["number"] = *update.Number
	}
	if update.Date != nil {
		fields["date"] = *update.Date
	}
	if update.Status != nil {
		fields["status"] = *update.Status
	}
	if update.Applicant != nil {
		fields["applicant"] = *update.Applicant
	}
	if update.Company != nil {
		fields["company"] = *update.Company
	}
	if update.CountryID != nil {
		fields["country_id"] = *update.CountryID
	}
	if update.DateApplied != nil {
		fields["date_applied"] = *update.DateApplied
	}
	if update.NumberApplied != nil {
		fields["number_applied"] = *update.NumberApplied
	}
	if update.ArBrand != nil {
		fields["ar_brand"] = *update.ArBrand
	}
	if update.EnBrand != nil {
		fields["en_brand"] = *update.EnBrand
	}
	if update.CategoryID != nil {
		fields["category_id"] = *update.CategoryID
	}
	if update.PDFFile != nil {
		fields["pdf_file"] = *update.PDFFile
	}
	if update.Attach != nil {
		fields["attach"] = *update.Attach
	}
	if update.Notes != nil {
		fields["notes"] = *update.Notes
	}
	if update.IsWithdrawn != nil {
		fields["is_withdrawn"] = *update.IsWithdrawn
	}
	if update.IsCanceled != nil {
		fields["is_canceled"] = *update.IsCanceled
	}
	if update.NumberCanceled != nil {
		fields["number_canceled"] = *update.NumberCanceled
	}

	result := r.db.WithContext(ctx).Model(&models.Decree{}).
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

// SetDecreePublished flips the published flag, the side effect of
// finalizing a linked publication.
func (r *Repository) SetDecreePublished(ctx context.Context, id uint, published bool) error {
	result := r.db.WithContext(ctx).Model(&models.Decree{}).
		Where("id = ?", id).
		Update("is_published", published)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// MarkDecreesPublished bulk-applies the published flag; used by the stale
// publication sweep.
func (r *Repository) MarkDecreesPublished(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Decree{}).
		Where("id IN ?", ids).
		Update("is_published", true).Error
}

// DeleteDecree soft-deletes a decree. The row stays behind its deleted_at
// marker and drops out of every regular query.
func (r *Repository) DeleteDecree(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Decree{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// DecreeFilter narrows ListDecrees. Zero values mean "no constraint".
type DecreeFilter struct {
	Status             models.DecreeStatus
	Year               int
	Number             int
	IncludePlaceholder bool
	Offset             int
	Limit              int
}

func (r *Repository) ListDecrees(ctx context.Context, filter DecreeFilter) ([]models.Decree, error) {
	q := r.db.WithContext(ctx).Model(&models.Decree{}).
		Preload("Country").Preload("Category").
		Order("is_placeholder DESC, id DESC")
	if !filter.IncludePlaceholder {
		q = q.Where("is_placeholder = ?", false)
	}
	if filter.Status.Valid() {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Year != 0 {
		start, end := yearBounds(filter.Year)
		q = q.Where("date >= ? AND date < ?", start, end)
	}
	if filter.Number != 0 {
		q = q.Where("number = ?", filter.Number)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	var decrees []models.Decree
	if err := q.Find(&decrees).Error; err != nil {
		return nil, err
	}
	return decrees, nil
}

// AcceptedDecreesOn lists decrees accepted on a given day; feeds the public
// lookup endpoint.
func (r *Repository) AcceptedDecreesOn(ctx context.Context, day time.Time) ([]models.Decree, error) {
	start := day.Format("2006-01-02")
	end := day.AddDate(0, 0, 1).Format("2006-01-02")
	var decrees []models.Decree
	err := r.db.WithContext(ctx).
		Where("status = ? AND date >= ? AND date < ?", models.DecreeAccept, start, end).
		Order("number").
		Find(&decrees).Error
	if err != nil {
		return nil, err
	}
	return decrees, nil
}
