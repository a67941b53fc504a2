package db

import (
	"context"
	"errors"
	"time"

	e "github.com/nbakri/tmregistry/internal/registry/errors"
	"github.com/nbakri/tmregistry/internal/registry/models"
	"gorm.io/gorm"
)

func (r *Repository) CreatePublication(ctx context.Context, pub *models.Publication) error {
	result := r.db.WithContext(ctx).Create(pub)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateNumber
		}
		return result.Error
	}
	return nil
}

func (r *Repository) GetPublication(ctx context.Context, id uint) (*models.Publication, error) {
	var pub models.Publication
	result := r.db.WithContext(ctx).
		Preload("Decree").Preload("Country").Preload("Category").
		First(&pub, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &pub, nil
}

// PublicationNumberTaken reports whether another non-deleted publication
// already holds the number within the given creation year. excludeID keeps
// the update path from colliding with the row being edited.
func (r *Repository) PublicationNumberTaken(ctx context.Context, number, year int, excludeID uint) (bool, error) {
	start, end := yearBounds(year)
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Publication{}).
		Where("number = ? AND created_at >= ? AND created_at < ?", number, start, end)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) UpdatePublication(ctx context.Context, update *models.PublicationUpdate) error {
	fields := map[string]interface{}{}
	if update.Number != nil {
		fields["number"] = *update.Number
	}
	if update.DecreeNumber != nil {
		fields["decree_number"] = *update.DecreeNumber
	}
	if update.Applicant != nil {
		fields["applicant"] = *update.Applicant
	}
	if update.Owner != nil {
		fields["owner"] = *update.Owner
	}
	if update.CountryID != nil {
		fields["country_id"] = *update.CountryID
	}
	if update.Address != nil {
		fields["address"] = *update.Address
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
	if update.ImgFile != nil {
		fields["img_file"] = *update.ImgFile
	}
	if update.Attach != nil {
		fields["attach"] = *update.Attach
	}
	if update.ENumber != nil {
		fields["e_number"] = *update.ENumber
	}
	if update.IsHidden != nil {
		fields["is_hidden"] = *update.IsHidden
	}
	if update.Notes != nil {
		fields["notes"] = *update.Notes
	}
	if len(fields) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).Model(&models.Publication{}).
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

// SetPublicationStatus writes a new lifecycle status and, on the objection
// path, the objected marker and date.
func (r *Repository) SetPublicationStatus(ctx context.Context, id uint, status models.PublicationStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Publication{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// MarkPublicationObjected sets the objected flag and records the date the
// first objection came in.
func (r *Repository) MarkPublicationObjected(ctx context.Context, id uint, at time.Time) error {
	day := at.Truncate(24 * time.Hour)
	result := r.db.WithContext(ctx).Model(&models.Publication{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_objected": true, "objection_date": day})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) DeletePublication(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Publication{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// PublicationFilter narrows ListPublications. Zero values mean "no constraint".
type PublicationFilter struct {
	Status models.PublicationStatus
	Year   int
	Number int
	Offset int
	Limit  int
}

func (r *Repository) ListPublications(ctx context.Context, filter PublicationFilter) ([]models.Publication, error) {
	q := r.db.WithContext(ctx).Model(&models.Publication{}).
		Preload("Decree").Preload("Country").Preload("Category").
		Order("id DESC")
	if filter.Status.Valid() {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Year != 0 {
		start, end := yearBounds(filter.Year)
		q = q.Where("created_at >= ? AND created_at < ?", start, end)
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
	var pubs []models.Publication
	if err := q.Find(&pubs).Error; err != nil {
		return nil, err
	}
	return pubs, nil
}

// ListStalePublications returns publications still in their initial state,
// created at or before the cutoff, with no objection filed against them.
// These are the candidates the periodic sweep promotes to final.
func (r *Repository) ListStalePublications(ctx context.Context, cutoff time.Time) ([]models.Publication, error) {
	var pubs []models.Publication
	err := r.db.WithContext(ctx).Model(&models.Publication{}).
		Where("created_at <= ? AND status = ?", cutoff, models.PublicationInitial).
		Where("NOT EXISTS (SELECT 1 FROM objections WHERE objections.pub_id = publications.id AND objections.deleted_at IS NULL)").
		Find(&pubs).Error
	if err != nil {
		return nil, err
	}
	return pubs, nil
}

// FinalizePublications bulk-moves the given publications to FINAL and
// returns how many rows actually changed. Re-running over already-final
// rows is a no-op, which keeps the sweep idempotent.
func (r *Repository) FinalizePublications(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&models.Publication{}).
		Where("id IN ? AND status = ?", ids, models.PublicationInitial).
		Update("status", models.PublicationFinal)
	return result.RowsAffected, result.Error
}
