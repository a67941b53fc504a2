package db

import (
	"context"
	"errors"

	e "github.com/nbakri/tmregistry/internal/registry/errors"
	"github.com/nbakri/tmregistry/internal/registry/models"
	"gorm.io/gorm"
)

func (r *Repository) CreateObjection(ctx context.Context, obj *models.Objection) error {
	result := r.db.WithContext(ctx).Create(obj)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateNumber
		}
		return result.Error
	}
	return nil
}

func (r *Repository) GetObjection(ctx context.Context, id uint) (*models.Objection, error) {
	var obj models.Objection
	result := r.db.WithContext(ctx).
		Preload("Pub").Preload("Nationality").Preload("ComJob").
		First(&obj, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &obj, nil
}

// FindObjectionByCode resolves the public tracking lookup: the 13-digit
// code plus the complainant's phone number.
func (r *Repository) FindObjectionByCode(ctx context.Context, code, phone string) (*models.Objection, error) {
	var obj models.Objection
	result := r.db.WithContext(ctx).
		Preload("Pub").Preload("Pub.Category").
		Where("unique_code = ? AND phone = ?", code, phone).
		First(&obj)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &obj, nil
}

// MaxObjectionNumber returns the highest number assigned within a year, or
// zero when the year has no objections yet.
func (r *Repository) MaxObjectionNumber(ctx context.Context, year int) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).Model(&models.Objection{}).
		Select("max(number)").
		Where("year = ?", year).
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

// ObjectionCodeExists checks a candidate tracking code against every
// objection ever issued, soft-deleted ones included: codes are never reused.
func (r *Repository) ObjectionCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&models.Objection{}).
		Where("unique_code = ?", code).
		Count(&count).Error
	return count > 0, err
}

// CompetingObjections counts the other active objections against the same
// publication. When includeRejected is false, already-rejected siblings do
// not count as competition.
func (r *Repository) CompetingObjections(ctx context.Context, pubID, excludeID uint, includeRejected bool) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Objection{}).
		Where("pub_id = ? AND id <> ?", pubID, excludeID)
	if !includeRejected {
		q = q.Where("status <> ?", models.ObjectionReject)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

func (r *Repository) UpdateObjection(ctx context.Context, update *models.ObjectionUpdate) error {
	fields := map[string]interface{}{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Job != nil {
		fields["job"] = *update.Job
	}
	if update.NationalityID != nil {
		fields["nationality_id"] = *update.NationalityID
	}
	if update.Address != nil {
		fields["address"] = *update.Address
	}
	if update.Phone != nil {
		fields["phone"] = *update.Phone
	}
	if update.ComName != nil {
		fields["com_name"] = *update.ComName
	}
	if update.ComJobID != nil {
		fields["com_job_id"] = *update.ComJobID
	}
	if update.ComAddress != nil {
		fields["com_address"] = *update.ComAddress
	}
	if update.ComOgAddress != nil {
		fields["com_og_address"] = *update.ComOgAddress
	}
	if update.ComMailAddress != nil {
		fields["com_mail_address"] = *update.ComMailAddress
	}
	if update.Reason != nil {
		fields["reason"] = *update.Reason
	}
	if update.PDFFile != nil {
		fields["pdf_file"] = *update.PDFFile
	}
	if update.Notes != nil {
		fields["notes"] = *update.Notes
	}
	if update.IsPaid != nil {
		fields["is_paid"] = *update.IsPaid
	}
	if update.ReceiptFile != nil {
		fields["receipt_file"] = *update.ReceiptFile
	}
	if len(fields) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).Model(&models.Objection{}).
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

// SetObjectionStatus writes the status produced by a lifecycle transition,
// optionally together with the paid flag.
func (r *Repository) SetObjectionStatus(ctx context.Context, id uint, status models.ObjectionStatus, isPaid *bool) error {
	fields := map[string]interface{}{"status": status}
	if isPaid != nil {
		fields["is_paid"] = *isPaid
	}
	result := r.db.WithContext(ctx).Model(&models.Objection{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteObjection(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Objection{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// ObjectionFilter narrows ListObjections. Zero values mean "no constraint".
type ObjectionFilter struct {
	Status models.ObjectionStatus
	Year   int
	PubID  uint
	Offset int
	Limit  int
}

func (r *Repository) ListObjections(ctx context.Context, filter ObjectionFilter) ([]models.Objection, error) {
	q := r.db.WithContext(ctx).Model(&models.Objection{}).
		Preload("Pub").Preload("Nationality").Preload("ComJob").
		Order("id DESC")
	if filter.Status.Valid() {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Year != 0 {
		q = q.Where("year = ?", filter.Year)
	}
	if filter.PubID != 0 {
		q = q.Where("pub_id = ?", filter.PubID)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	var objections []models.Objection
	if err := q.Find(&objections).Error; err != nil {
		return nil, err
	}
	return objections, nil
}
