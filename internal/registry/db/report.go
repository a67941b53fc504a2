package db

import (
	"context"
	"time"

	"github.com/nbakri/tmregistry/internal/registry/models"
	"gorm.io/gorm"
)

// NumberedRecord is the slice of an entity the consistency reporter needs:
// its numbering-field value and the date it carries.
type NumberedRecord struct {
	Number int
	Date   time.Time
}

// YearCounts aggregates the completeness metrics of one entity class for a
// year: records missing a required file or required text fields, and a
// per-status breakdown.
type YearCounts struct {
	WithoutFile    int64
	WithoutImage   int64
	WithoutReceipt int64
	WithoutData    int64
	Status         map[int]int64
}

func statusBuckets(q *gorm.DB) (map[int]int64, error) {
	var rows []struct {
		Status int
		Total  int64
	}
	if err := q.Select("status, count(*) as total").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	buckets := make(map[int]int64, len(rows))
	for _, row := range rows {
		buckets[row.Status] = row.Total
	}
	return buckets, nil
}

// DecreeNumbersByYear lists decree numbers issued in a year, ordered
// ascending, with their dates.
func (r *Repository) DecreeNumbersByYear(ctx context.Context, year int) ([]NumberedRecord, error) {
	start, end := yearBounds(year)
	var records []NumberedRecord
	err := r.db.WithContext(ctx).Model(&models.Decree{}).
		Select("number, date").
		Where("date >= ? AND date < ?", start, end).
		Order("number").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *Repository) DecreeYearCounts(ctx context.Context, year int) (*YearCounts, error) {
	start, end := yearBounds(year)
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Decree{}).
			Where("date >= ? AND date < ?", start, end)
	}

	counts := &YearCounts{}
	if err := base().Where("pdf_file = ''").Count(&counts.WithoutFile).Error; err != nil {
		return nil, err
	}
	if err := base().Where("ar_brand = '' OR en_brand = ''").Count(&counts.WithoutData).Error; err != nil {
		return nil, err
	}
	var err error
	counts.Status, err = statusBuckets(base())
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// PublicationNumbersByYear lists bulletin numbers (e_number) for
// publications applied for in a year.
func (r *Repository) PublicationNumbersByYear(ctx context.Context, year int) ([]NumberedRecord, error) {
	start, end := yearBounds(year)
	var records []NumberedRecord
	err := r.db.WithContext(ctx).Model(&models.Publication{}).
		Select("e_number as number, date_applied as date").
		Where("date_applied >= ? AND date_applied < ?", start, end).
		Order("e_number").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *Repository) PublicationYearCounts(ctx context.Context, year int) (*YearCounts, error) {
	start, end := yearBounds(year)
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Publication{}).
			Where("date_applied >= ? AND date_applied < ?", start, end)
	}

	counts := &YearCounts{}
	if err := base().Where("img_file = ''").Count(&counts.WithoutImage).Error; err != nil {
		return nil, err
	}
	if err := base().Where("attach = ''").Count(&counts.WithoutFile).Error; err != nil {
		return nil, err
	}
	if err := base().Where("ar_brand = '' OR en_brand = ''").Count(&counts.WithoutData).Error; err != nil {
		return nil, err
	}
	var err error
	counts.Status, err = statusBuckets(base())
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// ObjectionNumbersByYear lists sequencer-assigned objection numbers for a
// year with their filing timestamps.
func (r *Repository) ObjectionNumbersByYear(ctx context.Context, year int) ([]NumberedRecord, error) {
	var records []NumberedRecord
	err := r.db.WithContext(ctx).Model(&models.Objection{}).
		Select("number, created_at as date").
		Where("year = ?", year).
		Order("number").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *Repository) ObjectionYearCounts(ctx context.Context, year int) (*YearCounts, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Objection{}).Where("year = ?", year)
	}

	counts := &YearCounts{}
	if err := base().Where("pdf_file = ''").Count(&counts.WithoutFile).Error; err != nil {
		return nil, err
	}
	if err := base().Where("receipt_file = ''").Count(&counts.WithoutReceipt).Error; err != nil {
		return nil, err
	}
	if err := base().Where("name = '' OR job = ''").Count(&counts.WithoutData).Error; err != nil {
		return nil, err
	}
	var err error
	counts.Status, err = statusBuckets(base())
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// DashboardCounts is the landing-page summary across all years.
type DashboardCounts struct {
	DecreeAccept int64
	DecreeReject int64
	PubInitial   int64
	PubConflict  int64
	PubFinal     int64
	ObjPending   int64
	ObjPaid      int64
	ObjAccept    int64
}

func (r *Repository) Dashboard(ctx context.Context) (*DashboardCounts, error) {
	counts := &DashboardCounts{}
	steps := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&counts.DecreeAccept, r.db.WithContext(ctx).Model(&models.Decree{}).Where("status = ?", models.DecreeAccept)},
		{&counts.DecreeReject, r.db.WithContext(ctx).Model(&models.Decree{}).Where("status = ?", models.DecreeReject)},
		{&counts.PubInitial, r.db.WithContext(ctx).Model(&models.Publication{}).Where("status = ?", models.PublicationInitial)},
		{&counts.PubConflict, r.db.WithContext(ctx).Model(&models.Publication{}).Where("status = ?", models.PublicationConflict)},
		{&counts.PubFinal, r.db.WithContext(ctx).Model(&models.Publication{}).Where("status = ?", models.PublicationFinal)},
		{&counts.ObjPending, r.db.WithContext(ctx).Model(&models.Objection{}).Where("status IN ?", []models.ObjectionStatus{models.ObjectionPending, models.ObjectionUnconfirm})},
		{&counts.ObjPaid, r.db.WithContext(ctx).Model(&models.Objection{}).Where("status = ?", models.ObjectionPaid)},
		{&counts.ObjAccept, r.db.WithContext(ctx).Model(&models.Objection{}).Where("status = ?", models.ObjectionAccept)},
	}
	for _, step := range steps {
		if err := step.query.Count(step.dest).Error; err != nil {
			return nil, err
		}
	}
	return counts, nil
}
