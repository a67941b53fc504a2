package models

import (
	"time"

	"gorm.io/gorm"
)

// Publication is a bulletin announcement of a decree, open to objection
// while in its initial state. Number must be unique among non-deleted
// publications created in the same calendar year; the check runs in the
// service layer on both create and update.
//
// DecreeNumber and Year duplicate the referenced decree's identity so the
// record stays searchable and printable after the decree link is severed.
type Publication struct {
	ID           uint `gorm:"primaryKey"`
	Year         int
	Number       int `gorm:"not null;index:idx_publications_number"`
	DecreeID     *uint
	Decree       *Decree `gorm:"constraint:OnDelete:SET NULL"`
	DecreeNumber int     `gorm:"not null"`

	Applicant     string `gorm:"size:255;not null"`
	Owner         string `gorm:"size:255;not null"`
	CountryID     uint
	Country       *Country `gorm:"constraint:OnDelete:RESTRICT"`
	Address       string   `gorm:"size:255"`
	DateApplied   time.Time
	NumberApplied int
	ArBrand       string `gorm:"size:255;not null"`
	EnBrand       string `gorm:"size:255;not null"`
	CategoryID    uint
	Category      *DecreeCategory `gorm:"constraint:OnDelete:RESTRICT"`

	ImgFile string `gorm:"size:255"`
	Attach  string `gorm:"size:255"`
	// ENumber is the bulletin issue the announcement appeared in.
	ENumber int               `gorm:"not null"`
	Status  PublicationStatus `gorm:"default:1"`

	IsHidden bool   `gorm:"default:false"`
	Notes    string `gorm:"size:999"`

	ObjectionDate *time.Time
	IsObjected    bool `gorm:"default:false"`

	// CreatedAt doubles as the publication date; when the caller leaves it
	// unset it defaults to 15:00 of the current day.
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// PublicationYear is the calendar year the publication number was issued in.
func (p *Publication) PublicationYear() int {
	return p.CreatedAt.Year()
}

// DefaultPublicationTime returns the canonical publication timestamp for a
// given day: the same date at 15:00 local time.
func DefaultPublicationTime(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 15, 0, 0, 0, day.Location())
}

// PublicationUpdate carries the editable publication fields.
type PublicationUpdate struct {
	ID            uint
	Number        *int
	DecreeNumber  *int
	Applicant     *string
	Owner         *string
	CountryID     *uint
	Address       *string
	DateApplied   *time.Time
	NumberApplied *int
	ArBrand       *string
	EnBrand       *string
	CategoryID    *uint
	ImgFile       *string
	Attach        *string
	ENumber       *int
	IsHidden      *bool
	Notes         *string
}
