package models

import (
	"time"

	"gorm.io/gorm"
)

// Decree represents a ministerial trademark ruling. Number is unique per
// year of Date, not on its own. A decree may start life as a placeholder
// stub auto-created by a publication that references a decree not yet
// entered by staff; the flag is cleared on the first explicit edit.
type Decree struct {
	ID     uint         `gorm:"primaryKey"`
	Number int          `gorm:"not null;index:idx_decrees_number_year"`
	Date   time.Time    `gorm:"not null"`
	Status DecreeStatus `gorm:"default:1"`

	Applicant     string `gorm:"size:255"`
	Company       string `gorm:"size:255"`
	CountryID     *uint
	Country       *Country `gorm:"constraint:OnDelete:RESTRICT"`
	DateApplied   *time.Time
	NumberApplied *int

	ArBrand    string `gorm:"size:255"`
	EnBrand    string `gorm:"size:255"`
	CategoryID *uint
	Category   *DecreeCategory `gorm:"constraint:OnDelete:RESTRICT"`

	// PDFFile and Attach hold storage keys, not paths chosen by the uploader.
	PDFFile string `gorm:"size:255"`
	Attach  string `gorm:"size:255"`
	Notes   string `gorm:"size:999"`

	IsPublished    bool `gorm:"default:false"`
	IsWithdrawn    bool `gorm:"default:false"`
	IsCanceled     bool `gorm:"default:false"`
	NumberCanceled string
	IsPlaceholder  bool `gorm:"default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// Year is the registry year the decree number belongs to.
func (d *Decree) Year() int {
	return d.Date.Year()
}

// DecreeUpdate carries the editable decree fields. Pointer fields are
// applied only when set, so a partial edit leaves the rest untouched.
type DecreeUpdate struct {
	ID            uint
	Number        *int
	Date          *time.Time
	Status        *DecreeStatus
	Applicant     *string
	Company       *string
	CountryID     *uint
	DateApplied   *time.Time
	NumberApplied *int
	ArBrand       *string
	EnBrand       *string
	CategoryID    *uint
	PDFFile       *string
	Attach        *string
	Notes         *string
	IsWithdrawn   *bool
	IsCanceled    *bool
	NumberCanceled *string
}
