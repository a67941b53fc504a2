package models

import (
	"time"

	"gorm.io/gorm"
)

// Objection is a formal complaint filed against a publication. Number is
// assigned by the sequencer and restarts at 1 each calendar year; Year is
// stored explicitly so the composite unique index can back the sequencer
// against concurrent writers. UniqueCode is the 13-digit tracking code
// handed to the complainant, generated once and never reassigned.
type Objection struct {
	ID     uint `gorm:"primaryKey"`
	Number int  `gorm:"not null;uniqueIndex:idx_objections_number_year"`
	Year   int  `gorm:"not null;uniqueIndex:idx_objections_number_year"`
	PubID  uint `gorm:"not null"`
	Pub    *Publication `gorm:"constraint:OnDelete:RESTRICT"`

	Name          string `gorm:"size:64;not null"`
	Job           string `gorm:"size:24;not null"`
	NationalityID uint
	Nationality   *Country `gorm:"constraint:OnDelete:RESTRICT"`
	Address       string   `gorm:"size:255;not null"`
	Phone         string   `gorm:"size:10;not null"`

	ComName        string `gorm:"size:255;not null"`
	ComJobID       uint
	ComJob         *ComType `gorm:"constraint:OnDelete:RESTRICT"`
	ComAddress     string   `gorm:"size:255;not null"`
	ComOgAddress   string   `gorm:"size:255;not null"`
	ComMailAddress string   `gorm:"size:255;not null"`

	Status  ObjectionStatus `gorm:"default:1"`
	Reason  string          `gorm:"size:100"`
	PDFFile string          `gorm:"size:255"`
	Notes   string          `gorm:"size:999"`

	IsPaid      bool   `gorm:"default:false"`
	ReceiptFile string `gorm:"size:255"`
	UniqueCode  string `gorm:"size:13;uniqueIndex"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// ObjectionUpdate carries the fields a complainant or staff member may edit
// before the objection enters staff review.
type ObjectionUpdate struct {
	ID             uint
	Name           *string
	Job            *string
	NationalityID  *uint
	Address        *string
	Phone          *string
	ComName        *string
	ComJobID       *uint
	ComAddress     *string
	ComOgAddress   *string
	ComMailAddress *string
	Reason         *string
	PDFFile        *string
	Notes          *string
	IsPaid         *bool
	ReceiptFile    *string
}
