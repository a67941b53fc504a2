package models

import (
	"time"

	"gorm.io/gorm"
)

// FormPlus is a standalone legal document (legislation text, template,
// circular). It carries no lifecycle coupling with the other entities.
type FormPlus struct {
	ID           uint   `gorm:"primaryKey"`
	Number       string `gorm:"size:20"`
	Date         time.Time
	GovernmentID *uint
	Government   *Government `gorm:"constraint:OnDelete:RESTRICT"`
	TypeID       uint
	Type         *DocType `gorm:"constraint:OnDelete:RESTRICT"`
	Title        string   `gorm:"size:255;not null"`
	Keywords     string   `gorm:"size:999"`
	PDFFile      string   `gorm:"size:255;not null"`
	WordFile     string   `gorm:"size:255"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// FormPlusUpdate carries the editable FormPlus fields.
type FormPlusUpdate struct {
	ID           uint
	Number       *string
	Date         *time.Time
	GovernmentID *uint
	TypeID       *uint
	Title        *string
	Keywords     *string
	PDFFile      *string
	WordFile     *string
}
