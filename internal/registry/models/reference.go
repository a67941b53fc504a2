package models

import "time"

// Country is a lookup table for applicant nationality and brand origin.
type Country struct {
	ID        uint   `gorm:"primaryKey"`
	EnName    string `gorm:"size:255;uniqueIndex"`
	ArName    string `gorm:"size:255;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Government is a lookup table for the issuing authority on FormPlus records.
type Government struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ComType is a lookup table for the business purpose of objecting companies.
type ComType struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DocType is a lookup table for FormPlus document categories.
type DocType struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DecreeCategory is the international trademark class a decree falls under.
type DecreeCategory struct {
	ID        uint   `gorm:"primaryKey"`
	Number    int    `gorm:"uniqueIndex"`
	Name      string `gorm:"size:999;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
