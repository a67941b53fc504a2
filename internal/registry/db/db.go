// Package db implements the persistence layer of the registry on top of
// GORM. Production runs against PostgreSQL; tests run the same Repository
// against in-memory SQLite.
package db

import (
	"context"
	"fmt"

	"github.com/nbakri/tmregistry/internal/registry/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func NewRepository(cfg *Config) (*Repository, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{db: db}, nil
}

// NewRepositoryWithDB wraps an already-open gorm connection. Used by tests.
func NewRepositoryWithDB(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the schema for every registry entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Country{},
		&models.Government{},
		&models.ComType{},
		&models.DocType{},
		&models.DecreeCategory{},
		&models.Decree{},
		&models.Publication{},
		&models.Objection{},
		&models.FormPlus{},
		&models.ActivityLog{},
	)
}

// WithTransaction runs fn against a transactional copy of the repository.
// Every status transition and the sequencer's increment-and-insert go
// through here so they re-read and mutate state as one atomic unit.
func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

// yearBounds returns the half-open [start, end) timestamps covering a
// calendar year. Filtering on bounds keeps the queries portable between
// PostgreSQL and SQLite.
func yearBounds(year int) (start, end string) {
	return fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-01-01", year+1)
}
