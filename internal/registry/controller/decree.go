package controller

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/nbakri/tmregistry/internal/registry/db"
	e "github.com/nbakri/tmregistry/internal/registry/errors"
	"github.com/nbakri/tmregistry/internal/registry/models"
	"go.uber.org/zap"
)

const modelDecree = "قرار"

// CreateDecree validates and stores a new decree.
func (s *Service) CreateDecree(ctx context.Context, decree *models.Decree, actor Actor) (*models.Decree, error) {
	if decree.Number <= 0 {
		return nil, fmt.Errorf("%w: decree number must be positive", e.ErrInvalidInput)
	}
	if decree.Date.IsZero() {
		return nil, fmt.Errorf("%w: decree date is required", e.ErrInvalidInput)
	}
	if decree.Status != 0 && !decree.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown decree status %d", e.ErrInvalidInput, decree.Status)
	}

	if err := s.repo.CreateDecree(ctx, decree); err != nil {
		return nil, err
	}
	s.logger.Info("decree created",
		zap.Uint("id", decree.ID),
		zap.Int("number", decree.Number),
		zap.Int("year", decree.Year()),
	)
	s.audit(ctx, actor, models.ActivityCreate, modelDecree, decree.ID, strconv.Itoa(decree.Number))
	return decree, nil
}

// GetDecree loads one decree with its references resolved.
func (s *Service) GetDecree(ctx context.Context, id uint) (*models.Decree, error) {
	return s.repo.GetDecree(ctx, id)
}

// ListDecrees returns decrees matching the filter, placeholders first when
// they are requested at all.
func (s *Service) ListDecrees(ctx context.Context, filter db.DecreeFilter) ([]models.Decree, error) {
	return s.repo.ListDecrees(ctx, filter)
}

// UpdateDecree applies a partial edit. Editing is also what promotes a
// placeholder stub into a real decree, so the activity row distinguishes the
// two cases.
func (s *Service) UpdateDecree(ctx context.Context, update *models.DecreeUpdate, actor Actor) (*models.Decree, error) {
	if update.Number != nil && *update.Number <= 0 {
		return nil, fmt.Errorf("%w: decree number must be positive", e.ErrInvalidInput)
	}
	if update.Status != nil && !update.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown decree status %d", e.ErrInvalidInput, *update.Status)
	}

	var decree *models.Decree
	var wasPlaceholder bool
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		current, err := tx.GetDecree(ctx, update.ID)
		if err != nil {
			return err
		}
		wasPlaceholder = current.IsPlaceholder
		if err := tx.UpdateDecree(ctx, update); err != nil {
			return err
		}
		decree, err = tx.GetDecree(ctx, update.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	model := modelDecree
	if wasPlaceholder {
		model = "قرار مؤقت"
		s.logger.Info("placeholder decree promoted",
			zap.Uint("id", decree.ID),
			zap.Int("number", decree.Number),
		)
	}
	s.audit(ctx, actor, models.ActivityUpdate, model, decree.ID, strconv.Itoa(decree.Number))
	return decree, nil
}

// DeleteDecree soft-deletes a decree. Publications keep their denormalized
// decree number; the foreign key is severed by the database.
func (s *Service) DeleteDecree(ctx context.Context, id uint, actor Actor) error {
	decree, err := s.repo.GetDecree(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteDecree(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor, models.ActivityDelete, modelDecree, id, strconv.Itoa(decree.Number))
	return nil
}

// AcceptedDecreesOn feeds the public same-day lookup of accepted decrees.
func (s *Service) AcceptedDecreesOn(ctx context.Context, day time.Time) ([]models.Decree, error) {
	return s.repo.AcceptedDecreesOn(ctx, day)
}
