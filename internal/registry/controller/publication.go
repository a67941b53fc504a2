package controller

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/nbakri/tmregistry/internal/registry/db"
	e "github.com/nbakri/tmregistry/internal/registry/errors"
	"github.com/nbakri/tmregistry/internal/registry/lifecycle"
	"github.com/nbakri/tmregistry/internal/registry/models"
	"go.uber.org/zap"
)

const modelPublication = "اشهار"

// StaleAfter is how long a publication may sit unopposed in its initial
// state before the sweep finalizes it.
const StaleAfter = 30 * 24 * time.Hour

func validatePublication(number, decreeNumber, year, eNumber int) error {
	if number <= 0 {
		return fmt.Errorf("%w: publication number must be positive", e.ErrInvalidInput)
	}
	if decreeNumber <= 0 {
		return fmt.Errorf("%w: decree number must be positive", e.ErrInvalidInput)
	}
	if year <= 0 {
		return fmt.Errorf("%w: decree year is required", e.ErrInvalidInput)
	}
	if eNumber <= 0 {
		return fmt.Errorf("%w: bulletin number must be positive", e.ErrInvalidInput)
	}
	return nil
}

// CreatePublication stores a new announcement. Inside one transaction it
// enforces the per-year number uniqueness, then links the decree named by
// (decree number, year): when no such decree exists yet a placeholder stub
// is created and left for staff to fill in later.
func (s *Service) CreatePublication(ctx context.Context, pub *models.Publication, actor Actor) (*models.Publication, error) {
	if err := validatePublication(pub.Number, pub.DecreeNumber, pub.Year, pub.ENumber); err != nil {
		return nil, err
	}
	if pub.CreatedAt.IsZero() {
		pub.CreatedAt = models.DefaultPublicationTime(time.Now())
	}

	var placeholder *models.Decree
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		taken, err := tx.PublicationNumberTaken(ctx, pub.Number, pub.CreatedAt.Year(), 0)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: publication %d already exists in %d",
				e.ErrDuplicateNumber, pub.Number, pub.CreatedAt.Year())
		}

		decree, err := tx.FindDecreeByNumberYear(ctx, pub.DecreeNumber, pub.Year)
		if errors.Is(err, e.ErrNotFound) {
			decree = placeholderDecree(pub)
			if err := tx.CreateDecree(ctx, decree); err != nil {
				return fmt.Errorf("failed to create placeholder decree: %w", err)
			}
			placeholder = decree
		} else if err != nil {
			return err
		}

		pub.DecreeID = &decree.ID
		return tx.CreatePublication(ctx, pub)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("publication created",
		zap.Uint("id", pub.ID),
		zap.Int("number", pub.Number),
		zap.Int("decree_number", pub.DecreeNumber),
		zap.Bool("placeholder_decree", placeholder != nil),
	)
	if placeholder != nil {
		s.audit(ctx, actor, models.ActivityCreate, "قرار مؤقت", placeholder.ID, strconv.Itoa(placeholder.Number))
	}
	s.audit(ctx, actor, models.ActivityCreate, modelPublication, pub.ID, strconv.Itoa(pub.Number))
	return pub, nil
}

// placeholderDecree builds the stub a publication creates for a decree the
// staff has not entered yet, seeded from the publication's own data. The
// stub date pins the decree into the publication's stated year.
func placeholderDecree(pub *models.Publication) *models.Decree {
	dateApplied := pub.DateApplied
	numberApplied := pub.NumberApplied
	countryID := pub.CountryID
	categoryID := pub.CategoryID
	return &models.Decree{
		Number:        pub.DecreeNumber,
		Date:          time.Date(pub.Year, time.January, 1, 0, 0, 0, 0, time.UTC),
		Applicant:     pub.Applicant,
		Company:       pub.Owner,
		CountryID:     &countryID,
		DateApplied:   &dateApplied,
		NumberApplied: &numberApplied,
		ArBrand:       pub.ArBrand,
		EnBrand:       pub.EnBrand,
		CategoryID:    &categoryID,
		IsPlaceholder: true,
	}
}

// GetPublication loads one publication with its references resolved.
func (s *Service) GetPublication(ctx context.Context, id uint) (*models.Publication, error) {
	return s.repo.GetPublication(ctx, id)
}

// ListPublications returns publications matching the filter, newest first.
func (s *Service) ListPublications(ctx context.Context, filter db.PublicationFilter) ([]models.Publication, error) {
	return s.repo.ListPublications(ctx, filter)
}

// UpdatePublication applies a partial edit. A number change re-runs the
// per-year uniqueness check against every other publication of the year.
func (s *Service) UpdatePublication(ctx context.Context, update *models.PublicationUpdate, actor Actor) (*models.Publication, error) {
	var updated *models.Publication
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		current, err := tx.GetPublication(ctx, update.ID)
		if err != nil {
			return err
		}
		if update.Number != nil && *update.Number != current.Number {
			if *update.Number <= 0 {
				return fmt.Errorf("%w: publication number must be positive", e.ErrInvalidInput)
			}
			taken, err := tx.PublicationNumberTaken(ctx, *update.Number, current.CreatedAt.Year(), current.ID)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("%w: publication %d already exists in %d",
					e.ErrDuplicateNumber, *update.Number, current.CreatedAt.Year())
			}
		}
		if err := tx.UpdatePublication(ctx, update); err != nil {
			return err
		}
		updated, err = tx.GetPublication(ctx, update.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.audit(ctx, actor, models.ActivityUpdate, modelPublication, updated.ID, strconv.Itoa(updated.Number))
	return updated, nil
}

// DeletePublication soft-deletes a publication.
func (s *Service) DeletePublication(ctx context.Context, id uint, actor Actor) error {
	pub, err := s.repo.GetPublication(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeletePublication(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor, models.ActivityDelete, modelPublication, id, strconv.Itoa(pub.Number))
	return nil
}

// FinalizePublication moves a publication from its initial state to final
// and marks the linked decree as published. The status is re-read inside the
// transaction so a concurrent transition cannot slip through the guard.
func (s *Service) FinalizePublication(ctx context.Context, id uint, actor Actor) (*models.Publication, error) {
	var updated *models.Publication
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		pub, err := tx.GetPublication(ctx, id)
		if err != nil {
			return err
		}
		next, err := lifecycle.PublicationTransition(pub.Status, lifecycle.Finalize)
		if err != nil {
			return err
		}
		if err := tx.SetPublicationStatus(ctx, id, next); err != nil {
			return err
		}
		if pub.DecreeID != nil {
			if err := tx.SetDecreePublished(ctx, *pub.DecreeID, true); err != nil {
				return err
			}
		}
		updated, err = tx.GetPublication(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("publication finalized",
		zap.Uint("id", updated.ID),
		zap.Int("number", updated.Number),
	)
	s.audit(ctx, actor, models.ActivityConfirm, modelPublication, updated.ID, strconv.Itoa(updated.Number))
	return updated, nil
}

// SweepStalePublications finalizes every publication that sat unopposed in
// its initial state for the stale window, and marks the linked decrees as
// published. It returns how many publications actually moved; re-running
// over the same rows moves nothing, so overlapping sweeps are harmless.
func (s *Service) SweepStalePublications(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-StaleAfter)
	var finalized int64
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		stale, err := tx.ListStalePublications(ctx, cutoff)
		if err != nil {
			return err
		}
		if len(stale) == 0 {
			return nil
		}
		ids := make([]uint, 0, len(stale))
		decreeIDs := make([]uint, 0, len(stale))
		for _, pub := range stale {
			ids = append(ids, pub.ID)
			if pub.DecreeID != nil {
				decreeIDs = append(decreeIDs, *pub.DecreeID)
			}
		}
		finalized, err = tx.FinalizePublications(ctx, ids)
		if err != nil {
			return err
		}
		return tx.MarkDecreesPublished(ctx, decreeIDs)
	})
	if err != nil {
		return 0, err
	}
	if finalized > 0 {
		s.logger.Info("stale publications finalized", zap.Int64("count", finalized))
	}
	return finalized, nil
}
