package controller

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/nbakri/tmregistry/internal/registry/db"
	e "github.com/nbakri/tmregistry/internal/registry/errors"
	"github.com/nbakri/tmregistry/internal/registry/lifecycle"
	"github.com/nbakri/tmregistry/internal/registry/models"
	"github.com/nbakri/tmregistry/internal/registry/sequencer"
	"go.uber.org/zap"
)

const modelObjection = "اعتراض"

// CreateObjection files a complaint against a publication. The sequencer
// assigns the per-year number and the tracking code; the insert and the
// publication's objected marker commit in one transaction, and a number
// collision from a concurrent writer retries with a fresh allocation.
//
// A submission that already carries a payment receipt enters review in the
// unconfirmed-fee state instead of pending.
func (s *Service) CreateObjection(ctx context.Context, obj *models.Objection, actor Actor) (*models.Objection, error) {
	if obj.PubID == 0 {
		return nil, fmt.Errorf("%w: objection must name a publication", e.ErrInvalidInput)
	}
	if obj.Name == "" || obj.Phone == "" {
		return nil, fmt.Errorf("%w: complainant name and phone are required", e.ErrInvalidInput)
	}
	if _, err := s.repo.GetPublication(ctx, obj.PubID); err != nil {
		return nil, err
	}

	obj.Status = models.ObjectionPending
	if obj.IsPaid && obj.ReceiptFile != "" {
		obj.Status = models.ObjectionUnconfirm
	}

	// The sequence follows the filing year, not the year of the publication
	// being objected to.
	if obj.CreatedAt.IsZero() {
		obj.CreatedAt = time.Now()
	}
	year := obj.CreatedAt.Year()
	err := s.sequencer.WithNextNumber(ctx, year, func(number int) error {
		code, err := s.sequencer.TrackingCode(ctx)
		if err != nil {
			return err
		}
		obj.Number = number
		obj.Year = year
		obj.UniqueCode = code
		return s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
			if err := tx.CreateObjection(ctx, obj); err != nil {
				return err
			}
			return tx.MarkPublicationObjected(ctx, obj.PubID, obj.CreatedAt)
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("objection filed",
		zap.Uint("id", obj.ID),
		zap.Int("number", obj.Number),
		zap.Int("year", obj.Year),
		zap.Uint("publication_id", obj.PubID),
	)
	s.audit(ctx, actor, models.ActivityCreate, modelObjection, obj.ID, strconv.Itoa(obj.Number))
	return obj, nil
}

// GetObjection loads one objection with its references resolved.
func (s *Service) GetObjection(ctx context.Context, id uint) (*models.Objection, error) {
	return s.repo.GetObjection(ctx, id)
}

// ListObjections returns objections matching the filter, newest first.
func (s *Service) ListObjections(ctx context.Context, filter db.ObjectionFilter) ([]models.Objection, error) {
	return s.repo.ListObjections(ctx, filter)
}

// TrackObjection resolves the public status lookup: tracking code plus the
// phone the complainant filed with. A mismatch on either reads as not found.
func (s *Service) TrackObjection(ctx context.Context, code, phone string) (*models.Objection, error) {
	if len(code) != sequencer.CodeLength || phone == "" {
		return nil, fmt.Errorf("%w: tracking code and phone are required", e.ErrInvalidInput)
	}
	return s.repo.FindObjectionByCode(ctx, code, phone)
}

// UpdateObjection applies a partial edit. A complainant attaching the fee
// receipt to a still-pending objection moves it into the unconfirmed-fee
// state for staff review.
func (s *Service) UpdateObjection(ctx context.Context, update *models.ObjectionUpdate, actor Actor) (*models.Objection, error) {
	var updated *models.Objection
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		current, err := tx.GetObjection(ctx, update.ID)
		if err != nil {
			return err
		}
		if err := tx.UpdateObjection(ctx, update); err != nil {
			return err
		}
		if current.Status == models.ObjectionPending && receiptAttached(current, update) {
			if err := tx.SetObjectionStatus(ctx, update.ID, models.ObjectionUnconfirm, nil); err != nil {
				return err
			}
		}
		updated, err = tx.GetObjection(ctx, update.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.audit(ctx, actor, models.ActivityUpdate, modelObjection, updated.ID, strconv.Itoa(updated.Number))
	return updated, nil
}

func receiptAttached(current *models.Objection, update *models.ObjectionUpdate) bool {
	paid := current.IsPaid
	if update.IsPaid != nil {
		paid = *update.IsPaid
	}
	receipt := current.ReceiptFile
	if update.ReceiptFile != nil {
		receipt = *update.ReceiptFile
	}
	return paid && receipt != ""
}

// DeleteObjection soft-deletes an objection. Its number and tracking code
// stay burned; neither is ever reissued.
func (s *Service) DeleteObjection(ctx context.Context, id uint, actor Actor) error {
	obj, err := s.repo.GetObjection(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteObjection(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor, models.ActivityDelete, modelObjection, id, strconv.Itoa(obj.Number))
	return nil
}

// TransitionObjection runs one staff decision through the rule table. The
// current status is re-read inside the transaction, the guard checked, and
// the objection's new status plus the publication side effect committed
// together. Rejections only return the publication to its initial state
// when no competing objection remains against it.
func (s *Service) TransitionObjection(ctx context.Context, id uint, ev lifecycle.Event, actor Actor) (*models.Objection, error) {
	var updated *models.Objection
	var audit models.ActivityAction
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		obj, err := tx.GetObjection(ctx, id)
		if err != nil {
			return err
		}
		outcome, err := lifecycle.ObjectionTransition(obj.Status, ev)
		if err != nil {
			return err
		}
		audit = outcome.Audit

		if err := tx.SetObjectionStatus(ctx, id, outcome.Status, outcome.SetPaid); err != nil {
			return err
		}
		if err := s.applyPublicationEffect(ctx, tx, obj, outcome); err != nil {
			return err
		}
		updated, err = tx.GetObjection(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("objection transitioned",
		zap.Uint("id", updated.ID),
		zap.String("event", string(ev)),
		zap.String("status", updated.Status.Display()),
	)
	s.audit(ctx, actor, audit, modelObjection, updated.ID, strconv.Itoa(updated.Number))
	return updated, nil
}

func (s *Service) applyPublicationEffect(ctx context.Context, tx *db.Repository, obj *models.Objection, outcome lifecycle.ObjectionOutcome) error {
	switch outcome.Effect {
	case lifecycle.PubUnchanged:
		return nil
	case lifecycle.PubConflict:
		return tx.SetPublicationStatus(ctx, obj.PubID, models.PublicationConflict)
	case lifecycle.PubObjectionUpheld:
		return tx.SetPublicationStatus(ctx, obj.PubID, lifecycle.UpheldStatus)
	case lifecycle.PubRevertIfLone:
		competing, err := tx.CompetingObjections(ctx, obj.PubID, obj.ID, outcome.CompetingIncludesRejected)
		if err != nil {
			return err
		}
		if competing > 0 {
			return nil
		}
		return tx.SetPublicationStatus(ctx, obj.PubID, models.PublicationInitial)
	default:
		return fmt.Errorf("%w: unknown publication effect %d", e.ErrInvalidTransition, outcome.Effect)
	}
}
