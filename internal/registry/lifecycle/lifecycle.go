// Package lifecycle encodes the legal status transitions of the registry
// entities as a static rule table. Callers look a transition up by event,
// check the precondition against the status they re-read from the store,
// and apply the described side effects inside the same transaction.
package lifecycle

import (
	"fmt"

	e "github.com/nbakri/tmregistry/internal/registry/errors"
	"github.com/nbakri/tmregistry/internal/registry/models"
)

// Event names a user- or scheduler-triggered transition.
type Event string

const (
	ConfirmFee     Event = "confirm_fee"
	DeclineFee     Event = "decline_fee"
	ConfirmOutcome Event = "confirm_outcome"
	DeclineOutcome Event = "decline_outcome"
	Finalize       Event = "finalize"
)

// ObjectionEvents lists the events valid on an objection.
var ObjectionEvents = []Event{ConfirmFee, DeclineFee, ConfirmOutcome, DeclineOutcome}

// PublicationEffect describes what a confirmed objection transition does to
// the parent publication.
type PublicationEffect int

const (
	// PubUnchanged leaves the publication alone.
	PubUnchanged PublicationEffect = iota
	// PubConflict marks the publication as contested.
	PubConflict
	// PubObjectionUpheld records the final status applied when an objection
	// is accepted (status 4 in the registry's bookkeeping).
	PubObjectionUpheld
	// PubRevertIfLone returns the publication to initial only when no
	// competing objection remains against it.
	PubRevertIfLone
)

// ObjectionOutcome is the result of a valid objection transition.
type ObjectionOutcome struct {
	Status models.ObjectionStatus
	// SetPaid, when non-nil, overwrites the objection's paid flag.
	SetPaid *bool
	Effect  PublicationEffect
	// CompetingIncludesRejected controls which sibling objections block a
	// PubRevertIfLone effect: the fee path ignores already-rejected
	// siblings, the outcome path counts every remaining one.
	CompetingIncludesRejected bool
	// Audit is the action recorded for the transition.
	Audit models.ActivityAction
}

type objectionRule struct {
	allowed func(models.ObjectionStatus) bool
	outcome ObjectionOutcome
}

func ptrBool(v bool) *bool { return &v }

// The fee events fire from PENDING or UNCONFIRM; the outcome events only
// from PAID. Anything else is a guard failure, reported, never applied.
var objectionRules = map[Event]objectionRule{
	ConfirmFee: {
		allowed: func(s models.ObjectionStatus) bool { return s <= models.ObjectionUnconfirm },
		outcome: ObjectionOutcome{
			Status:  models.ObjectionPaid,
			SetPaid: ptrBool(true),
			Effect:  PubConflict,
			Audit:   models.ActivityConfirm,
		},
	},
	DeclineFee: {
		allowed: func(s models.ObjectionStatus) bool { return s <= models.ObjectionUnconfirm },
		outcome: ObjectionOutcome{
			Status:  models.ObjectionReject,
			SetPaid: ptrBool(false),
			Effect:  PubRevertIfLone,
			Audit:   models.ActivityReject,
		},
	},
	ConfirmOutcome: {
		allowed: func(s models.ObjectionStatus) bool { return s == models.ObjectionPaid },
		outcome: ObjectionOutcome{
			Status: models.ObjectionAccept,
			Effect: PubObjectionUpheld,
			Audit:  models.ActivityConfirm,
		},
	},
	DeclineOutcome: {
		allowed: func(s models.ObjectionStatus) bool { return s == models.ObjectionPaid },
		outcome: ObjectionOutcome{
			Status:                    models.ObjectionReject,
			Effect:                    PubRevertIfLone,
			CompetingIncludesRejected: true,
			Audit:                     models.ActivityReject,
		},
	},
}

// ObjectionTransition resolves an event against the objection's current
// persisted status. It returns ErrInvalidTransition when the event is
// unknown or the status is outside the event's precondition.
func ObjectionTransition(current models.ObjectionStatus, ev Event) (ObjectionOutcome, error) {
	rule, ok := objectionRules[ev]
	if !ok {
		return ObjectionOutcome{}, fmt.Errorf("%w: unknown objection event %q", e.ErrInvalidTransition, ev)
	}
	if !rule.allowed(current) {
		return ObjectionOutcome{}, fmt.Errorf("%w: %s not allowed from %q", e.ErrInvalidTransition, ev, current.Display())
	}
	return rule.outcome, nil
}

// PublicationTransition resolves the staff finalize action. A publication
// can only be finalized from its initial state; finalizing also marks the
// linked decree as published, which the caller applies.
func PublicationTransition(current models.PublicationStatus, ev Event) (models.PublicationStatus, error) {
	if ev != Finalize {
		return 0, fmt.Errorf("%w: unknown publication event %q", e.ErrInvalidTransition, ev)
	}
	if current != models.PublicationInitial {
		return 0, fmt.Errorf("%w: finalize not allowed from %q", e.ErrInvalidTransition, current.Display())
	}
	return models.PublicationFinal, nil
}

// UpheldStatus is the publication status recorded when an objection is
// accepted. The registry reuses slot 4 of the publication status column for
// this, matching the printed ledgers.
const UpheldStatus = models.PublicationStatus(4)
