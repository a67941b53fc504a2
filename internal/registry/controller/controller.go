// Package controller implements the registry's business logic: entity
// creation with validation and placeholder reconciliation, the status
// transitions with their cross-entity side effects, the stale-publication
// sweep and the yearly consistency reports.
package controller

import (
	"context"
	"time"

	"github.com/nbakri/tmregistry/internal/registry/db"
	"github.com/nbakri/tmregistry/internal/registry/events"
	"github.com/nbakri/tmregistry/internal/registry/models"
	"github.com/nbakri/tmregistry/internal/registry/report"
	"github.com/nbakri/tmregistry/internal/registry/sequencer"
	"go.uber.org/zap"
)

// Actor identifies who performed an operation, for the audit trail.
// Zero-value actors record anonymous public submissions.
type Actor struct {
	Username  string
	IPAddress string
	UserAgent string
}

// AuditProducer is the audit-log event sink.
type AuditProducer interface {
	Produce(event events.AuditEvent)
}

// Repository defines the storage surface the service orchestrates.
// Transactions hand the callback a concrete repository bound to the tx.
type Repository interface {
	CreateDecree(ctx context.Context, decree *models.Decree) error
	GetDecree(ctx context.Context, id uint) (*models.Decree, error)
	UpdateDecree(ctx context.Context, update *models.DecreeUpdate) error
	DeleteDecree(ctx context.Context, id uint) error
	ListDecrees(ctx context.Context, filter db.DecreeFilter) ([]models.Decree, error)
	AcceptedDecreesOn(ctx context.Context, day time.Time) ([]models.Decree, error)

	CreatePublication(ctx context.Context, pub *models.Publication) error
	GetPublication(ctx context.Context, id uint) (*models.Publication, error)
	UpdatePublication(ctx context.Context, update *models.PublicationUpdate) error
	DeletePublication(ctx context.Context, id uint) error
	ListPublications(ctx context.Context, filter db.PublicationFilter) ([]models.Publication, error)

	GetObjection(ctx context.Context, id uint) (*models.Objection, error)
	UpdateObjection(ctx context.Context, update *models.ObjectionUpdate) error
	DeleteObjection(ctx context.Context, id uint) error
	ListObjections(ctx context.Context, filter db.ObjectionFilter) ([]models.Objection, error)
	FindObjectionByCode(ctx context.Context, code, phone string) (*models.Objection, error)

	CreateFormPlus(ctx context.Context, doc *models.FormPlus) error
	GetFormPlus(ctx context.Context, id uint) (*models.FormPlus, error)
	UpdateFormPlus(ctx context.Context, update *models.FormPlusUpdate) error
	DeleteFormPlus(ctx context.Context, id uint) error
	ListFormPlus(ctx context.Context, filter db.FormPlusFilter) ([]models.FormPlus, error)

	SaveActivity(ctx context.Context, entry *models.ActivityLog) error
	ListActivity(ctx context.Context, filter db.ActivityFilter) ([]models.ActivityLog, error)
	Dashboard(ctx context.Context) (*db.DashboardCounts, error)

	WithTransaction(ctx context.Context, fn func(repo *db.Repository) error) error
	Close() error
}

// Service wires the repository, sequencer, report generator and audit sink
// behind the operations the web layer calls.
type Service struct {
	repo      Repository
	sequencer *sequencer.Sequencer
	reports   *report.Generator
	producer  AuditProducer
	logger    *zap.Logger
}

func NewService(
	repo Repository,
	seq *sequencer.Sequencer,
	reports *report.Generator,
	producer AuditProducer,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:      repo,
		sequencer: seq,
		reports:   reports,
		producer:  producer,
		logger:    logger.Named("registry_service"),
	}
}

// audit writes the activity row and mirrors it onto the event stream. A
// failed audit write is logged, not propagated: the operation it records
// already committed.
func (s *Service) audit(ctx context.Context, actor Actor, action models.ActivityAction, modelName string, objectID uint, number string) {
	entry := &models.ActivityLog{
		Actor:     actor.Username,
		Action:    action,
		ModelName: modelName,
		ObjectID:  objectID,
		Number:    number,
		IPAddress: actor.IPAddress,
		UserAgent: actor.UserAgent,
	}
	if err := s.repo.SaveActivity(ctx, entry); err != nil {
		s.logger.Error("failed to save activity entry",
			zap.Error(err),
			zap.String("action", string(action)),
			zap.String("model", modelName),
		)
	}
	s.producer.Produce(events.AuditEvent{
		Action:    action,
		ModelName: modelName,
		ObjectID:  objectID,
		Number:    number,
		Actor:     actor.Username,
		IPAddress: actor.IPAddress,
		At:        time.Now(),
	})
}

// RecordLogin writes the audit row for a successful staff login.
func (s *Service) RecordLogin(ctx context.Context, actor Actor) {
	s.audit(ctx, actor, models.ActivityLogin, "", 0, "")
}

// RecordDownload writes the audit row for a document download.
func (s *Service) RecordDownload(ctx context.Context, actor Actor, key string) {
	s.audit(ctx, actor, models.ActivityDownload, "مستند", 0, key)
}

// Dashboard returns the landing-page status summary.
func (s *Service) Dashboard(ctx context.Context) (*db.DashboardCounts, error) {
	return s.repo.Dashboard(ctx)
}

// Activity lists audit entries, newest first.
func (s *Service) Activity(ctx context.Context, filter db.ActivityFilter) ([]models.ActivityLog, error) {
	return s.repo.ListActivity(ctx, filter)
}
