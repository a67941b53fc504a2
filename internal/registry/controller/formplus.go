package controller

import (
	"context"
	"fmt"

	"github.com/nbakri/tmregistry/internal/registry/db"
	e "github.com/nbakri/tmregistry/internal/registry/errors"
	"github.com/nbakri/tmregistry/internal/registry/models"
)

const modelFormPlus = "تشريع او نموذج"

// CreateFormPlus stores a standalone legal document.
func (s *Service) CreateFormPlus(ctx context.Context, doc *models.FormPlus, actor Actor) (*models.FormPlus, error) {
	if doc.Title == "" {
		return nil, fmt.Errorf("%w: document title is required", e.ErrInvalidInput)
	}
	if doc.PDFFile == "" {
		return nil, fmt.Errorf("%w: document file is required", e.ErrInvalidInput)
	}
	if err := s.repo.CreateFormPlus(ctx, doc); err != nil {
		return nil, err
	}
	s.audit(ctx, actor, models.ActivityCreate, modelFormPlus, doc.ID, doc.Number)
	return doc, nil
}

func (s *Service) GetFormPlus(ctx context.Context, id uint) (*models.FormPlus, error) {
	return s.repo.GetFormPlus(ctx, id)
}

func (s *Service) ListFormPlus(ctx context.Context, filter db.FormPlusFilter) ([]models.FormPlus, error) {
	return s.repo.ListFormPlus(ctx, filter)
}

func (s *Service) UpdateFormPlus(ctx context.Context, update *models.FormPlusUpdate, actor Actor) (*models.FormPlus, error) {
	if err := s.repo.UpdateFormPlus(ctx, update); err != nil {
		return nil, err
	}
	doc, err := s.repo.GetFormPlus(ctx, update.ID)
	if err != nil {
		return nil, err
	}
	s.audit(ctx, actor, models.ActivityUpdate, modelFormPlus, doc.ID, doc.Number)
	return doc, nil
}

func (s *Service) DeleteFormPlus(ctx context.Context, id uint, actor Actor) error {
	doc, err := s.repo.GetFormPlus(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteFormPlus(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor, models.ActivityDelete, modelFormPlus, id, doc.Number)
	return nil
}
