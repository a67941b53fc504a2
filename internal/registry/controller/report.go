package controller

import (
	"context"
	"fmt"

	e "github.com/nbakri/tmregistry/internal/registry/errors"
	"github.com/nbakri/tmregistry/internal/registry/report"
)

// YearlyReport builds the consistency report for one entity class and year:
// the number range actually used, the gaps, and the completeness counters.
func (s *Service) YearlyReport(ctx context.Context, kind report.Kind, year int) (*report.Report, error) {
	if year <= 0 {
		return nil, fmt.Errorf("%w: report year must be positive", e.ErrInvalidInput)
	}
	return s.reports.Build(ctx, kind, year)
}
