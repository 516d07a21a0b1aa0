package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/sportsbook-performance/internal/models"
)

// ReportRepository persists the outcome of a sync run
type ReportRepository interface {
	SaveRun(ctx context.Context, runID uuid.UUID, day time.Time, records []models.ReconciledRecord, summaries []models.BookmakerSummary) error
	GetSummaries(ctx context.Context, runID uuid.UUID) ([]models.BookmakerSummary, error)
}
