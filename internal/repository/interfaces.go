package repository

import (
	"context"
	"errors"

	"github.com/RMahshie/modulus/pkg/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a batch does not exist
var ErrNotFound = errors.New("not found")

// BatchRepository defines the interface for batch data operations
type BatchRepository interface {
	Create(ctx context.Context, batch *models.Batch) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Batch, error)
	GetBySessionID(ctx context.Context, sessionID string) ([]*models.Batch, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error
	// ClaimProcessing moves a batch to processing unless it already is, reporting whether it did
	ClaimProcessing(ctx context.Context, id uuid.UUID) (bool, error)
	UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error
	AddFile(ctx context.Context, file *models.BatchFile) error
	ListFiles(ctx context.Context, batchID uuid.UUID) ([]*models.BatchFile, error)
	StoreCurve(ctx context.Context, record *models.CurveRecord) error
	GetCurves(ctx context.Context, batchID uuid.UUID) ([]*models.CurveRecord, error)
}
