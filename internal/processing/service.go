package processing

import (
	"context"
	"errors"
	"fmt"

	"github.com/RMahshie/modulus/internal/repository"
	"github.com/RMahshie/modulus/internal/storage"
	"github.com/RMahshie/modulus/internal/tensile"
	"github.com/RMahshie/modulus/pkg/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type ProcessingService interface {
	ProcessBatch(ctx context.Context, batchID uuid.UUID) error
}

type processingService struct {
	store      storage.ObjectStore
	repository repository.BatchRepository
	workers    int
	logger     zerolog.Logger
}

// Option configures the processing service
type Option func(*processingService)

// WithWorkers bounds how many curves of a batch are analyzed at once
func WithWorkers(n int) Option {
	return func(s *processingService) {
		s.workers = n
	}
}

// WithLogger sets the logger handed to the curve processor
func WithLogger(logger zerolog.Logger) Option {
	return func(s *processingService) {
		s.logger = logger
	}
}

func NewProcessingService(store storage.ObjectStore, repo repository.BatchRepository, opts ...Option) ProcessingService {
	s := &processingService{
		store:      store,
		repository: repo,
		logger:     log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *processingService) ProcessBatch(ctx context.Context, batchID uuid.UUID) error {
	// Step 1: Update to processing status
	if err := s.repository.UpdateStatus(ctx, batchID, models.StatusProcessing, 10); err != nil {
		return err
	}

	// Step 2: Get batch details and its files
	batch, err := s.repository.GetByID(ctx, batchID)
	if err != nil {
		return err
	}

	files, err := s.repository.ListFiles(ctx, batchID)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		s.repository.UpdateError(ctx, batchID, "Batch has no files")
		return nil // Don't return error, status is updated to failed
	}

	// Step 3: Download every export
	if err := s.repository.UpdateStatus(ctx, batchID, models.StatusProcessing, 20); err != nil {
		return err
	}

	texts := make([]string, len(files))
	for i, f := range files {
		data, err := s.store.DownloadFile(ctx, f.StorageKey)
		if err != nil {
			log.Error().Err(err).Str("batchID", batch.ID).Str("key", f.StorageKey).Msg("Failed to download export")
			s.repository.UpdateError(ctx, batchID, fmt.Sprintf("Failed to download %s", f.FileName))
			return nil // Don't return error, status is updated to failed
		}
		texts[i] = string(data)
	}

	// Step 4: Analyze the curves
	if err := s.repository.UpdateStatus(ctx, batchID, models.StatusProcessing, 50); err != nil {
		return err
	}

	processor := tensile.NewProcessor(batch.Params,
		tensile.WithWorkers(s.workers),
		tensile.WithLogger(s.logger.With().Str("batchID", batch.ID).Logger()))
	outcomes := processor.ProcessEach(ctx, texts)

	// Step 5: Store one record per file
	if err := s.repository.UpdateStatus(ctx, batchID, models.StatusProcessing, 80); err != nil {
		return err
	}

	failed := 0
	for i, outcome := range outcomes {
		record := &models.CurveRecord{
			ID:       uuid.New().String(),
			BatchID:  batch.ID,
			Position: files[i].Position,
			FileName: files[i].FileName,
			Status:   models.StatusCompleted,
			Result:   outcome.Result,
		}
		if outcome.Err != nil {
			failed++
			msg := curveErrorMessage(outcome.Err)
			record.Status = models.StatusFailed
			record.ErrorMsg = &msg
		}
		if err := s.repository.StoreCurve(ctx, record); err != nil {
			return fmt.Errorf("failed to store curve %d: %w", i, err)
		}
	}

	log.Info().
		Str("batchID", batch.ID).
		Int("curves", len(outcomes)).
		Int("failed", failed).
		Msg("Batch analyzed")

	// Step 6: Mark complete
	return s.repository.UpdateStatus(ctx, batchID, models.StatusCompleted, 100)
}

// curveErrorMessage drops the batch index, the stored record already carries the position
func curveErrorMessage(err error) string {
	var ce *tensile.CurveError
	if errors.As(err, &ce) {
		return ce.Err.Error()
	}
	return err.Error()
}
