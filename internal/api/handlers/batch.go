package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RMahshie/modulus/internal/processing"
	"github.com/RMahshie/modulus/internal/repository"
	"github.com/RMahshie/modulus/internal/storage"
	"github.com/RMahshie/modulus/internal/tensile"
	"github.com/RMahshie/modulus/pkg/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// BatchHandler handles batch-related HTTP requests
type BatchHandler struct {
	repo          repository.BatchRepository
	store         storage.ObjectStore
	processingSvc processing.ProcessingService
}

// NewBatchHandler creates a new batch handler
func NewBatchHandler(repo repository.BatchRepository, store storage.ObjectStore, processingSvc processing.ProcessingService) *BatchHandler {
	return &BatchHandler{
		repo:          repo,
		store:         store,
		processingSvc: processingSvc,
	}
}

// CreateBatch creates a new batch and returns one upload URL per file
func (h *BatchHandler) CreateBatch(ctx context.Context, req *models.CreateBatchRequest) (*models.CreateBatchResponse, error) {
	log.Info().Int("files", len(req.Body.FileNames)).Str("sessionID", req.Body.SessionID).Msg("Creating new batch")

	if err := tensile.ValidateParams(req.Body.Params); err != nil {
		return nil, huma.Error400BadRequest("Invalid smoothing parameters", err)
	}
	if len(req.Body.FileNames) == 0 {
		return nil, huma.Error400BadRequest("A batch needs at least one file")
	}
	for i, name := range req.Body.FileNames {
		if strings.TrimSpace(name) == "" {
			return nil, huma.Error400BadRequest(fmt.Sprintf("File name %d is empty", i))
		}
	}

	batchID := uuid.New()
	expiresIn := int(storage.UploadURLExpiry().Seconds())

	files := make([]*models.BatchFile, len(req.Body.FileNames))
	uploads := make([]models.FileUpload, len(req.Body.FileNames))
	for i, name := range req.Body.FileNames {
		key := fmt.Sprintf("batches/%s/%d.csv", batchID, i)

		uploadURL, err := h.store.GenerateUploadURL(ctx, key, req.Body.MimeType)
		if err != nil {
			if strings.Contains(err.Error(), "invalid content type") {
				return nil, huma.Error400BadRequest("File format not supported. Upload CSV exports.", err)
			}
			return nil, huma.Error400BadRequest("Failed to prepare upload. Please try again.", err)
		}

		files[i] = &models.BatchFile{
			ID:         uuid.New().String(),
			BatchID:    batchID.String(),
			Position:   i,
			FileName:   name,
			StorageKey: key,
			CreatedAt:  time.Now(),
		}
		uploads[i] = models.FileUpload{FileName: name, UploadURL: uploadURL}
	}

	batch := &models.Batch{
		ID:        batchID.String(),
		SessionID: req.Body.SessionID,
		Status:    models.StatusPending,
		Progress:  0,
		Params:    req.Body.Params,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.repo.Create(ctx, batch); err != nil {
		return nil, huma.Error500InternalServerError("Failed to create batch", err)
	}
	for _, f := range files {
		if err := h.repo.AddFile(ctx, f); err != nil {
			return nil, huma.Error500InternalServerError("Failed to register batch files", err)
		}
	}

	log.Info().Str("batchID", batch.ID).Int("expiresIn", expiresIn).Msg("Batch created, returning upload URLs to client")
	return &models.CreateBatchResponse{
		Body: models.CreateBatchResponseBody{
			ID:        batch.ID,
			Uploads:   uploads,
			ExpiresIn: expiresIn,
		},
	}, nil
}

// GetBatchStatus returns the current status of a batch
func (h *BatchHandler) GetBatchStatus(ctx context.Context, req *models.GetBatchStatusRequest) (*models.GetBatchStatusResponse, error) {
	batch, err := h.lookup(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	return &models.GetBatchStatusResponse{
		Body: models.GetBatchStatusResponseBody{
			ID:       batch.ID,
			Status:   batch.Status,
			Progress: batch.Progress,
			Message:  generateStatusMessage(batch),
		},
	}, nil
}

// GetBatchResults returns every stored curve of a completed batch
func (h *BatchHandler) GetBatchResults(ctx context.Context, req *models.GetBatchResultsRequest) (*models.GetBatchResultsResponse, error) {
	batch, err := h.lookup(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if batch.Status != models.StatusCompleted {
		return nil, huma.Error409Conflict("Batch not yet completed",
			fmt.Errorf("batch status is %s", batch.Status))
	}

	curves, err := h.repo.GetCurves(ctx, uuid.MustParse(batch.ID))
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to get results", err)
	}

	return &models.GetBatchResultsResponse{
		Body: models.GetBatchResultsResponseBody{
			ID:        batch.ID,
			Params:    batch.Params,
			Curves:    curves,
			CreatedAt: batch.CreatedAt,
		},
	}, nil
}

// StartProcessing starts processing the uploaded files of a batch
func (h *BatchHandler) StartProcessing(ctx context.Context, req *models.StartProcessingRequest) (*models.StartProcessingResponse, error) {
	log.Info().Str("batchID", req.ID).Msg("Processing start request received")

	batch, err := h.lookup(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	batchID := uuid.MustParse(batch.ID)

	claimed, err := h.repo.ClaimProcessing(ctx, batchID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to start processing", err)
	}
	if !claimed {
		return nil, huma.Error409Conflict("Batch is already being processed")
	}

	// Start processing in background (don't wait for completion)
	go func() {
		if err := h.processingSvc.ProcessBatch(context.Background(), batchID); err != nil {
			log.Error().Err(err).Str("batchID", batchID.String()).Msg("Batch processing failed")
			h.repo.UpdateError(context.Background(), batchID, fmt.Sprintf("Processing failed: %v", err))
		}
	}()

	resp := &models.StartProcessingResponse{}
	resp.Body.Message = "Processing started successfully"
	return resp, nil
}

// ListBatches returns the batches created by a session
func (h *BatchHandler) ListBatches(ctx context.Context, req *models.ListBatchesRequest) (*models.ListBatchesResponse, error) {
	batches, err := h.repo.GetBySessionID(ctx, req.SessionID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list batches", err)
	}

	resp := &models.ListBatchesResponse{}
	resp.Body.Batches = batches
	if resp.Body.Batches == nil {
		resp.Body.Batches = []*models.Batch{}
	}
	return resp, nil
}

// GetBatchFiles returns a download URL for every uploaded export of a batch
func (h *BatchHandler) GetBatchFiles(ctx context.Context, req *models.GetBatchFilesRequest) (*models.GetBatchFilesResponse, error) {
	batch, err := h.lookup(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	files, err := h.repo.ListFiles(ctx, uuid.MustParse(batch.ID))
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list batch files", err)
	}

	resp := &models.GetBatchFilesResponse{}
	resp.Body.Files = make([]models.FileDownload, len(files))
	for i, f := range files {
		url, err := h.store.GenerateDownloadURL(ctx, f.StorageKey)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to prepare download", err)
		}
		resp.Body.Files[i] = models.FileDownload{Position: f.Position, FileName: f.FileName, DownloadURL: url}
	}
	return resp, nil
}

// lookup parses a batch ID and loads the batch, mapping failures to HTTP errors
func (h *BatchHandler) lookup(ctx context.Context, rawID string) (*models.Batch, error) {
	batchID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid batch ID", err)
	}

	batch, err := h.repo.GetByID(ctx, batchID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, huma.Error404NotFound("Batch not found", err)
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load batch", err)
	}
	return batch, nil
}

// generateStatusMessage creates a human-readable status message
func generateStatusMessage(batch *models.Batch) string {
	switch batch.Status {
	case models.StatusPending:
		return "Waiting for uploads..."
	case models.StatusProcessing:
		switch {
		case batch.Progress < 20:
			return "Starting analysis..."
		case batch.Progress < 50:
			return "Downloading CSV exports..."
		case batch.Progress < 80:
			return "Smoothing curves and fitting modulus..."
		default:
			return "Saving results..."
		}
	case models.StatusCompleted:
		return "Analysis complete!"
	case models.StatusFailed:
		if batch.ErrorMsg != nil {
			return "Analysis failed: " + *batch.ErrorMsg
		}
		return "Analysis failed. Please try again."
	default:
		return "Unknown status"
	}
}
