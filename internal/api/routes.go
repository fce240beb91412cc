package api

import (
	"net/http"

	"github.com/RMahshie/modulus/internal/api/handlers"
	"github.com/RMahshie/modulus/internal/config"
	"github.com/RMahshie/modulus/internal/processing"
	"github.com/RMahshie/modulus/internal/repository"
	"github.com/RMahshie/modulus/internal/storage"
	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(api huma.API, cfg config.ProcessingConfig, store storage.ObjectStore, batchRepo repository.BatchRepository, processingSvc processing.ProcessingService) {
	// Initialize handlers
	batchHandler := handlers.NewBatchHandler(batchRepo, store, processingSvc)
	curveHandler := handlers.NewCurveHandler(cfg.Workers)

	// Register batch routes
	huma.Register(api, huma.Operation{
		OperationID: "createBatch",
		Method:      http.MethodPost,
		Path:        "/api/batches",
		Summary:     "Create a new batch",
		Description: "Creates a batch of tensile curves and returns one upload URL per CSV export",
		Tags:        []string{"Batches"},
	}, batchHandler.CreateBatch)

	huma.Register(api, huma.Operation{
		OperationID: "startProcessing",
		Method:      http.MethodPost,
		Path:        "/api/batches/{id}/process",
		Summary:     "Start processing a batch",
		Description: "Starts analyzing the uploaded exports of a batch in the background",
		Tags:        []string{"Batches"},
	}, batchHandler.StartProcessing)

	huma.Register(api, huma.Operation{
		OperationID: "getBatchStatus",
		Method:      http.MethodGet,
		Path:        "/api/batches/{id}/status",
		Summary:     "Get batch status",
		Description: "Returns the current status and progress of a batch",
		Tags:        []string{"Batches"},
	}, batchHandler.GetBatchStatus)

	huma.Register(api, huma.Operation{
		OperationID: "getBatchResults",
		Method:      http.MethodGet,
		Path:        "/api/batches/{id}/results",
		Summary:     "Get batch results",
		Description: "Returns the modulus, fit line and smoothed curve of every file in a completed batch",
		Tags:        []string{"Batches"},
	}, batchHandler.GetBatchResults)

	huma.Register(api, huma.Operation{
		OperationID: "getBatchFiles",
		Method:      http.MethodGet,
		Path:        "/api/batches/{id}/files",
		Summary:     "Get batch files",
		Description: "Returns a download URL for every uploaded CSV export of a batch",
		Tags:        []string{"Batches"},
	}, batchHandler.GetBatchFiles)

	huma.Register(api, huma.Operation{
		OperationID: "listBatches",
		Method:      http.MethodGet,
		Path:        "/api/sessions/{session_id}/batches",
		Summary:     "List session batches",
		Description: "Returns the batches created by a client session, newest first",
		Tags:        []string{"Batches"},
	}, batchHandler.ListBatches)

	huma.Register(api, huma.Operation{
		OperationID: "analyzeCurves",
		Method:      http.MethodPost,
		Path:        "/api/curves/analyze",
		Summary:     "Analyze curves inline",
		Description: "Analyzes CSV exports sent in the request body and returns the results directly",
		Tags:        []string{"Curves"},
	}, curveHandler.AnalyzeCurves)
}
