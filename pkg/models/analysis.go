package models

import (
	"time"
)

// Batch status values
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// CreateBatchRequestBody is the body of a create batch request
type CreateBatchRequestBody struct {
	SessionID string    `json:"session_id" minLength:"10" maxLength:"50" required:"true" doc:"Client session identifier"`
	FileNames []string  `json:"file_names" minItems:"1" maxItems:"200" required:"true" doc:"Names of the CSV exports to upload, in batch order"`
	MimeType  string    `json:"mime_type" enum:"text/csv,text/plain,application/vnd.ms-excel" required:"true" doc:"MIME type of the uploads"`
	Params    FitParams `json:"params" required:"true" doc:"Smoothing and fit window parameters"`
}

// CreateBatchRequest represents a request to create a new batch of curves
type CreateBatchRequest struct {
	Body CreateBatchRequestBody
}

// FileUpload pairs an uploaded file with its pre-signed URL
type FileUpload struct {
	FileName  string `json:"file_name" doc:"Original file name"`
	UploadURL string `json:"upload_url" doc:"Pre-signed URL for the upload"`
}

// CreateBatchResponseBody is the body of the create batch response
type CreateBatchResponseBody struct {
	ID        string       `json:"id" doc:"Batch unique identifier"`
	Uploads   []FileUpload `json:"uploads" doc:"One upload URL per file, in batch order"`
	ExpiresIn int          `json:"expires_in" doc:"URL expiration time in seconds"`
}

// CreateBatchResponse represents the response from creating a batch
type CreateBatchResponse struct {
	Body CreateBatchResponseBody
}

// GetBatchStatusRequest represents a request to get batch status
type GetBatchStatusRequest struct {
	ID string `path:"id" doc:"Batch ID"`
}

// GetBatchStatusResponseBody is the body of the status response
type GetBatchStatusResponseBody struct {
	ID       string `json:"id" doc:"Batch ID"`
	Status   string `json:"status" enum:"pending,processing,completed,failed" doc:"Batch status"`
	Progress int    `json:"progress" minimum:"0" maximum:"100" doc:"Batch progress percentage"`
	Message  string `json:"message,omitempty" doc:"Human-readable status message"`
}

// GetBatchStatusResponse represents the current status of a batch
type GetBatchStatusResponse struct {
	Body GetBatchStatusResponseBody
}

// GetBatchResultsRequest represents a request to get batch results
type GetBatchResultsRequest struct {
	ID string `path:"id" doc:"Batch ID"`
}

// GetBatchResultsResponseBody is the body of the results response
type GetBatchResultsResponseBody struct {
	ID        string         `json:"id" doc:"Batch ID"`
	Params    FitParams      `json:"params" doc:"Parameters the batch was processed with"`
	Curves    []*CurveRecord `json:"curves" doc:"One record per uploaded file, in batch order"`
	CreatedAt time.Time      `json:"created_at" doc:"Batch creation timestamp"`
}

// GetBatchResultsResponse represents the complete batch results
type GetBatchResultsResponse struct {
	Body GetBatchResultsResponseBody
}

// ListBatchesRequest lists the batches created by one client session
type ListBatchesRequest struct {
	SessionID string `path:"session_id" minLength:"10" maxLength:"50" doc:"Client session identifier"`
}

// ListBatchesResponse represents the batches of a session, newest first
type ListBatchesResponse struct {
	Body struct {
		Batches []*Batch `json:"batches" doc:"Batches of the session, newest first"`
	}
}

// GetBatchFilesRequest represents a request for the uploaded files of a batch
type GetBatchFilesRequest struct {
	ID string `path:"id" doc:"Batch ID"`
}

// FileDownload pairs an uploaded file with a pre-signed download URL
type FileDownload struct {
	Position    int    `json:"position" doc:"Position of the file in the batch"`
	FileName    string `json:"file_name" doc:"Original file name"`
	DownloadURL string `json:"download_url" doc:"Pre-signed URL for the raw CSV export"`
}

// GetBatchFilesResponse represents the uploaded files of a batch
type GetBatchFilesResponse struct {
	Body struct {
		Files []FileDownload `json:"files" doc:"Uploaded files in batch order"`
	}
}

// StartProcessingRequest represents a request to start processing an uploaded batch
type StartProcessingRequest struct {
	ID string `path:"id" doc:"Batch ID"`
}

// StartProcessingResponse represents the response from starting processing
type StartProcessingResponse struct {
	Body struct {
		Message string `json:"message" doc:"Confirmation message"`
	}
}

// AnalyzeCurvesRequestBody is the body of a synchronous analysis request
type AnalyzeCurvesRequestBody struct {
	CSVTexts  []string  `json:"csv_texts" minItems:"1" maxItems:"50" required:"true" doc:"Raw CSV exports, one per curve"`
	Params    FitParams `json:"params" required:"true" doc:"Smoothing and fit window parameters"`
	KeepGoing bool      `json:"keep_going,omitempty" doc:"Report per-curve errors instead of failing the whole request"`
}

// AnalyzeCurvesRequest analyzes CSV texts inline without storage
type AnalyzeCurvesRequest struct {
	Body AnalyzeCurvesRequestBody
}

// CurveOutcome is one entry of an inline analysis response
type CurveOutcome struct {
	Index  int          `json:"index" doc:"Position of the curve in the request"`
	Result *CurveResult `json:"result,omitempty" doc:"Analysis result"`
	Error  string       `json:"error,omitempty" doc:"Failure reason when the curve could not be analyzed"`
}

// AnalyzeCurvesResponseBody is the body of an inline analysis response
type AnalyzeCurvesResponseBody struct {
	Curves []CurveOutcome `json:"curves" doc:"One entry per input, in input order"`
}

// AnalyzeCurvesResponse represents the inline analysis response
type AnalyzeCurvesResponse struct {
	Body AnalyzeCurvesResponseBody
}

// Batch represents a batch of uploaded curves (for internal use)
type Batch struct {
	ID          string     `json:"id"`
	SessionID   string     `json:"session_id"`
	Status      string     `json:"status"`
	Progress    int        `json:"progress"`
	Params      FitParams  `json:"params"`
	ErrorMsg    *string    `json:"error_message,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// BatchFile is one uploaded CSV export in a batch
type BatchFile struct {
	ID         string    `json:"id"`
	BatchID    string    `json:"batch_id"`
	Position   int       `json:"position"`
	FileName   string    `json:"file_name"`
	StorageKey string    `json:"storage_key"`
	CreatedAt  time.Time `json:"created_at"`
}

// CurveRecord is the stored outcome for one file of a batch
type CurveRecord struct {
	ID        string       `json:"id" doc:"Curve record ID"`
	BatchID   string       `json:"batch_id" doc:"Owning batch ID"`
	Position  int          `json:"position" doc:"Position of the file in the batch"`
	FileName  string       `json:"file_name" doc:"Original file name"`
	Status    string       `json:"status" enum:"completed,failed" doc:"Per-curve outcome"`
	ErrorMsg  *string      `json:"error_message,omitempty" doc:"Failure reason"`
	Result    *CurveResult `json:"result,omitempty" doc:"Analysis result when completed"`
	CreatedAt time.Time    `json:"created_at" doc:"When the record was stored"`
}
