package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/RMahshie/modulus/internal/repository"
	"github.com/RMahshie/modulus/pkg/models"
	"github.com/google/uuid"
)

// PostgresBatchRepository implements BatchRepository for PostgreSQL
type PostgresBatchRepository struct {
	db *sql.DB
}

// NewPostgresBatchRepository creates a new PostgreSQL batch repository
func NewPostgresBatchRepository(db *sql.DB) repository.BatchRepository {
	return &PostgresBatchRepository{db: db}
}

const batchColumns = `id, session_id, status, progress, min_strain, max_strain, smoothing_window, poly_order,
		error_message, created_at, updated_at, completed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBatch(row rowScanner) (*models.Batch, error) {
	var batch models.Batch
	var errorMsg sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&batch.ID,
		&batch.SessionID,
		&batch.Status,
		&batch.Progress,
		&batch.Params.MinStrain,
		&batch.Params.MaxStrain,
		&batch.Params.Window,
		&batch.Params.Order,
		&errorMsg,
		&batch.CreatedAt,
		&batch.UpdatedAt,
		&completedAt)
	if err != nil {
		return nil, err
	}

	if errorMsg.Valid {
		batch.ErrorMsg = &errorMsg.String
	}
	if completedAt.Valid {
		batch.CompletedAt = &completedAt.Time
	}
	return &batch, nil
}

// Create inserts a new batch record
func (r *PostgresBatchRepository) Create(ctx context.Context, batch *models.Batch) error {
	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}

	query := `
		INSERT INTO batches (id, session_id, status, progress, min_strain, max_strain, smoothing_window, poly_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		batch.ID,
		batch.SessionID,
		batch.Status,
		batch.Progress,
		batch.Params.MinStrain,
		batch.Params.MaxStrain,
		batch.Params.Window,
		batch.Params.Order).Scan(&batch.CreatedAt, &batch.UpdatedAt)
}

// GetByID retrieves a batch by ID
func (r *PostgresBatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1`

	batch, err := scanBatch(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("batch %s: %w", id, repository.ErrNotFound)
	}
	return batch, err
}

// GetBySessionID retrieves batches by session ID, newest first
func (r *PostgresBatchRepository) GetBySessionID(ctx context.Context, sessionID string) ([]*models.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE session_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []*models.Batch
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}

	return batches, rows.Err()
}

// UpdateStatus updates the status and progress of a batch
func (r *PostgresBatchRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	query := `
		UPDATE batches
		SET status = $1, progress = $2, updated_at = NOW(),
		    completed_at = CASE WHEN $1 = 'completed' THEN NOW() ELSE completed_at END
		WHERE id = $3`

	_, err := r.db.ExecContext(ctx, query, status, progress, id)
	return err
}

// ClaimProcessing atomically moves a batch that is not already processing into processing
func (r *PostgresBatchRepository) ClaimProcessing(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE batches
		SET status = 'processing', progress = 0, error_message = NULL, updated_at = NOW()
		WHERE id = $1 AND status <> 'processing'`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// UpdateError marks a batch as failed with an error message
func (r *PostgresBatchRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	query := `
		UPDATE batches
		SET status = 'failed', error_message = $1, updated_at = NOW()
		WHERE id = $2`

	_, err := r.db.ExecContext(ctx, query, errorMsg, id)
	return err
}

// AddFile registers an uploaded export with its batch
func (r *PostgresBatchRepository) AddFile(ctx context.Context, file *models.BatchFile) error {
	if file.ID == "" {
		file.ID = uuid.New().String()
	}

	query := `
		INSERT INTO batch_files (id, batch_id, position, file_name, storage_key, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at`

	return r.db.QueryRowContext(ctx, query,
		file.ID,
		file.BatchID,
		file.Position,
		file.FileName,
		file.StorageKey).Scan(&file.CreatedAt)
}

// ListFiles returns the files of a batch in batch order
func (r *PostgresBatchRepository) ListFiles(ctx context.Context, batchID uuid.UUID) ([]*models.BatchFile, error) {
	query := `
		SELECT id, batch_id, position, file_name, storage_key, created_at
		FROM batch_files
		WHERE batch_id = $1
		ORDER BY position`

	rows, err := r.db.QueryContext(ctx, query, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []*models.BatchFile
	for rows.Next() {
		var f models.BatchFile
		if err := rows.Scan(&f.ID, &f.BatchID, &f.Position, &f.FileName, &f.StorageKey, &f.CreatedAt); err != nil {
			return nil, err
		}
		files = append(files, &f)
	}

	return files, rows.Err()
}

// StoreCurve stores the outcome for one file of a batch
func (r *PostgresBatchRepository) StoreCurve(ctx context.Context, record *models.CurveRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	var result []byte
	if record.Result != nil {
		var err error
		result, err = json.Marshal(record.Result)
		if err != nil {
			return fmt.Errorf("failed to marshal curve result: %w", err)
		}
	}

	query := `
		INSERT INTO curve_results (id, batch_id, position, file_name, status, error_message, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (batch_id, position) DO UPDATE
		SET status = EXCLUDED.status, error_message = EXCLUDED.error_message, result = EXCLUDED.result
		RETURNING created_at`

	return r.db.QueryRowContext(ctx, query,
		record.ID,
		record.BatchID,
		record.Position,
		record.FileName,
		record.Status,
		record.ErrorMsg,
		nullableJSON(result)).Scan(&record.CreatedAt)
}

// GetCurves retrieves every stored curve of a batch in batch order
func (r *PostgresBatchRepository) GetCurves(ctx context.Context, batchID uuid.UUID) ([]*models.CurveRecord, error) {
	query := `
		SELECT id, batch_id, position, file_name, status, error_message, result, created_at
		FROM curve_results
		WHERE batch_id = $1
		ORDER BY position`

	rows, err := r.db.QueryContext(ctx, query, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.CurveRecord
	for rows.Next() {
		var rec models.CurveRecord
		var errorMsg sql.NullString
		var result []byte

		if err := rows.Scan(&rec.ID, &rec.BatchID, &rec.Position, &rec.FileName, &rec.Status,
			&errorMsg, &result, &rec.CreatedAt); err != nil {
			return nil, err
		}

		if errorMsg.Valid {
			rec.ErrorMsg = &errorMsg.String
		}
		if result != nil {
			var curve models.CurveResult
			if err := json.Unmarshal(result, &curve); err != nil {
				return nil, fmt.Errorf("failed to unmarshal curve result: %w", err)
			}
			rec.Result = &curve
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}

func nullableJSON(data []byte) any {
	if data == nil {
		return nil
	}
	return string(data)
}
