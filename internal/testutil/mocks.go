// Package testutil holds testify mocks shared by handler and service tests.
package testutil

import (
	"context"

	"github.com/RMahshie/modulus/pkg/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockBatchRepository implements repository.BatchRepository for testing
type MockBatchRepository struct {
	mock.Mock
}

func (m *MockBatchRepository) Create(ctx context.Context, batch *models.Batch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockBatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Batch, error) {
	args := m.Called(ctx, id)
	batch, _ := args.Get(0).(*models.Batch)
	return batch, args.Error(1)
}

func (m *MockBatchRepository) GetBySessionID(ctx context.Context, sessionID string) ([]*models.Batch, error) {
	args := m.Called(ctx, sessionID)
	batches, _ := args.Get(0).([]*models.Batch)
	return batches, args.Error(1)
}

func (m *MockBatchRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	args := m.Called(ctx, id, status, progress)
	return args.Error(0)
}

func (m *MockBatchRepository) ClaimProcessing(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockBatchRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	args := m.Called(ctx, id, errorMsg)
	return args.Error(0)
}

func (m *MockBatchRepository) AddFile(ctx context.Context, file *models.BatchFile) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

func (m *MockBatchRepository) ListFiles(ctx context.Context, batchID uuid.UUID) ([]*models.BatchFile, error) {
	args := m.Called(ctx, batchID)
	files, _ := args.Get(0).([]*models.BatchFile)
	return files, args.Error(1)
}

func (m *MockBatchRepository) StoreCurve(ctx context.Context, record *models.CurveRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockBatchRepository) GetCurves(ctx context.Context, batchID uuid.UUID) ([]*models.CurveRecord, error) {
	args := m.Called(ctx, batchID)
	curves, _ := args.Get(0).([]*models.CurveRecord)
	return curves, args.Error(1)
}

// MockObjectStore implements storage.ObjectStore for testing
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) GenerateUploadURL(ctx context.Context, key string, contentType string) (string, error) {
	args := m.Called(ctx, key, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStore) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStore) DownloadFile(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockObjectStore) UploadFile(ctx context.Context, key string, contentType string, data []byte) error {
	args := m.Called(ctx, key, contentType, data)
	return args.Error(0)
}

func (m *MockObjectStore) DeleteFile(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockProcessingService implements processing.ProcessingService for testing
type MockProcessingService struct {
	mock.Mock
}

func (m *MockProcessingService) ProcessBatch(ctx context.Context, batchID uuid.UUID) error {
	args := m.Called(ctx, batchID)
	return args.Error(0)
}
