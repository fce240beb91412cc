package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"
	"testing"
	"time"

	"github.com/RMahshie/modulus/internal/repository"
	"github.com/RMahshie/modulus/pkg/models"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgContainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupDB starts PostgreSQL, applies the schema and returns an open handle
func setupDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()

	container, err := pgContainer.Run(ctx,
		"postgres:15-alpine",
		pgContainer.WithDatabase("modulus_test"),
		pgContainer.WithUsername("testuser"),
		pgContainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, container.Terminate(ctx))
	})

	dbURL, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile("../../../migrations/000001_init.up.sql")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, string(schema))
	require.NoError(t, err)

	return db
}

func TestPostgresBatchRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := setupDB(t)
	repo := NewPostgresBatchRepository(db)
	ctx := context.Background()

	batch := &models.Batch{
		SessionID: "session-0123456789",
		Status:    models.StatusPending,
		Params:    models.FitParams{MinStrain: 0.001, MaxStrain: 0.003, Window: 11, Order: 3},
	}
	require.NoError(t, repo.Create(ctx, batch))
	require.NotEmpty(t, batch.ID)

	batchID := uuid.MustParse(batch.ID)

	t.Run("get by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, batchID)
		require.NoError(t, err)
		assert.Equal(t, batch.SessionID, got.SessionID)
		assert.Equal(t, batch.Params, got.Params)
		assert.Equal(t, models.StatusPending, got.Status)
		assert.Nil(t, got.CompletedAt)
	})

	t.Run("missing batch", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("by session", func(t *testing.T) {
		batches, err := repo.GetBySessionID(ctx, batch.SessionID)
		require.NoError(t, err)
		require.Len(t, batches, 1)
		assert.Equal(t, batch.ID, batches[0].ID)
	})

	t.Run("files keep batch order", func(t *testing.T) {
		names := []string{"a.csv", "b.csv"}
		for _, pos := range []int{1, 0} {
			require.NoError(t, repo.AddFile(ctx, &models.BatchFile{
				BatchID:    batch.ID,
				Position:   pos,
				FileName:   names[pos],
				StorageKey: fmt.Sprintf("batches/%s/%d.csv", batch.ID, pos),
			}))
		}

		files, err := repo.ListFiles(ctx, batchID)
		require.NoError(t, err)
		require.Len(t, files, 2)
		assert.Equal(t, "a.csv", files[0].FileName)
		assert.Equal(t, "b.csv", files[1].FileName)
	})

	t.Run("curves round trip", func(t *testing.T) {
		modulus, r2 := 71000.5, 0.998
		result := &models.CurveResult{
			StrainColumn: "Strain %",
			StressColumn: "Stress MPa",
			Strain:       models.Series{0, 0.001, 0.002},
			Stress:       models.Series{0, math.NaN(), 140},
			Smoothed:     models.Series{0, 70, 140},
			FitX:         models.Series{0.001, 0.002},
			FitY:         models.Series{71, 142},
			Modulus:      &modulus,
			R2:           &r2,
		}
		require.NoError(t, repo.StoreCurve(ctx, &models.CurveRecord{
			BatchID: batch.ID, Position: 0, FileName: "a.csv", Status: models.StatusCompleted, Result: result,
		}))

		msg := "no stress column"
		require.NoError(t, repo.StoreCurve(ctx, &models.CurveRecord{
			BatchID: batch.ID, Position: 1, FileName: "b.csv", Status: models.StatusFailed, ErrorMsg: &msg,
		}))

		curves, err := repo.GetCurves(ctx, batchID)
		require.NoError(t, err)
		require.Len(t, curves, 2)

		got := curves[0].Result
		require.NotNil(t, got)
		assert.Equal(t, "Strain %", got.StrainColumn)
		assert.True(t, math.IsNaN(got.Stress[1]))
		assert.Equal(t, 140.0, got.Stress[2])
		require.NotNil(t, got.Modulus)
		assert.Equal(t, modulus, *got.Modulus)

		assert.Equal(t, models.StatusFailed, curves[1].Status)
		assert.Nil(t, curves[1].Result)
		require.NotNil(t, curves[1].ErrorMsg)
		assert.Equal(t, msg, *curves[1].ErrorMsg)
	})

	t.Run("claim processing once", func(t *testing.T) {
		claimed, err := repo.ClaimProcessing(ctx, batchID)
		require.NoError(t, err)
		assert.True(t, claimed)

		got, err := repo.GetByID(ctx, batchID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusProcessing, got.Status)
		assert.Equal(t, 0, got.Progress)

		claimed, err = repo.ClaimProcessing(ctx, batchID)
		require.NoError(t, err)
		assert.False(t, claimed)

		claimed, err = repo.ClaimProcessing(ctx, uuid.New())
		require.NoError(t, err)
		assert.False(t, claimed)
	})

	t.Run("status transitions", func(t *testing.T) {
		require.NoError(t, repo.UpdateStatus(ctx, batchID, models.StatusProcessing, 50))
		got, err := repo.GetByID(ctx, batchID)
		require.NoError(t, err)
		assert.Equal(t, 50, got.Progress)

		require.NoError(t, repo.UpdateStatus(ctx, batchID, models.StatusCompleted, 100))
		got, err = repo.GetByID(ctx, batchID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, got.Status)
		assert.NotNil(t, got.CompletedAt)

		require.NoError(t, repo.UpdateError(ctx, batchID, "download failed"))
		got, err = repo.GetByID(ctx, batchID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusFailed, got.Status)
		require.NotNil(t, got.ErrorMsg)
		assert.Equal(t, "download failed", *got.ErrorMsg)
	})
}
