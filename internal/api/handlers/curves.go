package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/RMahshie/modulus/internal/tensile"
	"github.com/RMahshie/modulus/pkg/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"
)

// CurveHandler analyzes CSV exports sent inline, without storage
type CurveHandler struct {
	workers int
}

// NewCurveHandler creates a handler that analyzes up to workers curves at once
func NewCurveHandler(workers int) *CurveHandler {
	return &CurveHandler{workers: workers}
}

// AnalyzeCurves runs the curve pipeline on every CSV text of the request
func (h *CurveHandler) AnalyzeCurves(ctx context.Context, req *models.AnalyzeCurvesRequest) (*models.AnalyzeCurvesResponse, error) {
	if err := tensile.ValidateParams(req.Body.Params); err != nil {
		return nil, huma.Error400BadRequest("Invalid smoothing parameters", err)
	}

	processor := tensile.NewProcessor(req.Body.Params,
		tensile.WithWorkers(h.workers),
		tensile.WithLogger(log.Logger))

	resp := &models.AnalyzeCurvesResponse{}
	resp.Body.Curves = make([]models.CurveOutcome, len(req.Body.CSVTexts))

	if req.Body.KeepGoing {
		for i, outcome := range processor.ProcessEach(ctx, req.Body.CSVTexts) {
			resp.Body.Curves[i] = models.CurveOutcome{Index: i, Result: outcome.Result}
			if outcome.Err != nil {
				_, resp.Body.Curves[i].Error = splitCurveError(outcome.Err)
			}
		}
		return resp, nil
	}

	results, err := processor.ProcessAll(ctx, req.Body.CSVTexts)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, huma.Error500InternalServerError("Analysis interrupted", err)
		}
		index, msg := splitCurveError(err)
		log.Info().Int("index", index).Str("reason", msg).Msg("Curve rejected")
		return nil, huma.Error422UnprocessableEntity(fmt.Sprintf("Curve %d could not be analyzed: %s", index, msg), err)
	}

	for i, result := range results {
		resp.Body.Curves[i] = models.CurveOutcome{Index: i, Result: result}
	}
	return resp, nil
}

// splitCurveError separates the batch index from the underlying failure
func splitCurveError(err error) (int, string) {
	var ce *tensile.CurveError
	if errors.As(err, &ce) {
		return ce.Index, ce.Err.Error()
	}
	return -1, err.Error()
}
