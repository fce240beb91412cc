package tensile

import (
	"context"
	"runtime"

	"github.com/RMahshie/modulus/pkg/models"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Processor computes a CurveResult for each CSV export using one set of fit parameters.
// It holds no per-curve state and is safe for concurrent use.
type Processor struct {
	params  models.FitParams
	logger  zerolog.Logger
	workers int
}

// Option configures a Processor
type Option func(*Processor)

// WithLogger sets the logger used for per-curve debug events
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// WithWorkers bounds how many curves of a batch are processed at once
func WithWorkers(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.workers = n
		}
	}
}

// NewProcessor creates a processor for the given parameters
func NewProcessor(params models.FitParams, opts ...Option) *Processor {
	p := &Processor{
		params:  params,
		logger:  zerolog.Nop(),
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ValidateParams rejects smoothing parameters that no curve could satisfy.
// The window is checked against each curve's length during processing.
func ValidateParams(params models.FitParams) error {
	if reason := filterReason(params.Window, params.Order); reason != "" {
		return &InvalidFilterParametersError{Window: params.Window, Order: params.Order, Reason: reason}
	}
	return nil
}

// Outcome is the result of one curve in a ProcessEach batch
type Outcome struct {
	Result *models.CurveResult
	Err    error
}

// Process runs the full pipeline on one CSV export
func (p *Processor) Process(csvText string) (*models.CurveResult, error) {
	table, err := ParseTable(csvText)
	if err != nil {
		return nil, err
	}

	headers := MergeHeaders(table.Labels, table.Units)
	p.logger.Debug().Strs("columns", headers).Msg("Available columns")

	si, ti, err := resolveIndices(headers)
	if err != nil {
		return nil, err
	}

	strain := CoerceColumn(table.Column(si))
	for i := range strain {
		strain[i] /= 100
	}
	stress := CoerceColumn(table.Column(ti))

	smoothed, err := Smooth(stress, p.params.Window, p.params.Order)
	if err != nil {
		return nil, err
	}

	fit, err := FitWindow(strain, smoothed, p.params.MinStrain, p.params.MaxStrain)
	if err != nil {
		return nil, err
	}

	p.logger.Debug().
		Str("strain_column", headers[si]).
		Str("stress_column", headers[ti]).
		Int("points", len(strain)).
		Int("points_in_range", len(fit.X)).
		Float64("min_strain", p.params.MinStrain).
		Float64("max_strain", p.params.MaxStrain).
		Msg("Curve processed")

	return assemble(headers[si], headers[ti], strain, stress, smoothed, fit), nil
}

// ProcessAll processes a batch and stops at the first failing curve.
// The error is a *CurveError carrying the failing index. Results are in input order.
func (p *Processor) ProcessAll(ctx context.Context, csvTexts []string) ([]*models.CurveResult, error) {
	results := make([]*models.CurveResult, len(csvTexts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, text := range csvTexts {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := p.Process(text)
			if err != nil {
				return &CurveError{Index: i, Err: err}
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// ProcessEach processes every curve of a batch regardless of failures.
// Curves not started before ctx is cancelled report the context error.
func (p *Processor) ProcessEach(ctx context.Context, csvTexts []string) []Outcome {
	outcomes := make([]Outcome, len(csvTexts))

	var g errgroup.Group
	g.SetLimit(p.workers)
	for i, text := range csvTexts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				outcomes[i] = Outcome{Err: &CurveError{Index: i, Err: err}}
				return nil
			}
			result, err := p.Process(text)
			if err != nil {
				p.logger.Debug().Int("index", i).Err(err).Msg("Curve failed")
				outcomes[i] = Outcome{Err: &CurveError{Index: i, Err: err}}
				return nil
			}
			outcomes[i] = Outcome{Result: result}
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func assemble(strainCol, stressCol string, strain, stress, smoothed []float64, fit Fit) *models.CurveResult {
	preview := min(models.PreviewPoints, len(strain))

	result := &models.CurveResult{
		StrainColumn: strainCol,
		StressColumn: stressCol,
		StrainValues: append(models.Series{}, strain[:preview]...),
		StressValues: append(models.Series{}, stress[:preview]...),
		Strain:       strain,
		Stress:       stress,
		Smoothed:     smoothed,
		FitX:         models.Series{},
		FitY:         models.Series{},
	}
	if fit.Fitted {
		modulus, r2 := fit.Slope, fit.R2
		result.FitX = fit.X
		result.FitY = fit.Y
		result.Modulus = &modulus
		result.R2 = &r2
	}
	return result
}
