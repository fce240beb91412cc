// Package commands holds the modulus subcommands.
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/RMahshie/modulus/internal/config"
	"github.com/RMahshie/modulus/internal/tensile"
	"github.com/RMahshie/modulus/pkg/models"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	params    models.FitParams
	workers   int
	keepGoing bool
	output    string
}

// fileOutcome is one analyzed file in the command output
type fileOutcome struct {
	File   string              `json:"file"`
	Result *models.CurveResult `json:"result,omitempty"`
	Error  string              `json:"error,omitempty"`
}

// NewAnalyzeCommand creates the analyze command. defaults seeds the flag values.
func NewAnalyzeCommand(defaults config.ProcessingConfig) *cobra.Command {
	opts := analyzeOptions{
		params:  defaults.FitParams(),
		workers: defaults.Workers,
		output:  "table",
	}

	cmd := &cobra.Command{
		Use:   "analyze FILE...",
		Short: "Fit the elastic modulus of tensile CSV exports",
		Long: `Analyze reads each CSV export, finds the strain (%) and stress (MPa) columns,
smooths the stress with a Savitzky-Golay filter and fits a line over the
strain window. Strain bounds are fractions, so 0.0005 is 0.05 %.

Without --keep-going the first unreadable or unanalyzable file stops the run.`,
		Example: `  modulus analyze specimen-1.csv specimen-2.csv
  modulus analyze --min-strain 0.001 --max-strain 0.003 --window 15 exports/*.csv
  modulus analyze --keep-going --output json exports/*.csv`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	cmd.Flags().Float64Var(&opts.params.MinStrain, "min-strain", opts.params.MinStrain, "Lower bound of the fit window (strain fraction)")
	cmd.Flags().Float64Var(&opts.params.MaxStrain, "max-strain", opts.params.MaxStrain, "Upper bound of the fit window (strain fraction)")
	cmd.Flags().IntVar(&opts.params.Window, "window", opts.params.Window, "Smoothing window length (odd, at most 1001)")
	cmd.Flags().IntVar(&opts.params.Order, "order", opts.params.Order, "Smoothing polynomial order (below window)")
	cmd.Flags().IntVar(&opts.workers, "workers", opts.workers, "Curves analyzed in parallel")
	cmd.Flags().BoolVar(&opts.keepGoing, "keep-going", false, "Report failing files and continue with the rest")
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "Output format (table|json)")

	_ = cmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runAnalyze(cmd *cobra.Command, files []string, opts analyzeOptions) error {
	if opts.output != "table" && opts.output != "json" {
		return fmt.Errorf("unknown output format %q (want table or json)", opts.output)
	}
	if err := tensile.ValidateParams(opts.params); err != nil {
		return err
	}

	logger := zerolog.Nop()
	if f := cmd.Flag("verbose"); f != nil && f.Value.String() == "true" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).With().Timestamp().Logger()
	}

	outcomes := make([]fileOutcome, len(files))
	texts := make([]string, 0, len(files))
	readable := make([]int, 0, len(files))
	for i, path := range files {
		outcomes[i].File = path
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			if !opts.keepGoing {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			outcomes[i].Error = err.Error()
			continue
		}
		texts = append(texts, string(data))
		readable = append(readable, i)
	}

	processor := tensile.NewProcessor(opts.params,
		tensile.WithWorkers(opts.workers),
		tensile.WithLogger(logger))

	if opts.keepGoing {
		for j, outcome := range processor.ProcessEach(cmd.Context(), texts) {
			i := readable[j]
			outcomes[i].Result = outcome.Result
			if outcome.Err != nil {
				outcomes[i].Error = unwrapCurveError(outcome.Err).Error()
			}
		}
	} else {
		results, err := processor.ProcessAll(cmd.Context(), texts)
		if err != nil {
			var ce *tensile.CurveError
			if errors.As(err, &ce) {
				return fmt.Errorf("%s: %w", files[readable[ce.Index]], ce.Err)
			}
			return err
		}
		for j, result := range results {
			outcomes[readable[j]].Result = result
		}
	}

	var renderErr error
	if opts.output == "json" {
		renderErr = renderJSON(cmd.OutOrStdout(), outcomes)
	} else {
		renderTable(cmd.OutOrStdout(), outcomes)
	}
	if renderErr != nil {
		return renderErr
	}

	failed := 0
	for _, o := range outcomes {
		if o.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(outcomes))
	}
	return nil
}

func unwrapCurveError(err error) error {
	var ce *tensile.CurveError
	if errors.As(err, &ce) {
		return ce.Err
	}
	return err
}

func renderTable(w io.Writer, outcomes []fileOutcome) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Strain column", "Stress column", "Points", "In window", "Modulus (MPa)", "R²", "Error"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
		{Number: 8, WidthMax: 60},
	})

	for _, o := range outcomes {
		if o.Result == nil {
			t.AppendRow(table.Row{o.File, "-", "-", "-", "-", "-", "-", o.Error})
			continue
		}
		r := o.Result
		modulus, r2 := "-", "-"
		if r.HasFit() {
			modulus = fmt.Sprintf("%.1f", *r.Modulus)
			r2 = fmt.Sprintf("%.4f", *r.R2)
		}
		t.AppendRow(table.Row{o.File, r.StrainColumn, r.StressColumn, len(r.Strain), len(r.FitX), modulus, r2, o.Error})
	}

	t.Render()
}

func renderJSON(w io.Writer, outcomes []fileOutcome) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(outcomes)
}
