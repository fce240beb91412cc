// Package tensile turns raw tensile-test exports into elastic modulus estimates.
//
// A curve goes through a fixed pipeline:
//
//   - ParseTable splits the CSV text into a label row, a unit row and data rows
//   - MergeHeaders combines labels and units into column names ("Strain %")
//   - ResolveColumns picks the strain (%) and stress (MPa) columns
//   - CoerceColumn converts cells to float64, missing or malformed cells become NaN
//   - Smooth applies a Savitzky-Golay filter to the stress series
//   - FitWindow fits stress against strain inside [min, max] by ordinary least squares
//
// Processor runs the pipeline for one curve or for a batch:
//
//	p := tensile.NewProcessor(models.FitParams{MinStrain: 0.001, MaxStrain: 0.005, Window: 11, Order: 3})
//	result, err := p.Process(csvText)
//	results, err := p.ProcessAll(ctx, texts)  // stops at the first failing curve
//	outcomes := p.ProcessEach(ctx, texts)     // one Outcome per curve
//
// The package performs no I/O. Curves never share state, so batches are processed in parallel
// and returned in input order.
package tensile
