package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RMahshie/modulus/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDefaults() config.ProcessingConfig {
	return config.ProcessingConfig{MinStrain: 0, MaxStrain: 0.01, Window: 5, Order: 2, Workers: 2}
}

// writeExport writes a linear export with stress = modulus * strain fraction
func writeExport(t *testing.T, dir, name string, modulus float64) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("Time,Strain,Stress\ns,%,MPa\n")
	for i := 0; i < 20; i++ {
		pct := float64(i) / 19
		fmt.Fprintf(&b, "%d,%g,%g\n", i, pct, modulus*pct/100)
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewAnalyzeCommand(testDefaults())
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestAnalyzeCommand_Table(t *testing.T) {
	dir := t.TempDir()
	steel := writeExport(t, dir, "steel.csv", 200)
	aluminum := writeExport(t, dir, "aluminum.csv", 70)

	out, err := execute(t, steel, aluminum)
	require.NoError(t, err)

	assert.Contains(t, out, "steel.csv")
	assert.Contains(t, out, "Strain %")
	assert.Contains(t, out, "Stress MPa")
	assert.Contains(t, out, "200.0")
	assert.Contains(t, out, "70.0")
	assert.Contains(t, out, "1.0000")
}

func TestAnalyzeCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	steel := writeExport(t, dir, "steel.csv", 200)

	out, err := execute(t, "--output", "json", "--max-strain", "0.005", steel)
	require.NoError(t, err)

	var decoded []struct {
		File   string `json:"file"`
		Result struct {
			Modulus *float64  `json:"modulus"`
			FitX    []float64 `json:"fit_x"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, steel, decoded[0].File)
	require.NotNil(t, decoded[0].Result.Modulus)
	assert.InDelta(t, 200, *decoded[0].Result.Modulus, 1e-6)
	for _, x := range decoded[0].Result.FitX {
		assert.LessOrEqual(t, x, 0.005)
	}
}

func TestAnalyzeCommand_StopsAtFirstFailure(t *testing.T) {
	dir := t.TempDir()
	steel := writeExport(t, dir, "steel.csv", 200)
	bad := filepath.Join(dir, "load.csv")
	require.NoError(t, os.WriteFile(bad, []byte("Strain,Load\n%,kN\n0,0\n1,1\n2,2\n3,3\n4,4\n"), 0o600))

	out, err := execute(t, steel, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load.csv")
	assert.Contains(t, err.Error(), "no stress column")
	assert.Empty(t, out)
}

func TestAnalyzeCommand_KeepGoing(t *testing.T) {
	dir := t.TempDir()
	steel := writeExport(t, dir, "steel.csv", 200)
	missing := filepath.Join(dir, "missing.csv")

	out, err := execute(t, "--keep-going", missing, steel)
	require.Error(t, err)
	assert.Equal(t, "1 of 2 files failed", err.Error())

	assert.Contains(t, out, "missing.csv")
	assert.Contains(t, out, "200.0")
}

func TestAnalyzeCommand_InvalidFlags(t *testing.T) {
	dir := t.TempDir()
	steel := writeExport(t, dir, "steel.csv", 200)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"even window", []string{"--window", "4", steel}, "window must be odd"},
		{"order too high", []string{"--order", "5", steel}, "order must be less than window"},
		{"unknown output", []string{"--output", "xml", steel}, "unknown output format"},
		{"no files", []string{}, "requires at least 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewVersionCommand(t *testing.T) {
	cmd := NewVersionCommand("1.2.3")
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "modulus v1.2.3\n", buf.String())
}
