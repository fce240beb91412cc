package tensile

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// Table is one CSV export split into its two header rows and the data rows.
// All rows are padded to the same width.
type Table struct {
	Labels []string
	Units  []string
	Rows   [][]string
}

// Width returns the number of columns
func (t *Table) Width() int {
	return len(t.Labels)
}

// ParseTable reads a CSV text whose first row holds column names and second row holds units
func ParseTable(csvText string) (*Table, error) {
	csvText = strings.TrimPrefix(csvText, "\ufeff")

	r := csv.NewReader(strings.NewReader(csvText))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) < 2 {
		return nil, ErrTableTooShort
	}

	width := 0
	for _, rec := range records {
		if len(rec) > width {
			width = len(rec)
		}
	}
	for i, rec := range records {
		records[i] = pad(rec, width)
	}

	return &Table{
		Labels: records[0],
		Units:  records[1],
		Rows:   records[2:],
	}, nil
}

// Column returns the raw cells of column i for every data row
func (t *Table) Column(i int) []string {
	cells := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		cells[r] = row[i]
	}
	return cells
}

func pad(rec []string, width int) []string {
	if len(rec) >= width {
		return rec
	}
	out := make([]string, width)
	copy(out, rec)
	return out
}
