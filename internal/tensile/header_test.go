package tensile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeHeaders(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		units  []string
		want   []string
	}{
		{
			name:   "label and unit",
			labels: []string{"Strain", "Stress"},
			units:  []string{"%", "MPa"},
			want:   []string{"Strain %", "Stress MPa"},
		},
		{
			name:   "blank units keep bare label",
			labels: []string{"Time", "Strain", "Stress"},
			units:  []string{"", "%", "  "},
			want:   []string{"Time", "Strain %", "Stress"},
		},
		{
			name:   "short unit row",
			labels: []string{"Strain", "Stress", "Load"},
			units:  []string{"%"},
			want:   []string{"Strain %", "Stress", "Load"},
		},
		{
			name:   "empty",
			labels: []string{},
			units:  []string{},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeHeaders(tt.labels, tt.units)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, len(tt.labels))
		})
	}
}
