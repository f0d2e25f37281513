package telemetry

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   Distribution
	}{
		{"empty", nil, Distribution{}},
		{"single", []float64{5}, Distribution{Mean: 5, P10: 5, P50: 5, P90: 5}},
		{"unsorted input", []float64{3, 1, 2}, Distribution{Mean: 2, Std: 1, P10: 1, P50: 2, P90: 3}},
		{"four", []float64{1, 2, 3, 4}, Distribution{Mean: 2.5, Std: 1.2909944, P10: 1, P50: 2, P90: 4}},
		{"ten", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, Distribution{Mean: 5.5, Std: 3.0276504, P10: 1, P50: 5, P90: 9}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Summarize(tc.values)
			fields := []struct {
				name      string
				got, want float64
			}{
				{"mean", got.Mean, tc.want.Mean},
				{"std", got.Std, tc.want.Std},
				{"p10", got.P10, tc.want.P10},
				{"p50", got.P50, tc.want.P50},
				{"p90", got.P90, tc.want.P90},
			}
			for _, f := range fields {
				if math.Abs(f.got-f.want) > 1e-6 {
					t.Errorf("%s = %v, want %v", f.name, f.got, f.want)
				}
			}
		})
	}
}

func TestSummarizeLeavesInputUnsorted(t *testing.T) {
	values := []float64{3, 1, 2}
	Summarize(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input reordered: %v", values)
	}
}
