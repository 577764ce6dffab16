package aqhi

import (
	"errors"
	"math"
	"testing"
	"time"
)

func seriesOf(t *testing.T, values ...float64) *Series {
	t.Helper()
	base := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	points := make([]TrendPoint, len(values))
	for i, v := range values {
		points[i] = TrendPoint{Timestamp: base.Add(time.Duration(i) * time.Hour), Value: v}
	}
	s, err := NewSeries(points)
	if err != nil {
		t.Fatalf("NewSeries: %v", err)
	}
	return s
}

func TestNewSeries_Empty(t *testing.T) {
	if _, err := NewSeries(nil); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("NewSeries(nil) error = %v, want ErrEmptySeries", err)
	}
}

func TestSeriesClassify(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   TrendLabel
	}{
		{
			name:   "rising inside low band stays stable_low",
			values: []float64{1.0, 2.0, 3.0},
			want:   TrendStableLow,
		},
		{
			name:   "falling inside low band stays stable_low",
			values: []float64{3.0, 2.0, 1.0},
			want:   TrendStableLow,
		},
		{
			name:   "rising past low band is increasing",
			values: []float64{2.0, 5.0, 8.0},
			want:   TrendIncreasing,
		},
		{
			name:   "falling is decreasing",
			values: []float64{8.0, 5.0, 2.0},
			want:   TrendDecreasing,
		},
		{
			name:   "flat endpoints above low band are stable",
			values: []float64{5.0, 5.0},
			want:   TrendStable,
		},
		{
			name:   "transient spike disqualifies stable_low",
			values: []float64{2.0, 4.0, 1.0},
			want:   TrendDecreasing,
		},
		{
			name:   "spike with equal endpoints is stable",
			values: []float64{2.0, 6.0, 2.0},
			want:   TrendStable,
		},
		{
			name:   "single low point is stable_low",
			values: []float64{2.5},
			want:   TrendStableLow,
		},
		{
			name:   "single high point is stable",
			values: []float64{8.0},
			want:   TrendStable,
		},
		{
			name:   "low band boundary exactly 3 is stable_low",
			values: []float64{1.0, 3.0},
			want:   TrendStableLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := seriesOf(t, tt.values...).Classify()
			if got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

// The classifier must sort internally: any permutation of the same
// point set yields the same label.
func TestSeriesClassify_SortOrderInvariant(t *testing.T) {
	base := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	points := []TrendPoint{
		{Timestamp: base, Value: 2.0},
		{Timestamp: base.Add(1 * time.Hour), Value: 5.0},
		{Timestamp: base.Add(2 * time.Hour), Value: 8.0},
	}

	perms := [][]int{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}

	for _, perm := range perms {
		shuffled := make([]TrendPoint, len(points))
		for i, idx := range perm {
			shuffled[i] = points[idx]
		}
		s, err := NewSeries(shuffled)
		if err != nil {
			t.Fatalf("NewSeries: %v", err)
		}
		if got := s.Classify(); got != TrendIncreasing {
			t.Errorf("permutation %v: Classify() = %v, want increasing", perm, got)
		}
		if s.Current() != 8.0 || s.Previous() != 2.0 {
			t.Errorf("permutation %v: endpoints %v/%v, want 2/8", perm, s.Previous(), s.Current())
		}
	}
}

func TestSeriesStats(t *testing.T) {
	s := seriesOf(t, 1.0, 2.0, 3.0)

	if got := s.Current(); got != 3.0 {
		t.Errorf("Current() = %v, want 3", got)
	}
	if got := s.Previous(); got != 1.0 {
		t.Errorf("Previous() = %v, want 1", got)
	}
	if got := s.Max(); got != 3.0 {
		t.Errorf("Max() = %v, want 3", got)
	}
	if got := s.Min(); got != 1.0 {
		t.Errorf("Min() = %v, want 1", got)
	}
	if got := s.Average(); math.Abs(got-2.0) > 1e-9 {
		t.Errorf("Average() = %v, want 2", got)
	}
	if got := s.ChangePercent(); math.Abs(got-200.0) > 1e-9 {
		t.Errorf("ChangePercent() = %v, want 200", got)
	}
	if got := s.Classify(); got != TrendStableLow {
		t.Errorf("Classify() = %v, want stable_low", got)
	}
}

func TestSeriesChangePercent_ZeroPrevious(t *testing.T) {
	for _, current := range []float64{0, 1.5, 9.0} {
		s := seriesOf(t, 0, current)
		if got := s.ChangePercent(); got != 0 {
			t.Errorf("ChangePercent() with previous=0, current=%v = %v, want 0", current, got)
		}
	}
}

func TestSeries_SinglePointNeverDirectional(t *testing.T) {
	for _, v := range []float64{0.5, 3.0, 6.2, 11.0} {
		got := seriesOf(t, v).Classify()
		if got == TrendIncreasing || got == TrendDecreasing {
			t.Errorf("single point %v classified %v, want stable or stable_low", v, got)
		}
	}
}

func TestSeriesTimeRange(t *testing.T) {
	base := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	s, err := NewSeries([]TrendPoint{
		{Timestamp: base.Add(2 * time.Hour), Value: 3},
		{Timestamp: base, Value: 1},
	})
	if err != nil {
		t.Fatalf("NewSeries: %v", err)
	}
	start, end := s.TimeRange()
	if !start.Equal(base) || !end.Equal(base.Add(2*time.Hour)) {
		t.Errorf("TimeRange() = %v..%v, want %v..%v", start, end, base, base.Add(2*time.Hour))
	}
}
