package aqhi

import (
	"encoding/json"
	"errors"
	"sort"
	"time"
)

// ErrEmptySeries is returned when a trend series is constructed with no
// points. Trend classification is meaningless without at least one
// observation, so callers must surface this as a fetch-level error.
var ErrEmptySeries = errors.New("trend series has no points")

// TrendLabel is the trajectory classification over the lookback window.
type TrendLabel string

const (
	TrendStableLow  TrendLabel = "stable_low"
	TrendIncreasing TrendLabel = "increasing"
	TrendDecreasing TrendLabel = "decreasing"
	TrendStable     TrendLabel = "stable"
)

// lowBandCeiling is the top of the Low risk band. A window that never
// leaves it is reported stable_low no matter which way it is moving, so
// fluctuation inside the safe band is never flagged as worsening.
const lowBandCeiling = 3.0

// TrendPoint is a single (timestamp, index value) observation.
type TrendPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// Series is an immutable lookback window of index observations held in
// chronological order. Build one per fetch cycle and discard it after
// the cycle completes.
type Series struct {
	points []TrendPoint
}

// NewSeries builds a Series from points in any order. The input is
// copied and sorted ascending by timestamp; an unsorted ingest feed
// must not be able to corrupt the direction signal.
func NewSeries(points []TrendPoint) (*Series, error) {
	if len(points) == 0 {
		return nil, ErrEmptySeries
	}

	sorted := make([]TrendPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	return &Series{points: sorted}, nil
}

// Len returns the number of observations in the window.
func (s *Series) Len() int {
	return len(s.points)
}

// Points returns a copy of the ordered observations.
func (s *Series) Points() []TrendPoint {
	out := make([]TrendPoint, len(s.points))
	copy(out, s.points)
	return out
}

// Current returns the value of the chronologically last observation.
func (s *Series) Current() float64 {
	return s.points[len(s.points)-1].Value
}

// Previous returns the value of the chronologically first observation.
// These are exactly the window endpoints, not smoothed values.
func (s *Series) Previous() float64 {
	return s.points[0].Value
}

// Average returns the mean value over the window.
func (s *Series) Average() float64 {
	var sum float64
	for _, p := range s.points {
		sum += p.Value
	}
	return sum / float64(len(s.points))
}

// Max returns the highest value observed anywhere in the window.
func (s *Series) Max() float64 {
	max := s.points[0].Value
	for _, p := range s.points[1:] {
		if p.Value > max {
			max = p.Value
		}
	}
	return max
}

// Min returns the lowest value observed anywhere in the window.
func (s *Series) Min() float64 {
	min := s.points[0].Value
	for _, p := range s.points[1:] {
		if p.Value < min {
			min = p.Value
		}
	}
	return min
}

// MarshalJSON renders the series as its ordered point list.
func (s Series) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.points)
}

// UnmarshalJSON rebuilds a series from a point list, restoring the
// chronological ordering invariant.
func (s *Series) UnmarshalJSON(data []byte) error {
	var points []TrendPoint
	if err := json.Unmarshal(data, &points); err != nil {
		return err
	}
	rebuilt, err := NewSeries(points)
	if err != nil {
		return err
	}
	*s = *rebuilt
	return nil
}

// TimeRange returns the timestamps of the window endpoints.
func (s *Series) TimeRange() (start, end time.Time) {
	return s.points[0].Timestamp, s.points[len(s.points)-1].Timestamp
}

// ChangePercent returns the percentage change between the window
// endpoints. By convention it is exactly 0 when the window opened at
// zero, avoiding a division by zero.
func (s *Series) ChangePercent() float64 {
	prev := s.Previous()
	if prev == 0 {
		return 0
	}
	return (s.Current() - prev) / prev * 100
}

// Classify returns the trend label for the window. Rules are evaluated
// in priority order, first match wins:
//
//  1. Every observation sits at or below the Low band ceiling →
//     stable_low, regardless of direction. A nominally upward
//     trajectory entirely inside the safe band must not read as
//     worsening.
//  2. Rising endpoints with a peak above the Low band → increasing.
//  3. Falling endpoints → decreasing.
//  4. Otherwise → stable. A single-point window always lands here
//     (or in rule 1) because its endpoints are equal.
//
// A transient spike above the ceiling anywhere in the window
// disqualifies stable_low for the whole cycle; the peak is computed
// over the entire window, not just the endpoints.
func (s *Series) Classify() TrendLabel {
	current, previous := s.Current(), s.Previous()

	switch {
	case s.Max() <= lowBandCeiling:
		return TrendStableLow
	case current > previous:
		return TrendIncreasing
	case current < previous:
		return TrendDecreasing
	default:
		return TrendStable
	}
}
