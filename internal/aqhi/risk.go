package aqhi

import (
	"errors"
	"fmt"
	"math"
)

// ErrNotFinite is returned when an index value cannot be classified
// because it is NaN or infinite. Callers should treat the observation
// as a fetch failure rather than fall back to a default tier.
var ErrNotFinite = errors.New("index value is not finite")

// RiskTier represents the health risk category for an AQHI reading.
type RiskTier string

const (
	RiskLow      RiskTier = "Low"
	RiskModerate RiskTier = "Moderate"
	RiskHigh     RiskTier = "High"
	RiskVeryHigh RiskTier = "Very High"
)

// Severity returns a numeric rank for ordering tiers (higher = worse).
func (r RiskTier) Severity() int {
	switch r {
	case RiskVeryHigh:
		return 3
	case RiskHigh:
		return 2
	case RiskModerate:
		return 1
	default:
		return 0
	}
}

// AQHI tier thresholds, inclusive lower bounds (Environment Canada scale).
const (
	thresholdModerate = 4.0
	thresholdHigh     = 7.0
	thresholdVeryHigh = 10.0
)

// PM2.5 concentration bands in µg/m³. The lower bound follows the WHO
// guideline; readings above the upper bound warrant outdoor restrictions.
const (
	PM25SafeLimit = 12.0
	PM25HighLimit = 35.0
)

// ClassifyIndex maps an AQHI value onto the four-tier risk scale.
// The lowest band is unbounded below, so degenerate negative readings
// classify as Low rather than erroring.
func ClassifyIndex(value float64) (RiskTier, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "", fmt.Errorf("classify index %v: %w", value, ErrNotFinite)
	}

	switch {
	case value >= thresholdVeryHigh:
		return RiskVeryHigh, nil
	case value >= thresholdHigh:
		return RiskHigh, nil
	case value >= thresholdModerate:
		return RiskModerate, nil
	default:
		return RiskLow, nil
	}
}
