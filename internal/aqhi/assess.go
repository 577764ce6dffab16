package aqhi

import (
	"errors"
	"fmt"
)

// ErrMissingInput is returned when a required upstream observation is
// unavailable. Classification never substitutes defaults for missing
// data; the failed cycle is reported as failed.
var ErrMissingInput = errors.New("required observation missing")

// Input carries the already-fetched values one cycle needs classified.
type Input struct {
	// IndexValue is the current AQHI reading.
	IndexValue float64

	// PM25 is the current fine-particulate concentration in µg/m³,
	// nil when the upstream column was absent.
	PM25 *float64

	// Series is the lookback window of historical index values.
	Series *Series
}

// Assessment is the classified state of one cycle, the record
// consumers render. It is a fresh immutable value each cycle.
type Assessment struct {
	Tier           RiskTier       `json:"risk_tier"`
	Trend          TrendLabel     `json:"trend_label"`
	ChangePercent  float64        `json:"change_percent"`
	Recommendation Recommendation `json:"recommendation"`

	IndexValue float64  `json:"index_value"`
	PeakIndex  float64  `json:"peak_index"`
	PM25       *float64 `json:"pm25"`
}

// Assess classifies one cycle from complete inputs. It is a pure
// function: no clock, no I/O, no state carried between cycles.
func Assess(in Input) (*Assessment, error) {
	if in.Series == nil {
		return nil, fmt.Errorf("trend series: %w", ErrMissingInput)
	}

	tier, err := ClassifyIndex(in.IndexValue)
	if err != nil {
		return nil, err
	}

	trend := in.Series.Classify()

	return &Assessment{
		Tier:           tier,
		Trend:          trend,
		ChangePercent:  in.Series.ChangePercent(),
		Recommendation: SelectBracket(tier, in.PM25, trend),
		IndexValue:     in.IndexValue,
		PeakIndex:      in.Series.Max(),
		PM25:           in.PM25,
	}, nil
}
