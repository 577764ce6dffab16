package api

import (
	"time"

	"github.com/clacroix/ottawair/internal/aqhi"
	"github.com/clacroix/ottawair/internal/snapshot"
)

// AssessmentResponse is the classified state of the latest cycle,
// flattened for consumers.
type AssessmentResponse struct {
	CycleID     string    `json:"cycle_id"`
	GeneratedAt time.Time `json:"generated_at"`

	RiskTier      aqhi.RiskTier   `json:"risk_tier"`
	TrendLabel    aqhi.TrendLabel `json:"trend_label"`
	ChangePercent float64         `json:"change_percent"`

	Bracket             aqhi.Bracket                    `json:"bracket"`
	PositiveFraming     bool                            `json:"positive_framing"`
	PopulationGuidance  map[aqhi.PopulationGroup]string `json:"population_guidance"`
	ProtectiveEquipment bool                            `json:"protective_equipment"`
	IndoorFiltration    bool                            `json:"indoor_filtration"`

	IndexValue float64  `json:"index_value"`
	PeakIndex  float64  `json:"peak_index"`
	PM25       *float64 `json:"pm25"`
}

func newAssessmentResponse(c *snapshot.Cycle) AssessmentResponse {
	a := c.Assessment
	return AssessmentResponse{
		CycleID:             c.ID,
		GeneratedAt:         c.CompletedAt,
		RiskTier:            a.Tier,
		TrendLabel:          a.Trend,
		ChangePercent:       a.ChangePercent,
		Bracket:             a.Recommendation.Bracket,
		PositiveFraming:     a.Recommendation.PositiveFraming,
		PopulationGuidance:  a.Recommendation.Guidance,
		ProtectiveEquipment: a.Recommendation.ProtectiveEquipment,
		IndoorFiltration:    a.Recommendation.IndoorFiltration,
		IndexValue:          a.IndexValue,
		PeakIndex:           a.PeakIndex,
		PM25:                a.PM25,
	}
}

// TrendResponse summarizes the lookback window.
type TrendResponse struct {
	Source        string            `json:"source"`
	DataPoints    int               `json:"data_points"`
	Current       float64           `json:"current"`
	Previous      float64           `json:"previous"`
	Average       float64           `json:"average"`
	Max           float64           `json:"max"`
	Min           float64           `json:"min"`
	ChangePercent float64           `json:"change_percent"`
	TrendLabel    aqhi.TrendLabel   `json:"trend_label"`
	WindowStart   time.Time         `json:"window_start"`
	WindowEnd     time.Time         `json:"window_end"`
	Points        []aqhi.TrendPoint `json:"points"`
}

func newTrendResponse(source string, s *aqhi.Series) TrendResponse {
	start, end := s.TimeRange()
	return TrendResponse{
		Source:        source,
		DataPoints:    s.Len(),
		Current:       s.Current(),
		Previous:      s.Previous(),
		Average:       s.Average(),
		Max:           s.Max(),
		Min:           s.Min(),
		ChangePercent: s.ChangePercent(),
		TrendLabel:    s.Classify(),
		WindowStart:   start,
		WindowEnd:     end,
		Points:        s.Points(),
	}
}

// ErrorResponse reports why a request could not be served, with any
// per-source failure messages from the cycle.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Sources map[string]string `json:"sources,omitempty"`
}
