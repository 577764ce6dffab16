// Package snapshot holds the most recent fetch-classify cycle in
// memory. Nothing is persisted between runs; each cycle replaces the
// previous one wholesale.
package snapshot

import (
	"sync"
	"time"

	"github.com/clacroix/ottawair/internal/aqhi"
	"github.com/clacroix/ottawair/internal/models"
)

// Cycle is one complete fetch-classify pass. It is immutable once
// published: a failed source keeps its error message here without
// withholding any other source's result.
type Cycle struct {
	ID          string    `json:"cycle_id"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`

	Index      models.Result[models.IndexObservation]     `json:"index"`
	Pollutants models.Result[models.PollutantObservation] `json:"pollutants"`
	Weather    models.Result[models.WeatherObservation]   `json:"weather"`
	Pollen     models.Result[models.PollenObservation]    `json:"pollen"`
	Trend      models.Result[aqhi.Series]                 `json:"trend"`

	// Assessment is nil when classification was refused; AssessmentErr
	// then explains why.
	Assessment    *aqhi.Assessment `json:"assessment,omitempty"`
	AssessmentErr string           `json:"assessment_error,omitempty"`
}

// SourceErrors collects the per-source failure messages for a cycle.
func (c *Cycle) SourceErrors() map[string]string {
	errs := make(map[string]string)
	if !c.Index.OK() {
		errs[c.Index.Source] = c.Index.Message
	}
	if !c.Pollutants.OK() {
		errs[c.Pollutants.Source] = c.Pollutants.Message
	}
	if !c.Weather.OK() {
		errs[c.Weather.Source] = c.Weather.Message
	}
	if !c.Pollen.OK() {
		errs[c.Pollen.Source] = c.Pollen.Message
	}
	if !c.Trend.OK() {
		errs[c.Trend.Source] = c.Trend.Message
	}
	return errs
}

// Holder is a thread-safe slot for the latest cycle.
type Holder struct {
	mu    sync.RWMutex
	cycle *Cycle
}

// NewHolder returns an empty holder. Latest returns nil until the
// first cycle completes.
func NewHolder() *Holder {
	return &Holder{}
}

// Publish replaces the held cycle.
func (h *Holder) Publish(c *Cycle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cycle = c
}

// Latest returns the most recently published cycle, or nil.
func (h *Holder) Latest() *Cycle {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cycle
}
