package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clacroix/ottawair/internal/aqhi"
	"github.com/clacroix/ottawair/internal/models"
	"github.com/clacroix/ottawair/internal/snapshot"
)

func classifiedCycle(t *testing.T) *snapshot.Cycle {
	t.Helper()

	base := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)
	series, err := aqhi.NewSeries([]aqhi.TrendPoint{
		{Timestamp: base, Value: 2.0},
		{Timestamp: base.Add(time.Hour), Value: 5.0},
		{Timestamp: base.Add(2 * time.Hour), Value: 8.0},
	})
	require.NoError(t, err)
	pm := 4.0

	assessment, err := aqhi.Assess(aqhi.Input{IndexValue: 8.0, PM25: &pm, Series: series})
	require.NoError(t, err)

	return &snapshot.Cycle{
		ID:          "test-cycle",
		StartedAt:   base.Add(3 * time.Hour),
		CompletedAt: base.Add(3*time.Hour + time.Second),
		Index: models.Success("Environment Canada", &models.IndexObservation{
			StationName: "Ottawa Downtown",
			Value:       8.0,
			ObservedAt:  base.Add(2 * time.Hour),
		}),
		Pollutants: models.Success("Air Quality Ontario", &models.PollutantObservation{
			Station: "Ottawa Downtown",
			PM25:    &pm,
		}),
		Weather:    models.Failure[models.WeatherObservation]("Open-Meteo", errors.New("connection refused")),
		Pollen:     models.Success("Seasonal Data (Ottawa)", &models.PollenObservation{}),
		Trend:      models.Success("Environment Canada Historical", series),
		Assessment: assessment,
	}
}

func newTestServer(holder *snapshot.Holder) *Server {
	return NewServer(holder, zerolog.Nop(), "0")
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAssessmentEmptyHolder(t *testing.T) {
	s := newTestServer(snapshot.NewHolder())
	rec := get(t, s.Handler(), "/api/v1/assessment")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "no cycle completed yet", body.Error)
}

func TestAssessmentClassified(t *testing.T) {
	holder := snapshot.NewHolder()
	holder.Publish(classifiedCycle(t))
	s := newTestServer(holder)

	rec := get(t, s.Handler(), "/api/v1/assessment")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body AssessmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "test-cycle", body.CycleID)
	assert.Equal(t, aqhi.RiskHigh, body.RiskTier)
	assert.Equal(t, aqhi.TrendIncreasing, body.TrendLabel)
	assert.InDelta(t, 300.0, body.ChangePercent, 1e-9)
	assert.Equal(t, aqhi.BracketRestrict, body.Bracket)
	assert.Equal(t, 8.0, body.PeakIndex)
	require.NotNil(t, body.PM25)
	assert.Equal(t, 4.0, *body.PM25)
}

func TestAssessmentDegradedCycle(t *testing.T) {
	cycle := classifiedCycle(t)
	cycle.Assessment = nil
	cycle.AssessmentErr = "index observation: required observation missing"

	holder := snapshot.NewHolder()
	holder.Publish(cycle)
	s := newTestServer(holder)

	rec := get(t, s.Handler(), "/api/v1/assessment")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "index observation: required observation missing", body.Error)
	assert.Equal(t, "connection refused", body.Sources["Open-Meteo"])
}

func TestCurrentReturnsWholeCycle(t *testing.T) {
	holder := snapshot.NewHolder()
	holder.Publish(classifiedCycle(t))
	s := newTestServer(holder)

	rec := get(t, s.Handler(), "/api/v1/current")
	require.Equal(t, http.StatusOK, rec.Code)

	var body snapshot.Cycle
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "test-cycle", body.ID)
	assert.True(t, body.Index.OK())
	assert.False(t, body.Weather.OK())
	require.NotNil(t, body.Assessment)
	assert.Equal(t, aqhi.RiskHigh, body.Assessment.Tier)
}

func TestTrendSummary(t *testing.T) {
	holder := snapshot.NewHolder()
	holder.Publish(classifiedCycle(t))
	s := newTestServer(holder)

	rec := get(t, s.Handler(), "/api/v1/trend")
	require.Equal(t, http.StatusOK, rec.Code)

	var body TrendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "Environment Canada Historical", body.Source)
	assert.Equal(t, 3, body.DataPoints)
	assert.Equal(t, 8.0, body.Current)
	assert.Equal(t, 2.0, body.Previous)
	assert.InDelta(t, 5.0, body.Average, 1e-9)
	assert.Equal(t, 8.0, body.Max)
	assert.Equal(t, 2.0, body.Min)
	assert.Equal(t, aqhi.TrendIncreasing, body.TrendLabel)
	assert.Len(t, body.Points, 3)
	assert.True(t, body.WindowEnd.After(body.WindowStart))
}

func TestTrendUnavailable(t *testing.T) {
	cycle := classifiedCycle(t)
	cycle.Trend = models.Failure[aqhi.Series]("Environment Canada Historical", errors.New("no valid AQHI observations found"))
	cycle.Assessment = nil
	cycle.AssessmentErr = "trend series: required observation missing"

	holder := snapshot.NewHolder()
	holder.Publish(cycle)
	s := newTestServer(holder)

	rec := get(t, s.Handler(), "/api/v1/trend")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Sources["Environment Canada Historical"], "no valid AQHI observations")
}

func TestHealthz(t *testing.T) {
	s := newTestServer(snapshot.NewHolder())
	rec := get(t, s.Handler(), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsExposed(t *testing.T) {
	s := newTestServer(snapshot.NewHolder())
	rec := get(t, s.Handler(), "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
