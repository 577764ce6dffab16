// Package ingest fetches raw observations from the upstream data
// sources and runs the periodic fetch-classify cycle. Everything here
// is I/O plumbing; classification itself lives in internal/aqhi.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/clacroix/ottawair/internal/aqhi"
	"github.com/clacroix/ottawair/internal/models"
)

// Source labels reported alongside every fetch result.
const (
	SourceEnvCanada         = "Environment Canada"
	SourceEnvCanadaHistory  = "Environment Canada Historical"
	SourceAirQualityOntario = "Air Quality Ontario"
	SourceOpenMeteo         = "Open-Meteo"
	SourcePollen            = "Seasonal Data (Ottawa)"
)

// DefaultEnvCanadaURL is the base URL for the Environment Canada
// geospatial API.
const DefaultEnvCanadaURL = "https://api.weather.gc.ca"

const aqhiCollectionPath = "/collections/aqhi-observations-realtime/items"

// Doer abstracts HTTP request execution so fetchers can be driven by
// the resilient client in production and httptest in tests.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// AQHIClient fetches current and historical AQHI observations near a
// fixed coordinate using the bbox query, which is more reliable than
// point lookup for this API.
type AQHIClient struct {
	baseURL string
	client  Doer
	lat     float64
	lon     float64
}

// NewAQHIClient creates an Environment Canada AQHI client for the
// given point.
func NewAQHIClient(client Doer, baseURL string, lat, lon float64) *AQHIClient {
	if baseURL == "" {
		baseURL = DefaultEnvCanadaURL
	}
	return &AQHIClient{baseURL: baseURL, client: client, lat: lat, lon: lon}
}

type aqhiFeatureCollection struct {
	Features []struct {
		Properties aqhiProperties `json:"properties"`
	} `json:"features"`
}

type aqhiProperties struct {
	AQHI                *float64 `json:"aqhi"`
	StationName         string   `json:"station_name"`
	ObservationDatetime string   `json:"observation_datetime"`
}

// FetchCurrent returns the latest AQHI reading closest to the watched
// point.
func (c *AQHIClient) FetchCurrent(ctx context.Context) (*models.IndexObservation, error) {
	fc, err := c.fetch(ctx, 0.1, 1)
	if err != nil {
		return nil, err
	}
	if len(fc.Features) == 0 {
		return nil, errors.New("no AQHI data available")
	}

	props := fc.Features[0].Properties
	if props.AQHI == nil {
		return nil, errors.New("AQHI value not available")
	}

	station := props.StationName
	if station == "" {
		station = "Ottawa"
	}

	return &models.IndexObservation{
		StationName: station,
		Value:       *props.AQHI,
		ObservedAt:  parseObservationTime(props.ObservationDatetime),
	}, nil
}

// FetchHistory returns the lookback window of AQHI observations around
// the watched point, in whatever order the API supplies them. Features
// missing a value or a parseable timestamp are skipped.
func (c *AQHIClient) FetchHistory(ctx context.Context) ([]aqhi.TrendPoint, error) {
	fc, err := c.fetch(ctx, 0.25, 100)
	if err != nil {
		return nil, err
	}
	if len(fc.Features) == 0 {
		return nil, errors.New("no historical AQHI data available")
	}

	var points []aqhi.TrendPoint
	for _, f := range fc.Features {
		props := f.Properties
		if props.AQHI == nil || props.ObservationDatetime == "" {
			continue
		}
		ts, ok := tryParseObservationTime(props.ObservationDatetime)
		if !ok {
			continue
		}
		points = append(points, aqhi.TrendPoint{Timestamp: ts, Value: *props.AQHI})
	}

	if len(points) == 0 {
		return nil, errors.New("no valid AQHI observations found")
	}
	return points, nil
}

func (c *AQHIClient) fetch(ctx context.Context, buffer float64, limit int) (*aqhiFeatureCollection, error) {
	bbox := fmt.Sprintf("%v,%v,%v,%v", c.lon-buffer, c.lat-buffer, c.lon+buffer, c.lat+buffer)
	url := fmt.Sprintf("%s%s?f=json&lang=en&bbox=%s&limit=%d", c.baseURL, aqhiCollectionPath, bbox, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch AQHI: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch AQHI: status %d: %s", resp.StatusCode, string(b))
	}

	var fc aqhiFeatureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decode AQHI response: %w", err)
	}
	return &fc, nil
}

// Observation timestamps arrive in a couple of formats depending on the
// collection; fall back to fetch time rather than dropping the reading.
func parseObservationTime(raw string) time.Time {
	if ts, ok := tryParseObservationTime(raw); ok {
		return ts
	}
	return time.Now().UTC()
}

func tryParseObservationTime(raw string) (time.Time, bool) {
	formats := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
	}
	for _, format := range formats {
		if ts, err := time.Parse(format, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
