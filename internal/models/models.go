package models

import "time"

// Status marks a fetch result as usable or failed.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Result wraps one fetch outcome. On error the observation is absent
// and Message explains the failure; on success the observation carries
// every field its source promises, nil where the source genuinely had
// no reading.
type Result[T any] struct {
	Status      Status    `json:"status"`
	Source      string    `json:"source"`
	Message     string    `json:"message,omitempty"`
	FetchedAt   time.Time `json:"fetched_at"`
	Observation *T        `json:"observation,omitempty"`
}

// Success wraps a fetched observation.
func Success[T any](source string, obs *T) Result[T] {
	return Result[T]{
		Status:      StatusSuccess,
		Source:      source,
		FetchedAt:   time.Now().UTC(),
		Observation: obs,
	}
}

// Failure wraps a fetch error. No domain fields survive a failure.
func Failure[T any](source string, err error) Result[T] {
	return Result[T]{
		Status:    StatusError,
		Source:    source,
		Message:   err.Error(),
		FetchedAt: time.Now().UTC(),
	}
}

// OK reports whether the result carries a usable observation.
func (r Result[T]) OK() bool {
	return r.Status == StatusSuccess && r.Observation != nil
}

// IndexObservation is one current AQHI reading for the watched point.
type IndexObservation struct {
	StationName string    `json:"station_name"`
	Value       float64   `json:"value"`
	ObservedAt  time.Time `json:"observed_at"`
}

// PollutantObservation holds individual pollutant concentrations from
// a monitoring station. Fields are nil when the station does not report
// that pollutant; a nil concentration is a data gap, not a zero.
type PollutantObservation struct {
	Station    string    `json:"station"`
	PM25       *float64  `json:"pm25"` // µg/m³
	O3         *float64  `json:"o3"`   // ppb
	NO2        *float64  `json:"no2"`  // ppb
	SO2        *float64  `json:"so2"`  // ppb
	CO         *float64  `json:"co"`   // ppm
	ObservedAt time.Time `json:"observed_at"`
}

// WeatherObservation is the current surface weather at the watched point.
type WeatherObservation struct {
	TempC      *float64  `json:"temperature_celsius"`
	Humidity   *int      `json:"relative_humidity"`
	WindKPH    *float64  `json:"wind_speed_kmh"`
	Condition  string    `json:"weather_condition"`
	Daytime    bool      `json:"is_daytime"`
	ObservedAt time.Time `json:"observed_at"`
}

// PollenLevel is a categorical pollen concentration.
type PollenLevel string

const (
	PollenNone     PollenLevel = "None"
	PollenLow      PollenLevel = "Low"
	PollenModerate PollenLevel = "Moderate"
	PollenHigh     PollenLevel = "High"
)

// PollenObservation holds seasonal pollen levels by category.
type PollenObservation struct {
	Tree       PollenLevel `json:"tree_pollen"`
	Grass      PollenLevel `json:"grass_pollen"`
	Weed       PollenLevel `json:"weed_pollen"`
	Month      string      `json:"month"`
	ObservedAt time.Time   `json:"observed_at"`
}
