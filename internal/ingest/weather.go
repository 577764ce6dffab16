package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/clacroix/ottawair/internal/models"
)

// DefaultOpenMeteoURL is the base URL for the Open-Meteo API.
const DefaultOpenMeteoURL = "https://api.open-meteo.com"

// WMO weather interpretation codes, the subset Open-Meteo actually
// emits for this region.
var weatherDescriptions = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Foggy",
	48: "Depositing rime fog",
	51: "Light drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	71: "Slight snow",
	73: "Moderate snow",
	75: "Heavy snow",
	95: "Thunderstorm",
}

// WeatherClient fetches current surface weather from Open-Meteo.
type WeatherClient struct {
	baseURL  string
	client   Doer
	lat      float64
	lon      float64
	timezone string
}

// NewWeatherClient creates an Open-Meteo client for the given point.
func NewWeatherClient(client Doer, baseURL string, lat, lon float64, timezone string) *WeatherClient {
	if baseURL == "" {
		baseURL = DefaultOpenMeteoURL
	}
	if timezone == "" {
		timezone = "America/Toronto"
	}
	return &WeatherClient{baseURL: baseURL, client: client, lat: lat, lon: lon, timezone: timezone}
}

type openMeteoResponse struct {
	Current struct {
		Time        string   `json:"time"`
		Temperature *float64 `json:"temperature_2m"`
		Humidity    *int     `json:"relative_humidity_2m"`
		WindSpeed   *float64 `json:"wind_speed_10m"`
		WeatherCode *int     `json:"weather_code"`
		IsDay       *int     `json:"is_day"`
	} `json:"current"`
}

// FetchCurrent returns the current weather at the watched point.
func (c *WeatherClient) FetchCurrent(ctx context.Context) (*models.WeatherObservation, error) {
	url := fmt.Sprintf(
		"%s/v1/forecast?latitude=%v&longitude=%v&current=temperature_2m,relative_humidity_2m,wind_speed_10m,weather_code,is_day&timezone=%s",
		c.baseURL, c.lat, c.lon, c.timezone,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch weather: status %d: %s", resp.StatusCode, string(b))
	}

	var data openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}

	condition := "Unknown"
	if data.Current.WeatherCode != nil {
		if desc, ok := weatherDescriptions[*data.Current.WeatherCode]; ok {
			condition = desc
		}
	}

	return &models.WeatherObservation{
		TempC:      data.Current.Temperature,
		Humidity:   data.Current.Humidity,
		WindKPH:    data.Current.WindSpeed,
		Condition:  condition,
		Daytime:    data.Current.IsDay != nil && *data.Current.IsDay == 1,
		ObservedAt: time.Now().UTC(),
	}, nil
}
