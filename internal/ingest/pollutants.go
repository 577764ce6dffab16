package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/clacroix/ottawair/internal/htmlutil"
	"github.com/clacroix/ottawair/internal/models"
)

// DefaultAirQualityOntarioURL is the base URL for the Air Quality
// Ontario site.
const DefaultAirQualityOntarioURL = "https://www.airqualityontario.com"

const aqoSummaryPath = "/history/summary.php"

// The site serves the summary page to browsers only.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Station names tried in order; the network has renamed the Ottawa
// station more than once.
var ottawaStationNames = []string{"Ottawa Downtown", "Ottawa Central", "Ottawa"}

// PollutantClient scrapes current pollutant concentrations from the
// Air Quality Ontario station summary table.
type PollutantClient struct {
	baseURL string
	client  Doer
}

// NewPollutantClient creates an Air Quality Ontario client.
func NewPollutantClient(client Doer, baseURL string) *PollutantClient {
	if baseURL == "" {
		baseURL = DefaultAirQualityOntarioURL
	}
	return &PollutantClient{baseURL: baseURL, client: client}
}

// FetchCurrent scrapes the summary page and returns the Ottawa station
// row. A column the station does not report comes back nil, never zero.
func (c *PollutantClient) FetchCurrent(ctx context.Context) (*models.PollutantObservation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+aqoSummaryPath, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch pollutants: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch pollutants: status %d: %s", resp.StatusCode, string(b))
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse summary page: %w", err)
	}

	return parsePollutantTable(doc)
}

func parsePollutantTable(doc *html.Node) (*models.PollutantObservation, error) {
	table := findPollutantTable(htmlutil.Tables(doc))
	if table == nil {
		return nil, errors.New("could not find pollutant table")
	}

	header := table[0]
	stationCol := columnIndex(header, "Station")

	var row []string
	var station string
	for _, name := range ottawaStationNames {
		for _, r := range table[1:] {
			if stationCol < len(r) && strings.TrimSpace(r[stationCol]) == name {
				row, station = r, name
				break
			}
		}
		if row != nil {
			break
		}
	}
	if row == nil {
		return nil, errors.New("no matching Ottawa station found")
	}

	return &models.PollutantObservation{
		Station:    station,
		PM25:       cellValue(header, row, "PM2.5"),
		O3:         cellValue(header, row, "O3"),
		NO2:        cellValue(header, row, "NO2"),
		SO2:        cellValue(header, row, "SO2"),
		CO:         cellValue(header, row, "CO"),
		ObservedAt: time.Now().UTC(),
	}, nil
}

// findPollutantTable picks the table whose header carries both a
// Station column and an ozone column; the page has several tables.
func findPollutantTable(tables [][][]string) [][]string {
	for _, table := range tables {
		if len(table) < 2 {
			continue
		}
		if columnIndex(table[0], "Station") >= 0 && columnIndex(table[0], "O3") >= 0 {
			return table
		}
	}
	return nil
}

// columnIndex matches headers by prefix so unit suffixes like
// "PM2.5 (µg/m3)" keep matching if the formatting shifts.
func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.HasPrefix(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// cellValue parses the named column as a concentration. Missing
// columns, dashes and non-numeric placeholders are data gaps.
func cellValue(header, row []string, name string) *float64 {
	idx := columnIndex(header, name)
	if idx < 0 || idx >= len(row) {
		return nil
	}
	raw := strings.TrimSpace(row[idx])
	if raw == "" || raw == "-" || strings.EqualFold(raw, "n/a") {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
