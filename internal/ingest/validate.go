package ingest

import (
	"github.com/clacroix/ottawair/internal/models"
)

// Quality flags annotate suspicious readings in the fetch log. They
// never reject an observation; classification handles degenerate
// values on its own terms.
const (
	FlagIndexNegative         = "index_negative"
	FlagIndexUnlikely         = "index_unlikely"
	FlagConcentrationNegative = "concentration_negative"
	FlagHumidityInvalid       = "humidity_invalid"
	FlagTempOutOfRange        = "temp_out_of_range"
	FlagWindSpeedUnlikely     = "wind_speed_unlikely"
)

// ValidateIndex flags AQHI readings outside the plausible range. The
// scale is open-ended above 10 but readings past 20 have never been
// recorded for this region.
func ValidateIndex(obs *models.IndexObservation) []string {
	var flags []string

	if obs.Value < 0 {
		flags = append(flags, FlagIndexNegative)
	}
	if obs.Value > 20 {
		flags = append(flags, FlagIndexUnlikely)
	}

	return flags
}

// ValidatePollutants flags negative concentrations.
func ValidatePollutants(obs *models.PollutantObservation) []string {
	var flags []string

	for _, v := range []*float64{obs.PM25, obs.O3, obs.NO2, obs.SO2, obs.CO} {
		if v != nil && *v < 0 {
			flags = append(flags, FlagConcentrationNegative)
			break
		}
	}

	return flags
}

// ValidateWeather flags out-of-range surface readings for the region.
func ValidateWeather(obs *models.WeatherObservation) []string {
	var flags []string

	if obs.TempC != nil && (*obs.TempC < -45 || *obs.TempC > 45) {
		flags = append(flags, FlagTempOutOfRange)
	}
	if obs.Humidity != nil && (*obs.Humidity < 0 || *obs.Humidity > 100) {
		flags = append(flags, FlagHumidityInvalid)
	}
	if obs.WindKPH != nil && (*obs.WindKPH < 0 || *obs.WindKPH > 200) {
		flags = append(flags, FlagWindSpeedUnlikely)
	}

	return flags
}
