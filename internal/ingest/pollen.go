package ingest

import (
	"time"

	"github.com/clacroix/ottawair/internal/models"
)

type pollenLevels struct {
	tree, grass, weed models.PollenLevel
}

// Ottawa pollen seasons by month. There is no live pollen API for the
// region, so this is a fixed seasonal calendar.
var pollenSeasons = map[time.Month]pollenLevels{
	time.January:   {models.PollenLow, models.PollenNone, models.PollenNone},
	time.February:  {models.PollenLow, models.PollenNone, models.PollenNone},
	time.March:     {models.PollenModerate, models.PollenLow, models.PollenNone},
	time.April:     {models.PollenHigh, models.PollenModerate, models.PollenLow},
	time.May:       {models.PollenModerate, models.PollenHigh, models.PollenModerate},
	time.June:      {models.PollenLow, models.PollenHigh, models.PollenHigh},
	time.July:      {models.PollenNone, models.PollenModerate, models.PollenHigh},
	time.August:    {models.PollenNone, models.PollenLow, models.PollenHigh},
	time.September: {models.PollenLow, models.PollenModerate, models.PollenHigh},
	time.October:   {models.PollenModerate, models.PollenLow, models.PollenModerate},
	time.November:  {models.PollenLow, models.PollenNone, models.PollenNone},
	time.December:  {models.PollenLow, models.PollenNone, models.PollenNone},
}

// SeasonalPollen returns the pollen levels for the month containing t.
// Pure function of the clock; it cannot fail.
func SeasonalPollen(t time.Time) *models.PollenObservation {
	levels := pollenSeasons[t.Month()]
	return &models.PollenObservation{
		Tree:       levels.tree,
		Grass:      levels.grass,
		Weed:       levels.weed,
		Month:      t.Month().String(),
		ObservedAt: t.UTC(),
	}
}
