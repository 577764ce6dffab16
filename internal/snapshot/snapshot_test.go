package snapshot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clacroix/ottawair/internal/aqhi"
	"github.com/clacroix/ottawair/internal/models"
)

func TestHolder_PublishAndLatest(t *testing.T) {
	h := NewHolder()
	assert.Nil(t, h.Latest())

	first := &Cycle{ID: "a"}
	h.Publish(first)
	assert.Equal(t, "a", h.Latest().ID)

	h.Publish(&Cycle{ID: "b"})
	assert.Equal(t, "b", h.Latest().ID)
	assert.Equal(t, "a", first.ID, "published cycles are never mutated")
}

func TestCycle_SourceErrors(t *testing.T) {
	c := &Cycle{
		Index:      models.Success("Environment Canada", &models.IndexObservation{Value: 2.1}),
		Pollutants: models.Failure[models.PollutantObservation]("Air Quality Ontario", errors.New("no Ottawa station data found")),
		Weather:    models.Success("Open-Meteo", &models.WeatherObservation{}),
		Pollen:     models.Success("Seasonal Data (Ottawa)", &models.PollenObservation{}),
		Trend:      models.Failure[aqhi.Series]("Environment Canada Historical", errors.New("no valid AQHI observations found")),
	}

	errs := c.SourceErrors()
	assert.Len(t, errs, 2)
	assert.Equal(t, "no Ottawa station data found", errs["Air Quality Ontario"])
	assert.Equal(t, "no valid AQHI observations found", errs["Environment Canada Historical"])
}
