package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clacroix/ottawair/internal/aqhi"
	"github.com/clacroix/ottawair/internal/metrics"
	"github.com/clacroix/ottawair/internal/models"
	"github.com/clacroix/ottawair/internal/snapshot"
)

// Scheduler runs the periodic fetch-classify cycle and publishes each
// completed cycle to the snapshot holder.
type Scheduler struct {
	aqhiClient *AQHIClient
	pollutants *PollutantClient
	weather    *WeatherClient
	holder     *snapshot.Holder
	log        zerolog.Logger
	interval   time.Duration
	now        func() time.Time
}

// NewScheduler wires a scheduler over the three upstream clients.
func NewScheduler(aqhiClient *AQHIClient, pollutants *PollutantClient, weather *WeatherClient, holder *snapshot.Holder, log zerolog.Logger, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Scheduler{
		aqhiClient: aqhiClient,
		pollutants: pollutants,
		weather:    weather,
		holder:     holder,
		log:        log,
		interval:   interval,
		now:        time.Now,
	}
}

// Run executes a cycle immediately, then on every tick until the
// context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.RunCycle(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("scheduler shutting down")
			return
		case <-ticker.C:
			s.RunCycle(ctx)
		}
	}
}

// RunCycle fetches every source, classifies when the required inputs
// all arrived, and publishes the result. A failed source is recorded
// with its message and never withholds the other sources' results;
// classification on partial data is refused, not approximated.
func (s *Scheduler) RunCycle(ctx context.Context) *snapshot.Cycle {
	cycle := &snapshot.Cycle{ID: uuid.NewString(), StartedAt: s.now().UTC()}
	log := s.log.With().Str("cycle_id", cycle.ID).Logger()

	cycle.Index = fetchResult(log, SourceEnvCanada, func() (*models.IndexObservation, error) {
		obs, err := s.aqhiClient.FetchCurrent(ctx)
		if err == nil {
			warnFlags(log, SourceEnvCanada, ValidateIndex(obs))
		}
		return obs, err
	})

	cycle.Pollutants = fetchResult(log, SourceAirQualityOntario, func() (*models.PollutantObservation, error) {
		obs, err := s.pollutants.FetchCurrent(ctx)
		if err == nil {
			warnFlags(log, SourceAirQualityOntario, ValidatePollutants(obs))
		}
		return obs, err
	})

	cycle.Weather = fetchResult(log, SourceOpenMeteo, func() (*models.WeatherObservation, error) {
		obs, err := s.weather.FetchCurrent(ctx)
		if err == nil {
			warnFlags(log, SourceOpenMeteo, ValidateWeather(obs))
		}
		return obs, err
	})

	cycle.Pollen = fetchResult(log, SourcePollen, func() (*models.PollenObservation, error) {
		return SeasonalPollen(s.now()), nil
	})

	cycle.Trend = fetchResult(log, SourceEnvCanadaHistory, func() (*aqhi.Series, error) {
		points, err := s.aqhiClient.FetchHistory(ctx)
		if err != nil {
			return nil, err
		}
		return aqhi.NewSeries(points)
	})

	assessment, err := classifyCycle(cycle)
	if err != nil {
		cycle.AssessmentErr = err.Error()
		metrics.CyclesTotal.WithLabelValues("degraded").Inc()
		log.Warn().Err(err).Msg("cycle not classified")
	} else {
		cycle.Assessment = assessment
		metrics.CyclesTotal.WithLabelValues("classified").Inc()
		metrics.AssessmentsTotal.WithLabelValues(
			string(assessment.Tier),
			string(assessment.Trend),
			string(assessment.Recommendation.Bracket),
		).Inc()
		log.Info().
			Str("tier", string(assessment.Tier)).
			Str("trend", string(assessment.Trend)).
			Str("bracket", string(assessment.Recommendation.Bracket)).
			Float64("index", assessment.IndexValue).
			Msg("cycle classified")
	}

	cycle.CompletedAt = s.now().UTC()
	metrics.LastCycleTimestamp.Set(float64(cycle.CompletedAt.Unix()))
	s.holder.Publish(cycle)

	return cycle
}

// classifyCycle refuses to classify when any required input failed
// upstream. The weather and pollen sources inform reporting only and
// are not required; a nil PM2.5 inside a successful pollutant fetch is
// a data gap the selector knows how to handle.
func classifyCycle(c *snapshot.Cycle) (*aqhi.Assessment, error) {
	if !c.Index.OK() {
		return nil, fmt.Errorf("index observation (%s): %w", c.Index.Source, aqhi.ErrMissingInput)
	}
	if !c.Pollutants.OK() {
		return nil, fmt.Errorf("pollutant observation (%s): %w", c.Pollutants.Source, aqhi.ErrMissingInput)
	}
	if !c.Trend.OK() {
		return nil, fmt.Errorf("trend series (%s): %w", c.Trend.Source, aqhi.ErrMissingInput)
	}

	return aqhi.Assess(aqhi.Input{
		IndexValue: c.Index.Observation.Value,
		PM25:       c.Pollutants.Observation.PM25,
		Series:     c.Trend.Observation,
	})
}

func fetchResult[T any](log zerolog.Logger, source string, fetch func() (*T, error)) models.Result[T] {
	start := time.Now()
	obs, err := fetch()
	metrics.UpstreamLatency.WithLabelValues(source).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.UpstreamCallsTotal.WithLabelValues(source, "error").Inc()
		log.Warn().Err(err).Str("source", source).Msg("fetch failed")
		return models.Failure[T](source, err)
	}

	metrics.UpstreamCallsTotal.WithLabelValues(source, "success").Inc()
	return models.Success(source, obs)
}

func warnFlags(log zerolog.Logger, source string, flags []string) {
	if len(flags) == 0 {
		return
	}
	log.Warn().Str("source", source).Strs("quality_flags", flags).Msg("suspicious observation")
}
