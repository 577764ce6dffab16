// Command ottawair polls Ottawa air-quality sources on an interval,
// classifies each cycle, and serves the latest result over HTTP.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"

	"github.com/clacroix/ottawair/internal/api"
	"github.com/clacroix/ottawair/internal/ingest"
	"github.com/clacroix/ottawair/internal/resilience"
	"github.com/clacroix/ottawair/internal/snapshot"
)

type cli struct {
	Port         string        `help:"HTTP server port." default:"8080" env:"OTTAWAIR_PORT"`
	PollInterval time.Duration `help:"Delay between fetch-classify cycles." default:"15m" env:"OTTAWAIR_POLL_INTERVAL"`

	Latitude  float64 `help:"Latitude of the watched point." default:"45.4215" env:"OTTAWAIR_LATITUDE"`
	Longitude float64 `help:"Longitude of the watched point." default:"-75.6972" env:"OTTAWAIR_LONGITUDE"`
	Timezone  string  `help:"IANA timezone for weather queries." default:"America/Toronto" env:"OTTAWAIR_TIMEZONE"`

	EnvCanadaURL  string `help:"Environment Canada API base URL override." env:"OTTAWAIR_ENV_CANADA_URL"`
	AirQualityURL string `help:"Air Quality Ontario base URL override." env:"OTTAWAIR_AIR_QUALITY_URL"`
	OpenMeteoURL  string `help:"Open-Meteo API base URL override." env:"OTTAWAIR_OPEN_METEO_URL"`

	LogLevel  string `help:"Log level." enum:"debug,info,warn,error" default:"info" env:"OTTAWAIR_LOG_LEVEL"`
	LogFormat string `help:"Log output format." enum:"json,console" default:"json" env:"OTTAWAIR_LOG_FORMAT"`

	Once   bool `help:"Run a single cycle, print the result, and exit."`
	NoPoll bool `help:"Disable polling (server only, for local dev)."`
}

func main() {
	var flags cli
	kong.Parse(&flags,
		kong.Name("ottawair"),
		kong.Description("Ottawa air-quality trend and risk service."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)

	log := newLogger(flags.LogLevel, flags.LogFormat)
	log.Info().
		Float64("latitude", flags.Latitude).
		Float64("longitude", flags.Longitude).
		Dur("poll_interval", flags.PollInterval).
		Msg("starting ottawair")

	aqhiClient := ingest.NewAQHIClient(
		resilience.NewClient(resilience.Config{Name: "environment-canada"}),
		flags.EnvCanadaURL, flags.Latitude, flags.Longitude,
	)
	pollutants := ingest.NewPollutantClient(
		resilience.NewClient(resilience.Config{Name: "air-quality-ontario"}),
		flags.AirQualityURL,
	)
	weather := ingest.NewWeatherClient(
		resilience.NewClient(resilience.Config{Name: "open-meteo"}),
		flags.OpenMeteoURL, flags.Latitude, flags.Longitude, flags.Timezone,
	)

	holder := snapshot.NewHolder()
	scheduler := ingest.NewScheduler(aqhiClient, pollutants, weather, holder, log, flags.PollInterval)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if flags.Once {
		os.Exit(runOnce(ctx, scheduler))
	}

	if !flags.NoPoll {
		go scheduler.Run(ctx)
	} else {
		log.Info().Msg("polling disabled")
	}

	server := api.NewServer(holder, log, flags.Port)
	log.Info().Str("port", flags.Port).Msg("starting server")
	if err := server.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server")
	}
}

// runOnce executes a single cycle and prints it to stdout. The exit
// code reflects whether classification succeeded.
func runOnce(ctx context.Context, scheduler *ingest.Scheduler) int {
	cycle := scheduler.RunCycle(ctx)

	out, err := json.MarshalIndent(cycle, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode cycle: %v\n", err)
		return 1
	}
	fmt.Println(string(out))

	if cycle.Assessment == nil {
		return 1
	}
	return 0
}

func newLogger(level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var out = zerolog.New(os.Stdout)
	if format == "console" {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	return out.Level(lvl).With().
		Timestamp().
		Str("service", "ottawair").
		Logger()
}
