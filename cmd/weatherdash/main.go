package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	"go.uber.org/zap"

	"github.com/lox/weatherdash/internal/api"
	"github.com/lox/weatherdash/internal/config"
	"github.com/lox/weatherdash/internal/logging"
	"github.com/lox/weatherdash/internal/openweather"
	"github.com/lox/weatherdash/internal/pipeline"
	"github.com/lox/weatherdash/internal/timezone"
)

type Globals struct {
	EnvFile kongdotenv.ENVFileConfig `kong:"optional,name=env-file,default='.env',help='Path to .env file'"`

	APIKey      string        `name:"api-key" env:"API_KEY" help:"OpenWeatherMap API key."`
	Country     string        `default:"${country}" env:"COUNTRY" help:"ISO country code appended to every city lookup."`
	Cities      []string      `default:"${cities}" env:"CITIES" help:"Cities offered in the selector."`
	BaseURL     string        `name:"base-url" default:"${base_url}" env:"OWM_BASE_URL" help:"OpenWeatherMap API base URL."`
	IconBaseURL string        `name:"icon-base-url" default:"${icon_base_url}" help:"Base URL for condition icons."`
	Timeout     time.Duration `default:"${timeout}" help:"Per-request upstream timeout."`
	Retries     uint64        `default:"0" help:"Retries for failed upstream requests (0 is a single attempt)."`
	Parallel    bool          `help:"Fetch current conditions and the forecast concurrently."`
	Debug       bool          `env:"DEBUG" help:"Enable debug logging."`
}

func (g Globals) Config() config.Config {
	return config.Config{
		APIKey:      strings.TrimSpace(g.APIKey),
		Country:     g.Country,
		Cities:      g.Cities,
		BaseURL:     g.BaseURL,
		IconBaseURL: g.IconBaseURL,
		Timeout:     g.Timeout,
		Retries:     g.Retries,
		Parallel:    g.Parallel,
		Debug:       g.Debug,
	}
}

type CLI struct {
	Globals

	Serve ServeCmd `cmd:"" default:"withargs" help:"Serve the weather dashboard (default)."`
	Fetch FetchCmd `cmd:"" help:"Run one refresh for a city and print it as JSON."`
}

type app struct {
	cfg      config.Config
	log      *zap.SugaredLogger
	pipeline *pipeline.Pipeline
}

func newApp(cfg config.Config, log *zap.SugaredLogger) *app {
	client := openweather.NewClient(cfg, log.Named("openweather"))

	var zones pipeline.ZoneResolver
	if svc, err := timezone.NewService(); err != nil {
		log.Warnw("timezone lookup disabled, using upstream offsets", "error", err)
	} else {
		zones = svc
	}

	return &app{
		cfg:      cfg,
		log:      log,
		pipeline: pipeline.New(pipeline.OptionsFromConfig(cfg), client, client, client, zones, log.Named("pipeline")),
	}
}

type ServeCmd struct {
	Port string `default:"8080" env:"PORT" help:"HTTP server port."`
}

func (c *ServeCmd) Run(a *app) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.log.Infow("starting weatherdash",
		"port", c.Port,
		"country", a.cfg.Country,
		"cities", a.cfg.Cities,
		"parallel", a.cfg.Parallel,
		"retries", a.cfg.Retries,
	)
	server := api.NewServer(a.pipeline, c.Port, a.log.Named("http"))
	if err := server.Run(ctx); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	a.log.Info("shutdown complete")
	return nil
}

type FetchCmd struct {
	City string `required:"" help:"City to refresh, one of the configured cities."`
}

func (c *FetchCmd) Run(a *app) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := a.pipeline.Run(ctx, c.City)
	if err != nil {
		return fmt.Errorf("%s: %w", pipeline.UserMessage(err), err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(api.NewWeatherResponse(res))
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("weatherdash"),
		kong.Description("City weather dashboard backed by OpenWeatherMap."),
		kong.UsageOnError(),
		kong.Vars{
			"country":       config.DefaultCountry,
			"cities":        strings.Join(config.DefaultCities, ","),
			"base_url":      config.DefaultBaseURL,
			"icon_base_url": config.DefaultIconBaseURL,
			"timeout":       config.DefaultTimeout.String(),
		},
	)

	cfg := cli.Config()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "weatherdash: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.Debug)
	kctx.FatalIfErrorf(err)
	defer log.Sync()

	kctx.FatalIfErrorf(kctx.Run(newApp(cfg, log)))
}
