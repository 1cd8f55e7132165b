// Package pipeline runs one dashboard refresh for a city: resolve the city to
// coordinates, fetch current conditions and the forecast, then aggregate the
// forecast into chart and daily values.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lox/weatherdash/internal/config"
	"github.com/lox/weatherdash/internal/forecast"
	"github.com/lox/weatherdash/internal/metrics"
	"github.com/lox/weatherdash/internal/models"
	"github.com/lox/weatherdash/internal/openweather"
)

// ErrUnknownCity is returned for a city outside the configured set. No
// upstream request is made for it.
var ErrUnknownCity = errors.New("unknown city")

type LocationResolver interface {
	Geocode(ctx context.Context, city, country string) (models.Coordinates, error)
}

type WeatherFetcher interface {
	Current(ctx context.Context, coords models.Coordinates) (*models.CurrentConditions, error)
	IconURL(code string) string
}

type ForecastFetcher interface {
	Forecast(ctx context.Context, coords models.Coordinates) ([]models.ForecastPoint, error)
}

// ZoneResolver finds the local zone for sunrise/sunset display.
type ZoneResolver interface {
	Location(lat, lon float64) (*time.Location, error)
}

// Stage names a step of a run.
type Stage string

const (
	StageGeocode  Stage = "geocode"
	StageCurrent  Stage = "current"
	StageForecast Stage = "forecast"
)

// StageError is a failed run. Err is the stage's own error.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Result is everything the presentation layer renders for one city.
type Result struct {
	RunID       string
	City        models.City
	Coordinates models.Coordinates
	Current     *models.CurrentConditions
	IconURL     string
	Series      []models.SeriesPoint
	Daily       []models.DailySummary
	// Location is the city's zone, for displaying sunrise and sunset.
	Location  *time.Location
	FetchedAt time.Time
}

type Options struct {
	Cities []models.City
	// Parallel fetches current conditions and the forecast concurrently.
	Parallel bool
}

// OptionsFromConfig derives pipeline options from the startup config.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Cities:   cfg.SelectableCities(),
		Parallel: cfg.Parallel,
	}
}

type Pipeline struct {
	opts     Options
	resolver LocationResolver
	weather  WeatherFetcher
	forecast ForecastFetcher
	zones    ZoneResolver
	log      *zap.SugaredLogger
	now      func() time.Time
}

// New builds a pipeline. zones may be nil, in which case the upstream UTC
// offset is used for local times.
func New(opts Options, resolver LocationResolver, weather WeatherFetcher, fc ForecastFetcher, zones ZoneResolver, log *zap.SugaredLogger) *Pipeline {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Pipeline{
		opts:     opts,
		resolver: resolver,
		weather:  weather,
		forecast: fc,
		zones:    zones,
		log:      log,
		now:      time.Now,
	}
}

// Cities returns the selectable cities in configured order.
func (p *Pipeline) Cities() []models.City {
	return append([]models.City(nil), p.opts.Cities...)
}

// Lookup finds a selectable city by name, ignoring case and surrounding space.
func (p *Pipeline) Lookup(name string) (models.City, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.City{}, false
	}
	for _, c := range p.opts.Cities {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return models.City{}, false
}

// Run refreshes the dashboard data for one city. It stops at the first
// failing stage and returns a *StageError; nothing after that stage runs.
func (p *Pipeline) Run(ctx context.Context, cityName string) (*Result, error) {
	city, ok := p.Lookup(cityName)
	if !ok {
		metrics.PipelineRunsTotal.WithLabelValues("unknown", "unknown_city").Inc()
		return nil, fmt.Errorf("%w: %q", ErrUnknownCity, cityName)
	}

	runID := uuid.NewString()
	log := p.log.With("run_id", runID, "city", city.Name)
	start := time.Now()

	res, err := p.run(ctx, log, city)
	if err != nil {
		var se *StageError
		stage := "error"
		if errors.As(err, &se) {
			stage = string(se.Stage)
		}
		metrics.PipelineRunsTotal.WithLabelValues(city.Name, stage+"_failed").Inc()
		log.Warnw("pipeline run failed", "stage", stage, "duration", time.Since(start), "error", err)
		return nil, err
	}

	res.RunID = runID
	metrics.PipelineRunsTotal.WithLabelValues(city.Name, "ok").Inc()
	metrics.ForecastPointsFetched.WithLabelValues(city.Name).Add(float64(len(res.Series)))
	log.Infow("pipeline run complete",
		"duration", time.Since(start),
		"forecast_points", len(res.Series),
		"days", len(res.Daily),
		"zone", res.Location.String(),
	)
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, log *zap.SugaredLogger, city models.City) (*Result, error) {
	coords, err := p.resolver.Geocode(ctx, city.Name, city.Country)
	if err != nil {
		return nil, &StageError{Stage: StageGeocode, Err: err}
	}
	log.Debugw("resolved city", "lat", coords.Latitude, "lon", coords.Longitude)

	var (
		current *models.CurrentConditions
		points  []models.ForecastPoint
	)
	if p.opts.Parallel {
		current, points, err = p.fetchParallel(ctx, coords)
	} else {
		current, points, err = p.fetchSequential(ctx, coords)
	}
	if err != nil {
		return nil, err
	}

	return &Result{
		City:        city,
		Coordinates: coords,
		Current:     current,
		IconURL:     p.weather.IconURL(current.IconCode),
		Series:      forecast.ToSeries(points),
		Daily:       forecast.ToDailySummary(points),
		Location:    p.location(log, coords, current),
		FetchedAt:   p.now(),
	}, nil
}

func (p *Pipeline) fetchSequential(ctx context.Context, coords models.Coordinates) (*models.CurrentConditions, []models.ForecastPoint, error) {
	current, err := p.weather.Current(ctx, coords)
	if err != nil {
		return nil, nil, &StageError{Stage: StageCurrent, Err: err}
	}
	points, err := p.forecast.Forecast(ctx, coords)
	if err != nil {
		return nil, nil, &StageError{Stage: StageForecast, Err: err}
	}
	return current, points, nil
}

// fetchParallel runs both fetches to completion without cancelling the
// sibling, so the reported failure is the same one a sequential run would
// report: the weather error wins when both fail.
func (p *Pipeline) fetchParallel(ctx context.Context, coords models.Coordinates) (*models.CurrentConditions, []models.ForecastPoint, error) {
	var (
		g           errgroup.Group
		current     *models.CurrentConditions
		points      []models.ForecastPoint
		currentErr  error
		forecastErr error
	)
	g.Go(func() error {
		current, currentErr = p.weather.Current(ctx, coords)
		return currentErr
	})
	g.Go(func() error {
		points, forecastErr = p.forecast.Forecast(ctx, coords)
		return forecastErr
	})
	_ = g.Wait()

	if currentErr != nil {
		return nil, nil, &StageError{Stage: StageCurrent, Err: currentErr}
	}
	if forecastErr != nil {
		return nil, nil, &StageError{Stage: StageForecast, Err: forecastErr}
	}
	return current, points, nil
}

func (p *Pipeline) location(log *zap.SugaredLogger, coords models.Coordinates, current *models.CurrentConditions) *time.Location {
	if p.zones != nil {
		loc, err := p.zones.Location(coords.Latitude, coords.Longitude)
		if err == nil {
			return loc
		}
		log.Debugw("timezone lookup failed, using upstream offset", "error", err)
	}
	return fixedZone(current.UTCOffset)
}

func fixedZone(offset time.Duration) *time.Location {
	secs := int(offset / time.Second)
	if secs == 0 {
		return time.UTC
	}
	sign := "+"
	if secs < 0 {
		sign = "-"
		secs = -secs
	}
	name := fmt.Sprintf("UTC%s%02d:%02d", sign, secs/3600, secs%3600/60)
	if offset < 0 {
		secs = -secs
	}
	return time.FixedZone(name, secs)
}

// UserMessage is the short message shown in place of the dashboard when a
// run fails.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnknownCity):
		return "Unknown city"
	case errors.Is(err, openweather.ErrLocationNotFound):
		return "City not found!"
	case errors.Is(err, openweather.ErrLocationMalformed):
		return "Invalid location data!"
	case errors.Is(err, openweather.ErrWeatherAPI):
		return "Weather API error"
	case errors.Is(err, openweather.ErrForecastAPI):
		return "Forecast API error"
	}

	var se *StageError
	if errors.As(err, &se) {
		switch se.Stage {
		case StageGeocode:
			return "City not found!"
		case StageCurrent:
			return "Weather API error"
		case StageForecast:
			return "Forecast API error"
		}
	}
	return "Something went wrong"
}
