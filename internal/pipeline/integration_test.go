package pipeline_test

import (
	"context"
	"errors"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/lox/weatherdash/internal/openweather"
	"github.com/lox/weatherdash/internal/openweather/owmtest"
	"github.com/lox/weatherdash/internal/pipeline"
)

func newPipeline(t *testing.T, srv *owmtest.Server, parallel bool) *pipeline.Pipeline {
	t.Helper()
	cfg := srv.Config()
	cfg.Parallel = parallel
	client := openweather.NewClient(cfg, nil)
	return pipeline.New(pipeline.OptionsFromConfig(cfg), client, client, client, nil, nil)
}

func TestPipeline_Lahore(t *testing.T) {
	t.Parallel()
	for _, parallel := range []bool{false, true} {
		srv := owmtest.NewServer(t)
		p := newPipeline(t, srv, parallel)

		res, err := p.Run(context.Background(), "Lahore")
		if err != nil {
			t.Fatalf("parallel=%v: Run() error = %v", parallel, err)
		}

		if res.Current.TemperatureC != 17.43 || res.Current.Description != "haze" {
			t.Errorf("Current = %+v", res.Current)
		}
		if res.IconURL != "https://openweathermap.org/img/wn/50d@2x.png" {
			t.Errorf("IconURL = %q", res.IconURL)
		}
		if len(res.Series) != 14 {
			t.Errorf("len(Series) = %d, want 14", len(res.Series))
		}

		wantDays := []struct {
			date   time.Time
			mean   float64
			points int
		}{
			{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 16.3, 4},
			{time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 14.05, 8},
			{time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), 10.8, 2},
		}
		if len(res.Daily) != len(wantDays) {
			t.Fatalf("len(Daily) = %d, want %d", len(res.Daily), len(wantDays))
		}
		for i, want := range wantDays {
			got := res.Daily[i]
			if !got.Date.Equal(want.date) || got.Points != want.points || math.Abs(got.MeanTemperatureC-want.mean) > 1e-9 {
				t.Errorf("Daily[%d] = %+v, want %s %.2f (%d points)", i, got, want.date.Format(time.DateOnly), want.mean, want.points)
			}
		}

		_, offset := res.Current.Sunrise.In(res.Location).Zone()
		if offset != 18000 {
			t.Errorf("zone offset = %d, want 18000", offset)
		}
	}
}

func TestPipeline_CityNotFoundStopsBeforeWeather(t *testing.T) {
	t.Parallel()
	srv := owmtest.NewServer(t)
	srv.Set(owmtest.GeocodePath, http.StatusOK, `[]`)
	p := newPipeline(t, srv, false)

	_, err := p.Run(context.Background(), "Multan")
	if !errors.Is(err, openweather.ErrLocationNotFound) {
		t.Fatalf("Run() error = %v, want ErrLocationNotFound", err)
	}
	if pipeline.UserMessage(err) != "City not found!" {
		t.Errorf("UserMessage() = %q", pipeline.UserMessage(err))
	}
	if n := srv.Calls(owmtest.CurrentPath); n != 0 {
		t.Errorf("current calls = %d, want 0", n)
	}
	if n := srv.Calls(owmtest.ForecastPath); n != 0 {
		t.Errorf("forecast calls = %d, want 0", n)
	}
}

func TestPipeline_NumericForecastCodeIsFailure(t *testing.T) {
	t.Parallel()
	srv := owmtest.NewServer(t)
	srv.Set(owmtest.ForecastPath, http.StatusOK, `{"cod":200,"message":0,"cnt":0,"list":[]}`)
	p := newPipeline(t, srv, false)

	_, err := p.Run(context.Background(), "Lahore")
	if pipeline.UserMessage(err) != "Forecast API error" {
		t.Errorf("UserMessage() = %q, want Forecast API error (err %v)", pipeline.UserMessage(err), err)
	}
}

func TestPipeline_UnauthorizedWeather(t *testing.T) {
	t.Parallel()
	srv := owmtest.NewServer(t)
	srv.Set(owmtest.CurrentPath, http.StatusUnauthorized, `{"cod":401,"message":"Invalid API key."}`)
	p := newPipeline(t, srv, false)

	_, err := p.Run(context.Background(), "Lahore")
	if pipeline.UserMessage(err) != "Weather API error" {
		t.Errorf("UserMessage() = %q (err %v)", pipeline.UserMessage(err), err)
	}
	if n := srv.Calls(owmtest.ForecastPath); n != 0 {
		t.Errorf("forecast calls = %d, want 0", n)
	}
}
