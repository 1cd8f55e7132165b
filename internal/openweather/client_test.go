package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/lox/weatherdash/internal/models"
	"github.com/lox/weatherdash/internal/openweather/owmtest"
)

var lahore = models.Coordinates{Latitude: 31.5656822, Longitude: 74.3141829}

func newTestClient(t *testing.T) (*Client, *owmtest.Server) {
	t.Helper()
	srv := owmtest.NewServer(t)
	return NewClient(srv.Config(), nil), srv
}

func TestGeocode(t *testing.T) {
	t.Parallel()
	c, srv := newTestClient(t)

	coords, err := c.Geocode(context.Background(), "Lahore", "PK")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if coords != lahore {
		t.Errorf("coords = %+v, want %+v", coords, lahore)
	}

	q, err := url.ParseQuery(srv.LastQuery(owmtest.GeocodePath))
	if err != nil {
		t.Fatal(err)
	}
	if got := q.Get("q"); got != "Lahore,PK" {
		t.Errorf("q = %q, want Lahore,PK", got)
	}
	if got := q.Get("limit"); got != "1" {
		t.Errorf("limit = %q, want 1", got)
	}
	if got := q.Get("appid"); got != owmtest.APIKey {
		t.Errorf("appid = %q, want %q", got, owmtest.APIKey)
	}
}

func TestGeocode_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		city   string
		status int
		body   string
		want   error
		calls  int
	}{
		{name: "empty result", city: "Atlantis", status: 200, body: `[]`, want: ErrLocationNotFound, calls: 1},
		{name: "error object", city: "Lahore", status: 401, body: `{"cod":401,"message":"Invalid API key"}`, want: ErrLocationNotFound, calls: 1},
		{name: "not json", city: "Lahore", status: 502, body: `<html>bad gateway</html>`, want: ErrLocationNotFound, calls: 1},
		{name: "missing lat", city: "Lahore", status: 200, body: `[{"name":"Lahore","lon":74.3}]`, want: ErrLocationMalformed, calls: 1},
		{name: "missing lon", city: "Lahore", status: 200, body: `[{"name":"Lahore","lat":31.5}]`, want: ErrLocationMalformed, calls: 1},
		{name: "null lat", city: "Lahore", status: 200, body: `[{"name":"Lahore","lat":null,"lon":74.3}]`, want: ErrLocationMalformed, calls: 1},
		{name: "out of range", city: "Lahore", status: 200, body: `[{"name":"Lahore","lat":131.5,"lon":74.3}]`, want: ErrLocationMalformed, calls: 1},
		{name: "first element not an object", city: "Lahore", status: 200, body: `["Lahore"]`, want: ErrLocationMalformed, calls: 1},
		{name: "empty city", city: "  ", status: 200, body: `[]`, want: ErrLocationNotFound, calls: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, srv := newTestClient(t)
			srv.Set(owmtest.GeocodePath, tt.status, tt.body)

			_, err := c.Geocode(context.Background(), tt.city, "PK")
			if !errors.Is(err, tt.want) {
				t.Fatalf("Geocode error = %v, want %v", err, tt.want)
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error %T is not *APIError", err)
			}
			if apiErr.Endpoint != EndpointGeocode {
				t.Errorf("Endpoint = %q, want %q", apiErr.Endpoint, EndpointGeocode)
			}
			if got := srv.Calls(owmtest.GeocodePath); got != tt.calls {
				t.Errorf("calls = %d, want %d", got, tt.calls)
			}
		})
	}
}

func TestCurrent(t *testing.T) {
	t.Parallel()
	c, srv := newTestClient(t)

	cur, err := c.Current(context.Background(), lahore)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}

	want := models.CurrentConditions{
		Description:  "haze",
		IconCode:     "50d",
		TemperatureC: 17.43,
		FeelsLikeC:   16.2,
		HumidityPct:  55,
		WindSpeedMPS: 2.06,
		PressureHPA:  1018,
		VisibilityM:  5000,
		CloudPct:     0,
		Sunrise:      time.Unix(1704073917, 0).UTC(),
		Sunset:       time.Unix(1704110893, 0).UTC(),
		UTCOffset:    5 * time.Hour,
	}
	if *cur != want {
		t.Errorf("Current =\n%+v\nwant\n%+v", *cur, want)
	}

	q, _ := url.ParseQuery(srv.LastQuery(owmtest.CurrentPath))
	if q.Get("units") != "metric" {
		t.Errorf("units = %q, want metric", q.Get("units"))
	}
	if q.Get("lat") != "31.5656822" || q.Get("lon") != "74.3141829" {
		t.Errorf("lat/lon = %s/%s", q.Get("lat"), q.Get("lon"))
	}
}

func TestCurrent_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
		wantMsg  string
	}{
		{name: "string success code is not success", status: 200, body: `{"cod":"200","weather":[{"icon":"01d"}]}`, wantCode: "200"},
		{name: "invalid key", status: 401, body: `{"cod":401,"message":"Invalid API key."}`, wantCode: "401", wantMsg: "Invalid API key."},
		{name: "missing cod", status: 200, body: `{"weather":[{"icon":"01d"}]}`},
		{name: "no weather entries", status: 200, body: `{"cod":200,"weather":[]}`, wantCode: "200"},
		{name: "garbage", status: 500, body: `oops`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, srv := newTestClient(t)
			srv.Set(owmtest.CurrentPath, tt.status, tt.body)

			_, err := c.Current(context.Background(), lahore)
			if !errors.Is(err, ErrWeatherAPI) {
				t.Fatalf("Current error = %v, want ErrWeatherAPI", err)
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error %T is not *APIError", err)
			}
			if apiErr.HTTPStatus != tt.status {
				t.Errorf("HTTPStatus = %d, want %d", apiErr.HTTPStatus, tt.status)
			}
			if apiErr.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", apiErr.Code, tt.wantCode)
			}
			if apiErr.Message != tt.wantMsg && tt.wantMsg != "" {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestForecast(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t)

	points, err := c.Forecast(context.Background(), lahore)
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if len(points) != 14 {
		t.Fatalf("len(points) = %d, want 14", len(points))
	}

	first := points[0]
	if want := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC); !first.Timestamp.Equal(want) {
		t.Errorf("first timestamp = %v, want %v", first.Timestamp, want)
	}
	if first.TemperatureC != 18.5 {
		t.Errorf("first temp = %v, want 18.5", first.TemperatureC)
	}
	for i := 1; i < len(points); i++ {
		if points[i].Timestamp.Before(points[i-1].Timestamp) {
			t.Errorf("points out of order at %d: %v before %v", i, points[i].Timestamp, points[i-1].Timestamp)
		}
	}
}

func TestForecast_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "numeric success code is not success", status: 200, body: `{"cod":200,"list":[]}`},
		{name: "not found", status: 404, body: `{"cod":"404","message":"city not found"}`},
		{name: "bad dt_txt", status: 200, body: `{"cod":"200","list":[{"dt_txt":"yesterday","main":{"temp":1}}]}`},
		{name: "missing temp", status: 200, body: `{"cod":"200","list":[{"dt_txt":"2024-01-01 00:00:00","main":{}}]}`},
		{name: "list not an array", status: 200, body: `{"cod":"200","list":{}}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, srv := newTestClient(t)
			srv.Set(owmtest.ForecastPath, tt.status, tt.body)

			points, err := c.Forecast(context.Background(), lahore)
			if !errors.Is(err, ErrForecastAPI) {
				t.Fatalf("Forecast error = %v, want ErrForecastAPI", err)
			}
			if points != nil {
				t.Errorf("points = %v, want nil on error", points)
			}
		})
	}
}

func TestForecast_EmptyList(t *testing.T) {
	t.Parallel()
	c, srv := newTestClient(t)
	srv.Set(owmtest.ForecastPath, 200, `{"cod":"200","message":0,"cnt":0,"list":[]}`)

	points, err := c.Forecast(context.Background(), lahore)
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if len(points) != 0 {
		t.Errorf("len(points) = %d, want 0", len(points))
	}
}

func TestSuccessPredicates(t *testing.T) {
	tests := []struct {
		cod          string
		wantCurrent  bool
		wantForecast bool
	}{
		{cod: `200`, wantCurrent: true, wantForecast: false},
		{cod: `"200"`, wantCurrent: false, wantForecast: true},
		{cod: `401`, wantCurrent: false, wantForecast: false},
		{cod: `"404"`, wantCurrent: false, wantForecast: false},
		{cod: ``, wantCurrent: false, wantForecast: false},
		{cod: `null`, wantCurrent: false, wantForecast: false},
	}

	for _, tt := range tests {
		raw := json.RawMessage(tt.cod)
		if got := currentSucceeded(raw); got != tt.wantCurrent {
			t.Errorf("currentSucceeded(%s) = %v, want %v", tt.cod, got, tt.wantCurrent)
		}
		if got := forecastSucceeded(raw); got != tt.wantForecast {
			t.Errorf("forecastSucceeded(%s) = %v, want %v", tt.cod, got, tt.wantForecast)
		}
	}
}

func TestTransportErrorRedactsKey(t *testing.T) {
	t.Parallel()
	srv := owmtest.NewServer(t)
	cfg := srv.Config()
	srv.Close()

	c := NewClient(cfg, nil)
	_, err := c.Current(context.Background(), lahore)
	if !errors.Is(err, ErrWeatherAPI) {
		t.Fatalf("Current error = %v, want ErrWeatherAPI", err)
	}
	if strings.Contains(err.Error(), owmtest.APIKey) {
		t.Errorf("error leaks API key: %v", err)
	}
}

func TestRetries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		retries   uint64
		wantCalls int
	}{
		{name: "no retries by default", retries: 0, wantCalls: 1},
		{name: "retries server errors", retries: 1, wantCalls: 2},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := owmtest.NewServer(t)
			srv.Set(owmtest.CurrentPath, http.StatusServiceUnavailable, `{"cod":503,"message":"busy"}`)
			cfg := srv.Config()
			cfg.Retries = tt.retries

			_, err := NewClient(cfg, nil).Current(context.Background(), lahore)
			if !errors.Is(err, ErrWeatherAPI) {
				t.Fatalf("Current error = %v, want ErrWeatherAPI", err)
			}
			if got := srv.Calls(owmtest.CurrentPath); got != tt.wantCalls {
				t.Errorf("calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	t.Parallel()
	srv := owmtest.NewServer(t)
	srv.Set(owmtest.CurrentPath, http.StatusUnauthorized, `{"cod":401,"message":"Invalid API key."}`)
	cfg := srv.Config()
	cfg.Retries = 3

	_, err := NewClient(cfg, nil).Current(context.Background(), lahore)
	if !errors.Is(err, ErrWeatherAPI) {
		t.Fatalf("Current error = %v, want ErrWeatherAPI", err)
	}
	if got := srv.Calls(owmtest.CurrentPath); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestIconURL(t *testing.T) {
	c, _ := newTestClient(t)
	if got, want := c.IconURL("10n"), "https://openweathermap.org/img/wn/10n@2x.png"; got != want {
		t.Errorf("IconURL = %q, want %q", got, want)
	}
	if got := c.IconURL(""); got != "" {
		t.Errorf("IconURL(\"\") = %q, want empty", got)
	}
}

func TestCoordParams(t *testing.T) {
	p := coordParams(-33.8688, 151.2093)
	if p["lat"] != "-33.8688" || p["lon"] != "151.2093" {
		t.Errorf("params = %v", p)
	}
	if p["units"] != "metric" {
		t.Errorf("units = %q, want metric", p["units"])
	}
}
