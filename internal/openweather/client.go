package openweather

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/lox/weatherdash/internal/config"
	"github.com/lox/weatherdash/internal/httputil"
	"github.com/lox/weatherdash/internal/metrics"
)

const (
	EndpointGeocode  = "geocode"
	EndpointCurrent  = "current"
	EndpointForecast = "forecast"

	geocodePath  = "/geo/1.0/direct"
	currentPath  = "/data/2.5/weather"
	forecastPath = "/data/2.5/forecast"

	unitsMetric = "metric"
)

// Client talks to the three OpenWeatherMap endpoints the dashboard needs.
type Client struct {
	apiKey      string
	iconBaseURL string
	retries     uint64
	http        *resty.Client
	log         *zap.SugaredLogger
}

func NewClient(cfg config.Config, log *zap.SugaredLogger) *Client {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Client{
		apiKey:      cfg.APIKey,
		iconBaseURL: strings.TrimRight(cfg.IconBaseURL, "/"),
		retries:     cfg.Retries,
		http:        httputil.NewClient(cfg.BaseURL, cfg.Timeout),
		log:         log,
	}
}

// IconURL returns the 2x icon image for an upstream icon code.
func (c *Client) IconURL(code string) string {
	if code == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s@2x.png", c.iconBaseURL, url.PathEscape(code))
}

func coordParams(lat, lon float64) map[string]string {
	return map[string]string{
		"lat":   strconv.FormatFloat(lat, 'f', -1, 64),
		"lon":   strconv.FormatFloat(lon, 'f', -1, 64),
		"units": unitsMetric,
	}
}

// get issues one GET, retrying transport failures, 429s and 5xx up to the
// configured retry count. With zero retries it is a single attempt. It only
// returns an error when no response was received at all; status handling is
// left to the endpoint, since each one reports failure differently.
func (c *Client) get(ctx context.Context, endpoint, path string, params map[string]string) (*resty.Response, error) {
	var (
		resp    *resty.Response
		lastErr error
		attempt int
	)

	operation := func() error {
		attempt++
		start := time.Now()
		r, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(params).
			SetQueryParam("appid", c.apiKey).
			Get(path)
		elapsed := time.Since(start)
		metrics.UpstreamLatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())

		if err != nil {
			metrics.UpstreamCallsTotal.WithLabelValues(endpoint, "error").Inc()
			resp, lastErr = nil, redact(err, c.apiKey)
			c.log.Debugw("upstream call failed", "endpoint", endpoint, "attempt", attempt, "duration", elapsed, "error", lastErr)
			if ctx.Err() != nil {
				return backoff.Permanent(lastErr)
			}
			return lastErr
		}

		status := r.StatusCode()
		metrics.UpstreamCallsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
		c.log.Debugw("upstream call", "endpoint", endpoint, "attempt", attempt, "status", status, "duration", elapsed, "bytes", len(r.Body()))
		resp, lastErr = r, nil

		if status == http.StatusTooManyRequests || status >= http.StatusInternalServerError {
			return fmt.Errorf("%s: status %d", endpoint, status)
		}
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.retries), ctx)
	retryErr := backoff.Retry(operation, bo)

	if resp != nil {
		return resp, nil
	}
	if lastErr != nil {
		return nil, fmt.Errorf("fetch %s: %w", endpoint, lastErr)
	}
	return nil, fmt.Errorf("fetch %s: %w", endpoint, retryErr)
}
