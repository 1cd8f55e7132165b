package httputil

import (
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultTimeout = 30 * time.Second
	UserAgent      = "weatherdash/1.0"
)

// NewClient returns a resty client for baseURL with the standard timeout and
// user agent. A zero timeout falls back to DefaultTimeout. Retries are left to
// the caller so each upstream can choose its own policy.
func NewClient(baseURL string, timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", UserAgent).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
}
