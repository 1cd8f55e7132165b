package openweather

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrLocationNotFound  = errors.New("location not found")
	ErrLocationMalformed = errors.New("location data malformed")
	ErrWeatherAPI        = errors.New("weather api error")
	ErrForecastAPI       = errors.New("forecast api error")
)

// APIError describes a failed upstream call. It unwraps to one of the
// sentinel errors above and, when present, to the underlying cause.
type APIError struct {
	Endpoint   string
	HTTPStatus int    // 0 when no response was received
	Code       string // the response's "cod" field, verbatim
	Message    string
	Err        error
	Cause      error
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %v", e.Endpoint, e.Err)
	if e.HTTPStatus != 0 {
		fmt.Fprintf(&b, " (status %d", e.HTTPStatus)
		if e.Code != "" {
			fmt.Fprintf(&b, ", cod %s", e.Code)
		}
		b.WriteString(")")
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *APIError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// envelope is the part of every OpenWeatherMap body that signals failure.
// Both fields are kept raw because their JSON types differ per endpoint:
// "cod" is a number on /weather and a string on /forecast, and "message"
// is a string on errors but a number on a successful forecast.
type envelope struct {
	Cod     json.RawMessage `json:"cod"`
	Message json.RawMessage `json:"message"`
}

func parseEnvelope(body []byte) envelope {
	var env envelope
	_ = json.Unmarshal(body, &env)
	return env
}

func (e envelope) code() string {
	return strings.Trim(strings.TrimSpace(string(e.Cod)), `"`)
}

func (e envelope) message() string {
	var s string
	if err := json.Unmarshal(e.Message, &s); err == nil {
		return s
	}
	return ""
}

// redactedError hides the API key that resty embeds in transport error URLs.
type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

func redact(err error, secret string) error {
	if err == nil || secret == "" {
		return err
	}
	msg := err.Error()
	if !strings.Contains(msg, secret) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(msg, secret, "REDACTED"), err: err}
}
