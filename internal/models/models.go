package models

import "time"

type City struct {
	Name    string
	Country string
}

// Coordinates locate a place resolved by the geocoding lookup.
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Valid reports whether the coordinates fall inside the geographic ranges.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

type CurrentConditions struct {
	Description  string
	IconCode     string
	TemperatureC float64
	FeelsLikeC   float64
	HumidityPct  int
	WindSpeedMPS float64
	PressureHPA  int
	VisibilityM  int
	CloudPct     int
	Sunrise      time.Time
	Sunset       time.Time
	UTCOffset    time.Duration // upstream "timezone" shift, fallback when no zone is found
}

// ForecastPoint is one 3-hourly sample. Timestamp holds the naive dt_txt
// wall clock in time.UTC and is never converted.
type ForecastPoint struct {
	Timestamp    time.Time
	TemperatureC float64
}

type SeriesPoint struct {
	Time         time.Time
	TemperatureC float64
}

// DailySummary is the unrounded mean temperature of every forecast point
// sharing a calendar date.
type DailySummary struct {
	Date             time.Time
	MeanTemperatureC float64
	Points           int
}
