package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/lox/weatherdash/internal/models"
)

const (
	DefaultBaseURL     = "https://api.openweathermap.org"
	DefaultIconBaseURL = "https://openweathermap.org/img/wn"
	DefaultCountry     = "PK"
	DefaultTimeout     = 30 * time.Second
)

// DefaultCities is the fixed set offered in the city selector.
var DefaultCities = []string{
	"Karachi",
	"Lahore",
	"Islamabad",
	"Peshawar",
	"Multan",
	"Faisalabad",
	"Rawalpindi",
}

// ErrMissingAPIKey is fatal at startup: nothing is served without a key.
var ErrMissingAPIKey = errors.New("API key not found, set the API_KEY environment variable")

// Config is built once at startup and passed by value into every component
// that needs it. Nothing mutates it afterwards.
type Config struct {
	APIKey      string
	Country     string
	Cities      []string
	BaseURL     string
	IconBaseURL string
	Timeout     time.Duration
	Retries     uint64
	Parallel    bool
	Debug       bool
}

// Default returns a config with every optional field set. APIKey is left empty.
func Default() Config {
	return Config{
		Country:     DefaultCountry,
		Cities:      append([]string(nil), DefaultCities...),
		BaseURL:     DefaultBaseURL,
		IconBaseURL: DefaultIconBaseURL,
		Timeout:     DefaultTimeout,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if c.Country == "" {
		return errors.New("country must not be empty")
	}
	if len(c.Cities) == 0 {
		return errors.New("at least one city is required")
	}
	for _, city := range c.Cities {
		if strings.TrimSpace(city) == "" {
			return errors.New("city names must not be empty")
		}
	}
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}
	if _, err := url.ParseRequestURI(c.IconBaseURL); err != nil {
		return fmt.Errorf("parse icon base url: %w", err)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative: %s", c.Timeout)
	}
	return nil
}

// SelectableCities returns the enumerated cities paired with the configured country.
func (c Config) SelectableCities() []models.City {
	cities := make([]models.City, 0, len(c.Cities))
	for _, name := range c.Cities {
		cities = append(cities, models.City{Name: strings.TrimSpace(name), Country: c.Country})
	}
	return cities
}

// LookupCity finds a selectable city by name, ignoring case and surrounding space.
func (c Config) LookupCity(name string) (models.City, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.City{}, false
	}
	for _, city := range c.SelectableCities() {
		if strings.EqualFold(city.Name, name) {
			return city, true
		}
	}
	return models.City{}, false
}
