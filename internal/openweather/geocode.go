package openweather

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/lox/weatherdash/internal/models"
)

type geocodeResult struct {
	Name    string   `json:"name"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
	Country string   `json:"country"`
}

// Geocode resolves a city within a country to coordinates, taking the first
// and only result of a limit=1 lookup. Any response that is not a non-empty
// array, including transport failures, is ErrLocationNotFound; a first result
// without usable lat/lon is ErrLocationMalformed.
func (c *Client) Geocode(ctx context.Context, city, country string) (models.Coordinates, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return models.Coordinates{}, &APIError{Endpoint: EndpointGeocode, Err: ErrLocationNotFound, Message: "empty city name"}
	}

	q := city
	if country = strings.TrimSpace(country); country != "" {
		q += "," + country
	}

	resp, err := c.get(ctx, EndpointGeocode, geocodePath, map[string]string{
		"q":     q,
		"limit": "1",
	})
	if err != nil {
		return models.Coordinates{}, &APIError{Endpoint: EndpointGeocode, Err: ErrLocationNotFound, Cause: err}
	}

	body := resp.Body()
	var results []json.RawMessage
	if err := json.Unmarshal(body, &results); err != nil {
		env := parseEnvelope(body)
		return models.Coordinates{}, &APIError{
			Endpoint:   EndpointGeocode,
			HTTPStatus: resp.StatusCode(),
			Code:       env.code(),
			Message:    env.message(),
			Err:        ErrLocationNotFound,
		}
	}
	if len(results) == 0 {
		return models.Coordinates{}, &APIError{
			Endpoint:   EndpointGeocode,
			HTTPStatus: resp.StatusCode(),
			Message:    "no results for " + q,
			Err:        ErrLocationNotFound,
		}
	}

	var first geocodeResult
	if err := json.Unmarshal(results[0], &first); err != nil {
		return models.Coordinates{}, &APIError{Endpoint: EndpointGeocode, HTTPStatus: resp.StatusCode(), Err: ErrLocationMalformed, Cause: err}
	}
	if first.Lat == nil || first.Lon == nil {
		return models.Coordinates{}, &APIError{
			Endpoint:   EndpointGeocode,
			HTTPStatus: resp.StatusCode(),
			Message:    "result has no lat/lon",
			Err:        ErrLocationMalformed,
		}
	}

	coords := models.Coordinates{Latitude: *first.Lat, Longitude: *first.Lon}
	if !coords.Valid() {
		return models.Coordinates{}, &APIError{
			Endpoint:   EndpointGeocode,
			HTTPStatus: resp.StatusCode(),
			Message:    "coordinates out of range",
			Err:        ErrLocationMalformed,
		}
	}
	return coords, nil
}
