package openweather

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/lox/weatherdash/internal/models"
)

type currentResponse struct {
	Cod     json.RawMessage `json:"cod"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Visibility int `json:"visibility"`
	Clouds     struct {
		All int `json:"all"`
	} `json:"clouds"`
	Sys struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
	Timezone int `json:"timezone"`
}

// currentSucceeded is the /weather success check: cod is the number 200.
// A string "200" here is not success.
func currentSucceeded(cod json.RawMessage) bool {
	var n int
	if err := json.Unmarshal(cod, &n); err != nil {
		return false
	}
	return n == http.StatusOK
}

// Current fetches current conditions in metric units.
func (c *Client) Current(ctx context.Context, coords models.Coordinates) (*models.CurrentConditions, error) {
	resp, err := c.get(ctx, EndpointCurrent, currentPath, coordParams(coords.Latitude, coords.Longitude))
	if err != nil {
		return nil, &APIError{Endpoint: EndpointCurrent, Err: ErrWeatherAPI, Cause: err}
	}

	body := resp.Body()
	env := parseEnvelope(body)
	if !currentSucceeded(env.Cod) {
		return nil, &APIError{
			Endpoint:   EndpointCurrent,
			HTTPStatus: resp.StatusCode(),
			Code:       env.code(),
			Message:    env.message(),
			Err:        ErrWeatherAPI,
		}
	}

	var data currentResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &APIError{Endpoint: EndpointCurrent, HTTPStatus: resp.StatusCode(), Code: env.code(), Err: ErrWeatherAPI, Cause: err}
	}
	if len(data.Weather) == 0 {
		return nil, &APIError{Endpoint: EndpointCurrent, HTTPStatus: resp.StatusCode(), Code: env.code(), Message: "no weather conditions", Err: ErrWeatherAPI}
	}

	return &models.CurrentConditions{
		Description:  data.Weather[0].Description,
		IconCode:     data.Weather[0].Icon,
		TemperatureC: data.Main.Temp,
		FeelsLikeC:   data.Main.FeelsLike,
		HumidityPct:  data.Main.Humidity,
		WindSpeedMPS: data.Wind.Speed,
		PressureHPA:  data.Main.Pressure,
		VisibilityM:  data.Visibility,
		CloudPct:     data.Clouds.All,
		Sunrise:      time.Unix(data.Sys.Sunrise, 0).UTC(),
		Sunset:       time.Unix(data.Sys.Sunset, 0).UTC(),
		UTCOffset:    time.Duration(data.Timezone) * time.Second,
	}, nil
}
