package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lox/weatherdash/internal/models"
)

// ForecastTimeLayout is the layout of dt_txt. Values carry no zone.
const ForecastTimeLayout = "2006-01-02 15:04:05"

type forecastResponse struct {
	Cod  json.RawMessage `json:"cod"`
	List []struct {
		DtTxt string `json:"dt_txt"`
		Main  struct {
			Temp *float64 `json:"temp"`
		} `json:"main"`
	} `json:"list"`
}

// forecastSucceeded is the /forecast success check: cod is the string "200".
// A numeric 200 here is not success.
func forecastSucceeded(cod json.RawMessage) bool {
	var s string
	if err := json.Unmarshal(cod, &s); err != nil {
		return false
	}
	return s == "200"
}

// Forecast fetches the 5 day / 3 hour series in metric units. Points keep
// the feed's order.
func (c *Client) Forecast(ctx context.Context, coords models.Coordinates) ([]models.ForecastPoint, error) {
	resp, err := c.get(ctx, EndpointForecast, forecastPath, coordParams(coords.Latitude, coords.Longitude))
	if err != nil {
		return nil, &APIError{Endpoint: EndpointForecast, Err: ErrForecastAPI, Cause: err}
	}

	body := resp.Body()
	env := parseEnvelope(body)
	if !forecastSucceeded(env.Cod) {
		return nil, &APIError{
			Endpoint:   EndpointForecast,
			HTTPStatus: resp.StatusCode(),
			Code:       env.code(),
			Message:    env.message(),
			Err:        ErrForecastAPI,
		}
	}

	var data forecastResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &APIError{Endpoint: EndpointForecast, HTTPStatus: resp.StatusCode(), Code: env.code(), Err: ErrForecastAPI, Cause: err}
	}

	points := make([]models.ForecastPoint, 0, len(data.List))
	for i, entry := range data.List {
		ts, err := time.Parse(ForecastTimeLayout, entry.DtTxt)
		if err != nil {
			return nil, &APIError{
				Endpoint:   EndpointForecast,
				HTTPStatus: resp.StatusCode(),
				Code:       env.code(),
				Message:    fmt.Sprintf("list[%d].dt_txt=%q", i, entry.DtTxt),
				Err:        ErrForecastAPI,
				Cause:      err,
			}
		}
		if entry.Main.Temp == nil {
			return nil, &APIError{
				Endpoint:   EndpointForecast,
				HTTPStatus: resp.StatusCode(),
				Code:       env.code(),
				Message:    fmt.Sprintf("list[%d] has no main.temp", i),
				Err:        ErrForecastAPI,
			}
		}
		points = append(points, models.ForecastPoint{Timestamp: ts, TemperatureC: *entry.Main.Temp})
	}

	return points, nil
}
