package api

import (
	"strconv"
	"time"

	"github.com/lox/weatherdash/internal/forecast"
	"github.com/lox/weatherdash/internal/models"
	"github.com/lox/weatherdash/internal/pipeline"
)

// clockLayout is how sunrise and sunset are shown, e.g. "06:41 AM".
const clockLayout = "03:04 PM"

// IndexData is the full page: the city selector plus, when a city was
// requested, either its dashboard or the failure message.
type IndexData struct {
	Cities    []string
	Selected  string
	Dashboard *DashboardData
	Palette   forecast.Palette
}

// DashboardData is one rendered refresh. Exactly one of Error and the
// weather fields is populated.
type DashboardData struct {
	Error string

	RunID       string
	City        string
	Description string
	IconURL     string
	Metrics     []Metric
	Sunrise     string
	Sunset      string
	Chart       ChartData
	Days        []DayCard
	FetchedAt   time.Time
}

// Metric is one labelled value in the metrics grid.
type Metric struct {
	Label string
	Value string
}

type ChartData struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

type DayCard struct {
	Date string
	Mean string
}

func newDashboardData(res *pipeline.Result) *DashboardData {
	c := res.Current
	loc := res.Location
	if loc == nil {
		loc = time.UTC
	}

	d := &DashboardData{
		RunID:       res.RunID,
		City:        title(res.City.Name),
		Description: title(c.Description),
		IconURL:     res.IconURL,
		Metrics: []Metric{
			{Label: "Temperature (°C)", Value: formatFloat(c.TemperatureC)},
			{Label: "Feels Like", Value: formatFloat(c.FeelsLikeC)},
			{Label: "Humidity (%)", Value: strconv.Itoa(c.HumidityPct)},
			{Label: "Wind Speed (m/s)", Value: formatFloat(c.WindSpeedMPS)},
			{Label: "Pressure (hPa)", Value: strconv.Itoa(c.PressureHPA)},
			{Label: "Visibility (m)", Value: strconv.Itoa(c.VisibilityM)},
			{Label: "Clouds (%)", Value: strconv.Itoa(c.CloudPct)},
		},
		Sunrise:   c.Sunrise.In(loc).Format(clockLayout),
		Sunset:    c.Sunset.In(loc).Format(clockLayout),
		Chart:     newChartData(res.Series),
		Days:      make([]DayCard, 0, len(res.Daily)),
		FetchedAt: res.FetchedAt,
	}
	for _, day := range res.Daily {
		d.Days = append(d.Days, DayCard{
			Date: day.Date.Format(time.DateOnly),
			Mean: oneDecimal(day.MeanTemperatureC),
		})
	}
	return d
}

func newChartData(series []models.SeriesPoint) ChartData {
	chart := ChartData{
		Labels: make([]string, 0, len(series)),
		Data:   make([]float64, 0, len(series)),
	}
	for _, p := range series {
		chart.Labels = append(chart.Labels, p.Time.Format("Jan 2 15:04"))
		chart.Data = append(chart.Data, p.TemperatureC)
	}
	return chart
}

// paletteFor picks the colour scheme from the current icon and the city's
// sun times.
func paletteFor(res *pipeline.Result, now time.Time) forecast.Palette {
	if res == nil || res.Current == nil {
		return forecast.DefaultPalette
	}
	c := res.Current
	condition := forecast.ConditionFromIcon(c.IconCode, c.TemperatureC)
	tod := forecast.TimeOfDayAt(now, c.Sunrise, c.Sunset, c.IconCode)
	return forecast.GetPalette(condition, tod)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WeatherResponse is the JSON form of one refresh.
type WeatherResponse struct {
	RunID       string             `json:"run_id"`
	City        string             `json:"city"`
	Country     string             `json:"country"`
	Coordinates models.Coordinates `json:"coordinates"`
	Timezone    string             `json:"timezone"`
	Current     CurrentJSON        `json:"current"`
	IconURL     string             `json:"icon_url"`
	Series      []SeriesJSON       `json:"series"`
	Daily       []DailyJSON        `json:"daily"`
	FetchedAt   time.Time          `json:"fetched_at"`
}

type CurrentJSON struct {
	Description  string    `json:"description"`
	IconCode     string    `json:"icon_code"`
	TemperatureC float64   `json:"temperature_c"`
	FeelsLikeC   float64   `json:"feels_like_c"`
	HumidityPct  int       `json:"humidity_pct"`
	WindSpeedMPS float64   `json:"wind_speed_mps"`
	PressureHPA  int       `json:"pressure_hpa"`
	VisibilityM  int       `json:"visibility_m"`
	CloudPct     int       `json:"cloud_pct"`
	Sunrise      time.Time `json:"sunrise"`
	Sunset       time.Time `json:"sunset"`
}

// SeriesJSON carries the naive forecast wall clock, so it is written
// without an offset.
type SeriesJSON struct {
	Time         string  `json:"time"`
	TemperatureC float64 `json:"temperature_c"`
}

type DailyJSON struct {
	Date             string  `json:"date"`
	MeanTemperatureC float64 `json:"mean_temperature_c"`
	Points           int     `json:"points"`
}

// NewWeatherResponse converts a pipeline result to its JSON form.
func NewWeatherResponse(res *pipeline.Result) WeatherResponse {
	c := res.Current
	loc := res.Location
	if loc == nil {
		loc = time.UTC
	}
	out := WeatherResponse{
		RunID:       res.RunID,
		City:        res.City.Name,
		Country:     res.City.Country,
		Coordinates: res.Coordinates,
		Timezone:    loc.String(),
		Current: CurrentJSON{
			Description:  c.Description,
			IconCode:     c.IconCode,
			TemperatureC: c.TemperatureC,
			FeelsLikeC:   c.FeelsLikeC,
			HumidityPct:  c.HumidityPct,
			WindSpeedMPS: c.WindSpeedMPS,
			PressureHPA:  c.PressureHPA,
			VisibilityM:  c.VisibilityM,
			CloudPct:     c.CloudPct,
			Sunrise:      c.Sunrise.In(loc),
			Sunset:       c.Sunset.In(loc),
		},
		IconURL:   res.IconURL,
		Series:    make([]SeriesJSON, 0, len(res.Series)),
		Daily:     make([]DailyJSON, 0, len(res.Daily)),
		FetchedAt: res.FetchedAt,
	}
	for _, p := range res.Series {
		out.Series = append(out.Series, SeriesJSON{
			Time:         p.Time.Format(time.DateTime),
			TemperatureC: p.TemperatureC,
		})
	}
	for _, d := range res.Daily {
		out.Daily = append(out.Daily, DailyJSON{
			Date:             d.Date.Format(time.DateOnly),
			MeanTemperatureC: d.MeanTemperatureC,
			Points:           d.Points,
		})
	}
	return out
}
