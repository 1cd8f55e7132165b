package forecast

import (
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/lox/weatherdash/internal/models"
)

// ToSeries projects forecast points onto chart points, one for one and in
// input order.
func ToSeries(points []models.ForecastPoint) []models.SeriesPoint {
	series := make([]models.SeriesPoint, len(points))
	for i, p := range points {
		series[i] = models.SeriesPoint{Time: p.Timestamp, TemperatureC: p.TemperatureC}
	}
	return series
}

// ToDailySummary groups points by the calendar date of their timestamp and
// averages each group's temperature. Dates are taken from the timestamp as
// given, without any zone conversion. Output is ascending by date and the
// means are not rounded. The input slice is not modified.
func ToDailySummary(points []models.ForecastPoint) []models.DailySummary {
	if len(points) == 0 {
		return nil
	}

	type group struct {
		date  time.Time
		temps []float64
	}
	var groups []*group
	byDate := make(map[time.Time]*group)

	for _, p := range points {
		d := calendarDate(p.Timestamp)
		g, ok := byDate[d]
		if !ok {
			g = &group{date: d}
			byDate[d] = g
			groups = append(groups, g)
		}
		g.temps = append(g.temps, p.TemperatureC)
	}

	slices.SortStableFunc(groups, func(a, b *group) int {
		return a.date.Compare(b.date)
	})

	summaries := make([]models.DailySummary, 0, len(groups))
	for _, g := range groups {
		summaries = append(summaries, models.DailySummary{
			Date:             g.date,
			MeanTemperatureC: mean(g.temps),
			Points:           len(g.temps),
		})
	}
	return summaries
}

// mean returns a single value unchanged so a one-point day carries no
// floating point artefacts.
func mean(vals []float64) float64 {
	if len(vals) == 1 {
		return vals[0]
	}
	return stat.Mean(vals, nil)
}

// calendarDate truncates t to midnight of its own wall-clock date, keeping
// its location.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// RoundTenth rounds to one decimal place, half away from zero. It is a
// display helper; aggregated values are stored unrounded.
func RoundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
