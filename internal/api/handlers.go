package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/lox/weatherdash/internal/forecast"
	"github.com/lox/weatherdash/internal/imagegen"
	"github.com/lox/weatherdash/internal/openweather"
	"github.com/lox/weatherdash/internal/pipeline"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := IndexData{
		Cities:  s.cityNames(),
		Palette: forecast.DefaultPalette,
	}

	status := http.StatusOK
	if city := strings.TrimSpace(r.URL.Query().Get("city")); city != "" {
		data.Selected = city
		res, err := s.runner.Run(r.Context(), city)
		if err != nil {
			status = statusFor(err)
			data.Dashboard = &DashboardData{Error: pipeline.UserMessage(err)}
		} else {
			data.Selected = res.City.Name
			data.Dashboard = newDashboardData(res)
			data.Palette = paletteFor(res, s.now())
		}
	}

	s.render(w, status, "index.html", data)
}

func (s *Server) handleDashboardPartial(w http.ResponseWriter, r *http.Request) {
	res, err := s.runner.Run(r.Context(), r.URL.Query().Get("city"))
	if err != nil {
		s.render(w, statusFor(err), "dashboard.html", &DashboardData{Error: pipeline.UserMessage(err)})
		return
	}
	s.render(w, http.StatusOK, "dashboard.html", newDashboardData(res))
}

func (s *Server) handleAPICities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"cities": s.cityNames()})
}

func (s *Server) handleAPIWeather(w http.ResponseWriter, r *http.Request) {
	res, err := s.runner.Run(r.Context(), r.URL.Query().Get("city"))
	if err != nil {
		writeJSON(w, statusFor(err), map[string]string{"error": pipeline.UserMessage(err)})
		return
	}
	writeJSON(w, http.StatusOK, NewWeatherResponse(res))
}

func (s *Server) handleCard(w http.ResponseWriter, r *http.Request) {
	res, err := s.runner.Run(r.Context(), r.URL.Query().Get("city"))
	if err != nil {
		http.Error(w, pipeline.UserMessage(err), statusFor(err))
		return
	}

	png, err := imagegen.RenderCard(imagegen.CardData{
		City:         title(res.City.Name),
		Description:  title(res.Current.Description),
		TemperatureC: res.Current.TemperatureC,
		Series:       res.Series,
		Daily:        res.Daily,
		Palette:      paletteFor(res, s.now()),
	})
	if err != nil {
		s.log.Errorw("render card", "city", res.City.Name, "error", err)
		http.Error(w, "failed to render card", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}

// HealthStatus is the /health response.
type HealthStatus struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Cities        int    `json:"cities"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthStatus{
		Status:        "ok",
		UptimeSeconds: int64(s.now().Sub(s.started) / time.Second),
		Cities:        len(s.runner.Cities()),
	})
}

func (s *Server) cityNames() []string {
	cities := s.runner.Cities()
	names := make([]string, 0, len(cities))
	for _, c := range cities {
		names = append(names, c.Name)
	}
	return names
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		s.log.Errorw("template error", "template", name, "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusFor maps a pipeline failure to an HTTP status: bad input is the
// caller's fault, an unresolvable city is not found, anything upstream is a
// bad gateway.
func statusFor(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrUnknownCity):
		return http.StatusBadRequest
	case errors.Is(err, openweather.ErrLocationNotFound), errors.Is(err, openweather.ErrLocationMalformed):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}
