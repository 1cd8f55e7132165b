package api

import (
	"embed"
	"html/template"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lox/weatherdash/internal/forecast"
)

//go:embed templates/*
var templateFS embed.FS

// title upper-cases the first letter of each word: "broken clouds" becomes
// "Broken Clouds". Casers hold state, so each call gets its own.
func title(s string) string {
	return cases.Title(language.English).String(s)
}

// oneDecimal formats v rounded to one decimal place.
func oneDecimal(v float64) string {
	return strconv.FormatFloat(forecast.RoundTenth(v), 'f', 1, 64)
}

// newTemplates creates and parses the HTML templates with custom functions.
func newTemplates() *template.Template {
	funcs := template.FuncMap{
		"title":  title,
		"round1": oneDecimal,
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}
