// Package imagegen renders the shareable PNG summary card for a city.
package imagegen

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/lox/weatherdash/internal/forecast"
	"github.com/lox/weatherdash/internal/models"
)

// Card dimensions match the Open Graph image size.
const (
	CardWidth  = 1200
	CardHeight = 630
)

const (
	margin      = 60
	chartTop    = 300
	chartBottom = 470
	maxDays     = 6
)

var (
	faceHuge  font.Face
	faceTitle font.Face
	faceBody  font.Face
	faceSmall font.Face
	fontOnce  sync.Once
	fontErr   error
)

func loadFonts() {
	fontOnce.Do(func() {
		regular, err := opentype.Parse(goregular.TTF)
		if err != nil {
			fontErr = fmt.Errorf("parse goregular: %w", err)
			return
		}
		bold, err := opentype.Parse(gobold.TTF)
		if err != nil {
			fontErr = fmt.Errorf("parse gobold: %w", err)
			return
		}

		faces := []struct {
			dst  *font.Face
			font *opentype.Font
			size float64
		}{
			{&faceHuge, regular, 120},
			{&faceTitle, bold, 48},
			{&faceBody, regular, 32},
			{&faceSmall, regular, 24},
		}
		for _, f := range faces {
			*f.dst, err = opentype.NewFace(f.font, &opentype.FaceOptions{
				Size:    f.size,
				DPI:     72,
				Hinting: font.HintingFull,
			})
			if err != nil {
				fontErr = fmt.Errorf("create %.0fpt face: %w", f.size, err)
				return
			}
		}
	})
}

// CardData is what the card shows.
type CardData struct {
	City         string
	Description  string
	TemperatureC float64
	Series       []models.SeriesPoint
	Daily        []models.DailySummary
	Palette      forecast.Palette
}

// RenderCard draws the summary card and encodes it as PNG.
func RenderCard(data CardData) ([]byte, error) {
	loadFonts()
	if fontErr != nil {
		return nil, fmt.Errorf("load fonts: %w", fontErr)
	}

	bg := parseHex(data.Palette.Background, color.RGBA{16, 18, 28, 255})
	card := parseHex(data.Palette.Card, color.RGBA{27, 30, 46, 255})
	text := parseHex(data.Palette.Text, color.RGBA{236, 236, 242, 255})
	muted := parseHex(data.Palette.TextMuted, color.RGBA{122, 127, 150, 255})
	accent := parseHex(data.Palette.Accent, color.RGBA{79, 179, 232, 255})

	img := image.NewRGBA(image.Rect(0, 0, CardWidth, CardHeight))
	drawGradient(img, bg, card)

	drawText(img, data.City, margin, 90, text, faceTitle)
	if data.Description != "" {
		drawText(img, data.Description, margin, 140, muted, faceBody)
	}
	temp := fmt.Sprintf("%s°C", strconv.FormatFloat(forecast.RoundTenth(data.TemperatureC), 'f', 1, 64))
	drawText(img, temp, margin, 270, text, faceHuge)

	drawSeries(img, data.Series, accent)
	drawDaily(img, data.Daily, text, muted)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode card: %w", err)
	}
	return buf.Bytes(), nil
}

// drawGradient fills img top to bottom, blending from top to bottom colour.
func drawGradient(img *image.RGBA, top, bottom color.RGBA) {
	h := img.Bounds().Dy()
	for y := 0; y < h; y++ {
		t := float64(y) / float64(h-1)
		row := color.RGBA{
			R: lerp(top.R, bottom.R, t),
			G: lerp(top.G, bottom.G, t),
			B: lerp(top.B, bottom.B, t),
			A: 255,
		}
		draw.Draw(img, image.Rect(0, y, img.Bounds().Dx(), y+1), image.NewUniform(row), image.Point{}, draw.Src)
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

// drawSeries fills the area under the temperature series.
func drawSeries(img *image.RGBA, series []models.SeriesPoint, col color.RGBA) {
	if len(series) < 2 {
		return
	}

	lo, hi := series[0].TemperatureC, series[0].TemperatureC
	for _, p := range series {
		lo = min(lo, p.TemperatureC)
		hi = max(hi, p.TemperatureC)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	width := float32(CardWidth - 2*margin)
	height := float32(chartBottom - chartTop)
	x := func(i int) float32 { return margin + width*float32(i)/float32(len(series)-1) }
	y := func(v float64) float32 { return chartBottom - height*float32((v-lo)/span) }

	z := vector.NewRasterizer(CardWidth, CardHeight)
	z.MoveTo(x(0), chartBottom)
	for i, p := range series {
		z.LineTo(x(i), y(p.TemperatureC))
	}
	z.LineTo(x(len(series)-1), chartBottom)
	z.ClosePath()

	fill := col
	fill.A = 160
	z.Draw(img, img.Bounds(), image.NewUniform(premultiply(fill)), image.Point{})
}

func premultiply(c color.RGBA) color.RGBA {
	a := uint16(c.A)
	return color.RGBA{
		R: uint8(uint16(c.R) * a / 255),
		G: uint8(uint16(c.G) * a / 255),
		B: uint8(uint16(c.B) * a / 255),
		A: c.A,
	}
}

// drawDaily writes one column per day along the bottom of the card.
func drawDaily(img *image.RGBA, days []models.DailySummary, text, muted color.RGBA) {
	if len(days) > maxDays {
		days = days[:maxDays]
	}
	if len(days) == 0 {
		return
	}
	col := (CardWidth - 2*margin) / maxDays
	for i, d := range days {
		left := margin + i*col
		drawText(img, d.Date.Format("Mon 2"), left, 530, muted, faceSmall)
		mean := strconv.FormatFloat(forecast.RoundTenth(d.MeanTemperatureC), 'f', 1, 64) + "°"
		drawText(img, mean, left, 580, text, faceBody)
	}
}

// drawText draws text at the given position using the specified font face.
func drawText(img *image.RGBA, text string, x, y int, col color.Color, face font.Face) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// parseHex reads "#rrggbb", returning fallback for anything else.
func parseHex(s string, fallback color.RGBA) color.RGBA {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return fallback
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fallback
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}
