// Package chart renders the leaderboard as a PNG bar chart.
package chart

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/roach88/waterrun/internal/model"
)

// Palette colors a chart.
type Palette struct {
	Background drawing.Color
	Bar        drawing.Color
	Text       drawing.Color
}

// DefaultPalette is a light theme with water-blue bars.
var DefaultPalette = Palette{
	Background: drawing.ColorWhite,
	Bar:        drawing.Color{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	Text:       drawing.Color{R: 0x33, G: 0x33, B: 0x33, A: 0xff},
}

// Chart dimensions.
const (
	Width  = 800
	Height = 400
)

// NoDataMessage is drawn when there is nobody to chart.
const NoDataMessage = "No participants yet"

// RenderScores draws one bar per participant, in the order given.
func RenderScores(standings []model.Standing, palette Palette) ([]byte, error) {
	if len(standings) == 0 {
		return renderNoDataPlaceholder(palette)
	}

	bars := make([]chart.Value, len(standings))
	for i, s := range standings {
		bars[i] = chart.Value{
			Label: s.Name,
			Value: float64(s.Score),
			Style: chart.Style{
				FillColor:   palette.Bar,
				StrokeColor: palette.Bar,
			},
		}
	}

	graph := chart.BarChart{
		Title:  "Water run scores",
		Width:  Width,
		Height: Height,
		TitleStyle: chart.Style{
			FontColor: palette.Text,
		},
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40},
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.Style{
			FontColor: palette.Text,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{
				FontColor: palette.Text,
			},
			Range: scoreRange(standings),
		},
		BarWidth: 60,
		Bars:     bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render scores: %w", err)
	}
	return buf.Bytes(), nil
}

// scoreRange spans zero, every score, and at least one point above zero.
func scoreRange(standings []model.Standing) *chart.ContinuousRange {
	lo, hi := 0, 1
	for _, s := range standings {
		lo = min(lo, s.Score)
		hi = max(hi, s.Score)
	}
	return &chart.ContinuousRange{Min: float64(lo), Max: float64(hi)}
}

func renderNoDataPlaceholder(palette Palette) ([]byte, error) {
	graph := chart.Chart{
		Width:  Width / 2,
		Height: Height / 2,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, _ chart.Style) {
				r.SetFontColor(palette.Text)
				r.SetFontSize(12.0)
				tb := r.MeasureText(NoDataMessage)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(NoDataMessage, x, y)
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render placeholder: %w", err)
	}
	return buf.Bytes(), nil
}
