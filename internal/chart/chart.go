// Package chart renders the dashboard figures as PNG or SVG images.
package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var ErrNoData = errors.New("nothing to plot")

type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case PNG:
		return PNG, nil
	case SVG:
		return SVG, nil
	}
	return "", fmt.Errorf("unsupported chart format %q", s)
}

func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (f Format) provider() chart.RendererProvider {
	if f == SVG {
		return chart.SVG
	}
	return chart.PNG
}

// Slice is one labelled value of a pie or bar chart.
type Slice struct {
	Label string
	Value float64
}

var palette = []drawing.Color{
	drawing.ColorFromHex("264e86"),
	drawing.ColorFromHex("0074e4"),
	drawing.ColorFromHex("74dbef"),
	drawing.ColorFromHex("eff0f4"),
}

const (
	width  = 640
	height = 420
)

func values(slices []Slice) ([]chart.Value, error) {
	var total float64
	out := make([]chart.Value, 0, len(slices))
	for i, s := range slices {
		if s.Value < 0 {
			return nil, fmt.Errorf("negative value for %q", s.Label)
		}
		total += s.Value
		out = append(out, chart.Value{
			Label: s.Label,
			Value: s.Value,
			Style: chart.Style{
				FillColor:   palette[i%len(palette)],
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 1,
			},
		})
	}
	if len(out) == 0 || total == 0 {
		return nil, ErrNoData
	}
	return out, nil
}

func Pie(w io.Writer, f Format, title string, slices []Slice) error {
	vals, err := values(slices)
	if err != nil {
		return err
	}

	pie := chart.PieChart{
		Title:  title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 15, Right: 10, Bottom: 20},
		},
		Values: vals,
	}

	if err := pie.Render(f.provider(), w); err != nil {
		return fmt.Errorf("render pie %q: %w", title, err)
	}
	return nil
}

func Bar(w io.Writer, f Format, title string, slices []Slice) error {
	vals, err := values(slices)
	if err != nil {
		return err
	}

	var top float64
	for _, v := range vals {
		top = math.Max(top, v.Value)
	}

	barWidth := (width - 80) / len(vals) * 2 / 3
	if barWidth < 8 {
		barWidth = 8
	}

	bar := chart.BarChart{
		Title:  title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 25, Bottom: 20},
		},
		// bars start at zero, go-chart would otherwise use the smallest bar
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		BarWidth: barWidth,
		Bars:     vals,
	}

	if err := bar.Render(f.provider(), w); err != nil {
		return fmt.Errorf("render bar %q: %w", title, err)
	}
	return nil
}
