// Package chart renders parameter-vs-date line charts as inline SVG
package chart

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/abelzeko/water-samples/internal/entities"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	width  = 640
	height = 360

	// ThresholdLabel names the reference line in the legend
	ThresholdLabel = "Máximo permitido"
)

var seriesColor = drawing.ColorFromHex("4682b4")

// Spec describes one chart: its title, y axis label and reference line
type Spec struct {
	Title     string
	YLabel    string
	Threshold float64
}

// PH and Chlorine are the two charts shown under the sample table
var (
	PH = Spec{
		Title:     "Valores de pH",
		YLabel:    "pH",
		Threshold: entities.MaxPH,
	}
	Chlorine = Spec{
		Title:     "Valores de Cloro (mg/L)",
		YLabel:    "mg/L",
		Threshold: entities.MaxChlorine,
	}
)

// Point is one plotted value
type Point struct {
	Date  time.Time
	Value float64
}

// Series extracts one value per record, averages values sharing a date and orders by date
func Series(records []entities.SampleRecord, value func(entities.SampleRecord) float64) []Point {
	type acc struct {
		sum float64
		n   int
	}
	byDay := make(map[time.Time]*acc)
	for _, rec := range records {
		day := time.Date(rec.Date.Year(), rec.Date.Month(), rec.Date.Day(), 0, 0, 0, 0, time.UTC)
		a, ok := byDay[day]
		if !ok {
			a = &acc{}
			byDay[day] = a
		}
		a.sum += value(rec)
		a.n++
	}

	points := make([]Point, 0, len(byDay))
	for day, a := range byDay {
		points = append(points, Point{Date: day, Value: a.sum / float64(a.n)})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points
}

// Render draws the points as a line with dot markers over a dashed red threshold line.
// Dates are placed on evenly spaced positions and labelled on the x axis.
func Render(spec Spec, points []Point) (string, error) {
	lo, hi := bounds(spec.Threshold, points)

	xMax := math.Max(float64(len(points))-0.5, 0.5)
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	ticks := []gochart.Tick{{Value: 0}}
	if len(points) > 0 {
		ticks = make([]gochart.Tick, len(points))
	}
	for i, p := range points {
		xs[i], ys[i] = float64(i), p.Value
		ticks[i] = gochart.Tick{Value: float64(i), Label: p.Date.Format(entities.DateLayout)}
	}

	series := []gochart.Series{
		gochart.ContinuousSeries{
			Name:    ThresholdLabel,
			XValues: []float64{-0.5, xMax},
			YValues: []float64{spec.Threshold, spec.Threshold},
			Style: gochart.Style{
				StrokeColor:     drawing.ColorRed,
				StrokeWidth:     2,
				StrokeDashArray: []float64{6, 4},
			},
		},
	}
	if len(points) > 0 {
		series = append(series, gochart.ContinuousSeries{
			Name:    spec.YLabel,
			XValues: xs,
			YValues: ys,
			Style: gochart.Style{
				StrokeColor: seriesColor,
				StrokeWidth: 2,
				DotColor:    seriesColor,
				DotWidth:    4,
			},
		})
	}

	graph := gochart.Chart{
		Title:  spec.Title,
		Width:  width,
		Height: height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 50, Left: 20, Right: 20, Bottom: 10},
		},
		XAxis: gochart.XAxis{
			Name:  "Fecha",
			Range: &gochart.ContinuousRange{Min: -0.5, Max: xMax},
			Ticks: ticks,
		},
		YAxis: gochart.YAxis{
			Name:  spec.YLabel,
			Range: &gochart.ContinuousRange{Min: lo, Max: hi},
		},
		Series: series,
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(gochart.SVG, &buf); err != nil {
		return "", fmt.Errorf("failed to render %s chart: %w", spec.YLabel, err)
	}
	return buf.String(), nil
}

// bounds returns the y range covering every value and the threshold, padded by a tenth
func bounds(threshold float64, points []Point) (float64, float64) {
	lo, hi := threshold, threshold
	for _, p := range points {
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
	}
	pad := math.Max((hi-lo)*0.1, 0.5)
	return lo - pad, hi + pad
}

// RenderPH draws the pH chart for a register
func RenderPH(records []entities.SampleRecord) (string, error) {
	return Render(PH, Series(records, func(r entities.SampleRecord) float64 { return r.PH }))
}

// RenderChlorine draws the chlorine chart for a register
func RenderChlorine(records []entities.SampleRecord) (string, error) {
	return Render(Chlorine, Series(records, func(r entities.SampleRecord) float64 { return r.Chlorine }))
}
