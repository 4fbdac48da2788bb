package plot

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Scatter plots y against x, optionally with a least-squares trend line.
type Scatter struct {
	Title  string
	XLabel string
	YLabel string
	X, Y   []float64
	Trend  bool
}

func (s Scatter) Name() string { return "scatter" }

// pointStyle renders points only, no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    4,
		DotColor:    col,
	}
}

func (s Scatter) Render(w io.Writer) error {
	if len(s.X) < 2 || len(s.X) != len(s.Y) {
		return fmt.Errorf("scatter %q needs at least 2 paired points", s.Title)
	}
	points := chart.ContinuousSeries{Name: "specimens", XValues: s.X, YValues: s.Y, Style: pointStyle(chart.ColorBlue)}
	series := []chart.Series{points}
	if s.Trend {
		series = append(series, &chart.LinearRegressionSeries{
			Name:        "linear fit",
			InnerSeries: points,
			Style:       chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 2},
		})
	}
	ch := chart.Chart{
		Title:      s.Title,
		Width:      1024,
		Height:     640,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 12, Bottom: 12}},
		XAxis:      chart.XAxis{Name: s.XLabel},
		YAxis:      chart.YAxis{Name: s.YLabel},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render scatter: %w", err)
	}
	return nil
}

// Step is one empirical CDF, optionally paired with a fitted reference curve.
type Step struct {
	Name       string
	X, Y       []float64 // sorted sample and ECDF heights
	FitX, FitY []float64 // reference CDF, drawn dashed
}

// ECDF overlays step functions of several samples.
type ECDF struct {
	Title  string
	XLabel string
	Steps  []Step
}

func (e ECDF) Name() string { return "ecdf" }

func (e ECDF) Render(w io.Writer) error {
	var series []chart.Series
	for i, st := range e.Steps {
		if len(st.X) == 0 {
			continue
		}
		col := chart.GetDefaultColor(i)
		xs, ys := stepPoints(st.X, st.Y)
		series = append(series, chart.ContinuousSeries{
			Name:    st.Name,
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: col, StrokeWidth: 2},
		})
		if len(st.FitX) > 1 {
			series = append(series, chart.ContinuousSeries{
				Name:    st.Name + " (normal fit)",
				XValues: st.FitX,
				YValues: st.FitY,
				Style:   chart.Style{StrokeColor: col, StrokeWidth: 1, StrokeDashArray: []float64{5, 4}},
			})
		}
	}
	if len(series) == 0 {
		return fmt.Errorf("ecdf %q has no samples", e.Title)
	}
	ch := chart.Chart{
		Title:      e.Title,
		Width:      1024,
		Height:     640,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 12, Bottom: 12}},
		XAxis:      chart.XAxis{Name: e.XLabel},
		YAxis:      chart.YAxis{Name: "cumulative probability", Range: &chart.ContinuousRange{Min: 0, Max: 1}},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.LegendLeft(&ch)}
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render ecdf: %w", err)
	}
	return nil
}

// stepPoints expands ECDF samples into a staircase polyline starting at 0.
func stepPoints(x, y []float64) (xs, ys []float64) {
	xs = make([]float64, 0, 2*len(x))
	ys = make([]float64, 0, 2*len(x))
	prev := 0.0
	for i := range x {
		xs = append(xs, x[i], x[i])
		ys = append(ys, prev, y[i])
		prev = y[i]
	}
	return xs, ys
}
