// Package plot describes the console's charts and renders them to PNG.
package plot

import (
	"fmt"
	"image/color"
	"io"
	"math"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Chart is anything the Renderer can turn into an image.
type Chart interface {
	// Name is a short file-safe identifier.
	Name() string
	Render(w io.Writer) error
}

// Series is a named sample.
type Series struct {
	Name   string
	Values []float64
}

const (
	width  = 9 * vg.Inch
	height = 6 * vg.Inch
)

// Bar is a bar chart with optional symmetric error bars.
type Bar struct {
	Title      string
	XLabel     string
	YLabel     string
	Categories []string
	Values     []float64
	Errors     []float64 // same length as Values, or nil
}

func (b Bar) Name() string { return "bar" }

// errPoints satisfies plotter.XYer and plotter.YErrorer.
type errPoints struct {
	plotter.XYs
	plotter.YErrors
}

func (b Bar) Render(w io.Writer) error {
	if len(b.Values) == 0 {
		return fmt.Errorf("bar chart %q has no values", b.Title)
	}
	p := newPlot(b.Title, b.XLabel, b.YLabel)
	bars, err := plotter.NewBarChart(plotter.Values(b.Values), vg.Points(18))
	if err != nil {
		return fmt.Errorf("bar chart: %w", err)
	}
	bars.Color = plotutil.Color(0)
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	if len(b.Errors) == len(b.Values) {
		pts := errPoints{XYs: make(plotter.XYs, len(b.Values)), YErrors: make(plotter.YErrors, len(b.Values))}
		for i, v := range b.Values {
			pts.XYs[i].X = float64(i)
			pts.XYs[i].Y = v
			pts.YErrors[i].Low = b.Errors[i]
			pts.YErrors[i].High = b.Errors[i]
		}
		eb, err := plotter.NewYErrorBars(pts)
		if err != nil {
			return fmt.Errorf("error bars: %w", err)
		}
		p.Add(eb)
	}
	p.NominalX(b.Categories...)
	p.X.Tick.Label.Rotation = math.Pi / 2
	return writePNG(p, w)
}

// Histogram overlays one translucent histogram per series.
type Histogram struct {
	Title  string
	XLabel string
	Bins   int
	Series []Series
}

func (h Histogram) Name() string { return "histogram" }

func (h Histogram) Render(w io.Writer) error {
	bins := h.Bins
	if bins <= 0 {
		bins = 10
	}
	p := newPlot(h.Title, h.XLabel, "count")
	drawn := 0
	for i, s := range h.Series {
		if len(s.Values) == 0 {
			continue
		}
		hist, err := plotter.NewHist(plotter.Values(s.Values), bins)
		if err != nil {
			return fmt.Errorf("histogram %s: %w", s.Name, err)
		}
		hist.FillColor = translucent(plotutil.Color(i), 0x80)
		hist.LineStyle.Width = vg.Length(0)
		p.Add(hist)
		p.Legend.Add(s.Name, hist)
		drawn++
	}
	if drawn == 0 {
		return fmt.Errorf("histogram %q has no values", h.Title)
	}
	p.Legend.Top = true
	return writePNG(p, w)
}

// Box draws one box plot per series along a nominal x axis.
type Box struct {
	Title  string
	XLabel string
	YLabel string
	Series []Series
}

func (b Box) Name() string { return "boxplot" }

func (b Box) Render(w io.Writer) error {
	if len(b.Series) == 0 {
		return fmt.Errorf("box plot %q has no series", b.Title)
	}
	p := newPlot(b.Title, b.XLabel, b.YLabel)
	names := make([]string, len(b.Series))
	for i, s := range b.Series {
		box, err := plotter.NewBoxPlot(vg.Points(24), float64(i), plotter.Values(s.Values))
		if err != nil {
			return fmt.Errorf("box plot %s: %w", s.Name, err)
		}
		box.FillColor = translucent(plotutil.Color(i), 0xa0)
		p.Add(box)
		names[i] = s.Name
	}
	p.NominalX(names...)
	return writePNG(p, w)
}

func newPlot(title, xlabel, ylabel string) *gplot.Plot {
	p := gplot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

func writePNG(p *gplot.Plot, w io.Writer) error {
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

func translucent(c color.Color, alpha uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: alpha}
}
