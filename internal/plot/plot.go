// Package plot renders analysis results as PNG charts.
package plot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"sp3clock/internal/clock"
	"sp3clock/internal/model"
)

// Kind selects one of the charts of a result.
type Kind string

const (
	Detrended Kind = "detrended"
	Dedrifted Kind = "dedrifted"
	Frequency Kind = "frequency"
	ADEV      Kind = "adev"
)

// Kinds lists every chart in render order.
var Kinds = []Kind{Detrended, Dedrifted, Frequency, ADEV}

const (
	Width  = 10 * vg.Inch
	Height = 5 * vg.Inch

	// ContentType is the MIME type written by Render.
	ContentType = "image/png"
)

var (
	ErrUnknownKind = errors.New("unknown plot kind")
	ErrNoData      = errors.New("nothing to plot")
)

// ParseKind accepts a chart name case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range Kinds {
		if k == v {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Render draws one chart with a line per satellite and writes it as PNG.
// Phase charts are scaled to unit.
func Render(w io.Writer, res *model.AnalysisResult, kind Kind, unit clock.Unit) error {
	p, err := build(res, kind, unit)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(Width, Height, "png")
	if err != nil {
		return fmt.Errorf("render %s: %w", kind, err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// WriteDir renders every chart into dir as <kind>.png and returns the paths.
// Charts without data are skipped.
func WriteDir(dir string, res *model.AnalysisResult, unit clock.Unit) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	var out []string
	for _, k := range Kinds {
		path := filepath.Join(dir, string(k)+".png")
		if err := writeFile(path, res, k, unit); err != nil {
			if errors.Is(err, ErrNoData) {
				continue
			}
			return out, err
		}
		out = append(out, path)
	}
	return out, nil
}

func writeFile(path string, res *model.AnalysisResult, kind Kind, unit clock.Unit) (err error) {
	p, err := build(res, kind, unit)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	wt, err := p.WriterTo(Width, Height, "png")
	if err != nil {
		return fmt.Errorf("render %s: %w", kind, err)
	}
	_, err = wt.WriteTo(f)
	return err
}

func build(res *model.AnalysisResult, kind Kind, unit clock.Unit) (*gplot.Plot, error) {
	if res == nil {
		return nil, ErrNoData
	}
	p := gplot.New()
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	span := fmt.Sprintf("%s to %s", res.Analysis.Start.Format(time.DateOnly), res.Analysis.End.Format(time.DateOnly))
	switch kind {
	case Detrended, Dedrifted:
		p.Title.Text = fmt.Sprintf("Clock offset, %s removed (%s)", trendName(kind), span)
		p.X.Label.Text = "UTC"
		p.X.Tick.Marker = gplot.TimeTicks{Format: "01-02 15:04"}
		p.Y.Label.Text = "Offset, " + unit.Label()
	case Frequency:
		p.Title.Text = fmt.Sprintf("Fractional frequency offset (%s)", span)
		p.X.Label.Text = "UTC"
		p.X.Tick.Marker = gplot.TimeTicks{Format: "01-02 15:04"}
		p.Y.Label.Text = "y"
	case ADEV:
		p.Title.Text = fmt.Sprintf("Overlapping Allan deviation (%s)", span)
		p.X.Label.Text = "Tau, s"
		p.Y.Label.Text = "ADEV"
		p.X.Scale = gplot.LogScale{}
		p.Y.Scale = gplot.LogScale{}
		p.X.Tick.Marker = gplot.LogTicks{Prec: -1}
		p.Y.Tick.Marker = gplot.LogTicks{Prec: -1}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	lines := 0
	for i, sat := range res.Satellites {
		xys := points(sat, kind, unit)
		if len(xys) < 2 {
			continue
		}
		l, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sat.Satellite, err)
		}
		l.Color = plotutil.Color(i)
		p.Add(l)
		p.Legend.Add(sat.Satellite, l)
		lines++
	}
	if lines == 0 {
		return nil, ErrNoData
	}
	return p, nil
}

func trendName(k Kind) string {
	if k == Dedrifted {
		return "quadratic"
	}
	return "linear"
}

// points extracts the series of one satellite. Non-positive ADEV values
// cannot sit on a log axis and are dropped.
func points(sat model.SatelliteResult, kind Kind, unit clock.Unit) plotter.XYs {
	switch kind {
	case Detrended, Dedrifted:
		ys := sat.Detrended
		if kind == Dedrifted {
			ys = sat.Dedrifted
		}
		return timeSeries(sat.Times, unit.Scale(ys))
	case Frequency:
		return timeSeries(sat.FrequencyTime, sat.Frequency)
	case ADEV:
		out := make(plotter.XYs, 0, len(sat.ADEV))
		for _, a := range sat.ADEV {
			if a.Tau > 0 && a.Dev > 0 {
				out = append(out, plotter.XY{X: a.Tau, Y: a.Dev})
			}
		}
		return out
	}
	return nil
}

func timeSeries(ts []time.Time, ys []float64) plotter.XYs {
	n := min(len(ts), len(ys))
	out := make(plotter.XYs, n)
	for i := 0; i < n; i++ {
		out[i] = plotter.XY{X: float64(ts[i].UnixNano()) / 1e9, Y: ys[i]}
	}
	return out
}
