package export

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/gravpot/internal/analysis"
)

var ErrNoPoints = errors.New("export: no finite points to plot")

const (
	plotWidth  = 6 * vg.Inch
	plotHeight = 4 * vg.Inch
)

// PlotProfile draws the named columns against radius and saves the figure.
// The format follows the file extension (png, svg, pdf, eps). Non-finite
// samples are dropped.
func PlotProfile(path string, prof *analysis.Profile, columns []string, logX bool) error {
	p, err := NewProfilePlot(prof, columns, logX)
	if err != nil {
		return err
	}
	return p.Save(plotWidth, plotHeight, path)
}

func NewProfilePlot(prof *analysis.Profile, columns []string, logX bool) (*plot.Plot, error) {
	radius, err := prof.Column(analysis.ColRadius)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.X.Label.Text = "r"
	p.Legend.Top = true
	if logX {
		p.X.Scale = plot.LogScale{}
		p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	}

	if len(columns) == 1 {
		p.Y.Label.Text = columns[0]
	}

	for i, name := range columns {
		col, err := prof.Column(name)
		if err != nil {
			return nil, err
		}

		pts := finitePoints(radius, col, logX)
		if len(pts) == 0 {
			return nil, fmt.Errorf("%w: column %s", ErrNoPoints, name)
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", name, err)
		}
		line.Color = plotutil.Color(i)
		line.Dashes = plotutil.Dashes(i)

		p.Add(line)
		p.Legend.Add(name, line)
	}

	p.Add(plotter.NewGrid())
	return p, nil
}

func finitePoints(x, y []float64, logX bool) plotter.XYs {
	pts := make(plotter.XYs, 0, len(x))
	for i := range x {
		if !finite(x[i]) || !finite(y[i]) || (logX && x[i] <= 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: x[i], Y: y[i]})
	}
	return pts
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
