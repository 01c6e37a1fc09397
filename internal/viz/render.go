package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gravpot/internal/analysis"
)

// RenderProfile charts one profile column against sample index. Radii are
// log-spaced, so the x axis is logarithmic in r. Non-finite samples are
// dropped.
func RenderProfile(prof *analysis.Profile, column string, width, height int) (string, error) {
	col, err := prof.Column(column)
	if err != nil {
		return "", err
	}
	radius, err := prof.Column(analysis.ColRadius)
	if err != nil {
		return "", err
	}

	data := make([]float64, 0, len(col))
	for _, v := range col {
		if isFinite(v) {
			data = append(data, v)
		}
	}
	if len(data) == 0 {
		return "", fmt.Errorf("column %s has no finite samples", column)
	}

	caption := fmt.Sprintf("%s  r = %.3g … %.3g (log)", column, radius[0], radius[len(radius)-1])
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	), nil
}

// RenderEvaluation formats a point evaluation as a labelled report.
func RenderEvaluation(ev analysis.Evaluation) string {
	var sb strings.Builder

	sb.WriteString(Title.Render("point evaluation"))
	sb.WriteString("\n")
	sb.WriteString(Metric("q", formatVec(ev.Q)) + "\n")
	sb.WriteString(Metric("t", fmt.Sprintf("%g", ev.Time)) + "\n")
	sb.WriteString(Separator(40) + "\n")
	sb.WriteString(Metric("Φ", fmt.Sprintf("%.6g", ev.Phi)) + "\n")
	sb.WriteString(Metric("ρ", fmt.Sprintf("%.6g", ev.Rho)) + "\n")
	sb.WriteString(Metric("∇Φ", formatVec(ev.Grad)) + "\n")
	sb.WriteString(Metric("|∇Φ|", fmt.Sprintf("%.6g", ev.GradNorm)) + "\n")
	sb.WriteString(Metric("dΦ/dr", fmt.Sprintf("%.6g", ev.DPhiDr)) + "\n")
	sb.WriteString(Metric("d²Φ/dr²", fmt.Sprintf("%.6g", ev.D2PhiDr2)) + "\n")
	sb.WriteString(Metric("M(<r)", fmt.Sprintf("%.6g", ev.Mass)) + "\n")
	sb.WriteString(Metric("v_c", fmt.Sprintf("%.6g", ev.VCirc)) + "\n")

	n := len(ev.Q)
	sb.WriteString(MetricLabel.Render("H") + "\n")
	for i := 0; i < n; i++ {
		sb.WriteString("  " + MetricValue.Render(formatVec(ev.Hess[i*n:(i+1)*n])) + "\n")
	}

	if ev.Rotated {
		sb.WriteString(Warning.Render("warning: rotated components present; H is not rotated back to the global frame"))
		sb.WriteString("\n")
	}

	return Panel.Render(strings.TrimRight(sb.String(), "\n"))
}

func formatVec(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%.4g", x)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func finiteRange(values []float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if !isFinite(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		ok = true
	}
	return lo, hi, ok
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
