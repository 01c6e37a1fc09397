package tui

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/gravpot/internal/analysis"
	"github.com/san-kum/gravpot/internal/potential"
	"github.com/san-kum/gravpot/internal/viz"
)

const (
	radiusFactor = 1.25
	minRadius    = 1e-6
	maxRadius    = 1e6
	sparkWidth   = 40
	sparkSamples = 48
)

var axisNames = []string{"x", "y", "z"}

// Explorer evaluates a composite at r·ê, where ê is one of the coordinate
// axes. Arrow keys change r and the axis; t advances time.
type Explorer struct {
	c      *potential.Composite
	name   string
	g      float64
	dt     float64
	time   float64
	radius float64
	axis   int

	eval   analysis.Evaluation
	spark  []float64
	width  int
	height int
}

func NewExplorer(c *potential.Composite, name string, g, t0, r0, dt float64) *Explorer {
	if r0 <= 0 {
		r0 = 1
	}
	if dt == 0 {
		dt = 0.1
	}
	m := &Explorer{
		c: c, name: name, g: g, dt: dt,
		time: t0, radius: r0,
		width: 80, height: 24,
	}
	m.refresh()
	return m
}

func (m *Explorer) Init() tea.Cmd { return nil }

func (m *Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

func (m *Explorer) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return tea.Quit
	case "up", "k":
		m.radius = math.Min(m.radius*radiusFactor, maxRadius)
	case "down", "j":
		m.radius = math.Max(m.radius/radiusFactor, minRadius)
	case "right", "l":
		m.axis = (m.axis + 1) % m.c.NDim()
	case "left", "h":
		m.axis = (m.axis + m.c.NDim() - 1) % m.c.NDim()
	case "t":
		m.time += m.dt
	case "T":
		m.time -= m.dt
	case "c":
		viz.SetTheme(viz.NextTheme(viz.CurrentTheme.Name))
		return nil
	default:
		return nil
	}
	m.refresh()
	return nil
}

func (m *Explorer) Point() []float64 {
	q := make([]float64, m.c.NDim())
	q[m.axis] = m.radius
	return q
}

func (m *Explorer) Radius() float64 { return m.radius }
func (m *Explorer) Axis() int        { return m.axis }
func (m *Explorer) Time() float64    { return m.time }

func (m *Explorer) refresh() {
	m.eval = analysis.Evaluate(m.c, m.time, m.Point(), m.g)

	dir := make([]float64, m.c.NDim())
	dir[m.axis] = 1
	prof, err := analysis.RadialProfile(context.Background(), m.c, analysis.ProfileSpec{
		RMin: m.radius / 100, RMax: m.radius * 100, N: sparkSamples,
		Direction: dir, Time: m.time, G: m.g,
	})
	if err != nil {
		m.spark = nil
		return
	}
	m.spark, _ = prof.Column(analysis.ColVCirc)
}

func axisName(i int) string {
	if i < len(axisNames) {
		return axisNames[i]
	}
	return fmt.Sprintf("q%d", i)
}

func (m *Explorer) View() string {
	var sb strings.Builder

	sb.WriteString(viz.Title.Render(fmt.Sprintf("gravpot explorer  %s", m.name)))
	sb.WriteString("\n")
	sb.WriteString(viz.Subtle.Render(fmt.Sprintf("%d components in %d-D  theme %s", m.c.Len(), m.c.NDim(), viz.CurrentTheme.Name)))
	sb.WriteString("\n\n")

	sb.WriteString(viz.Metric("axis", axisName(m.axis)) + "\n")
	sb.WriteString(viz.Metric("r", fmt.Sprintf("%.4g", m.radius)) + "\n")
	sb.WriteString(viz.Metric("t", fmt.Sprintf("%.4g", m.time)) + "\n")
	sb.WriteString(viz.Separator(sparkWidth) + "\n")
	sb.WriteString(viz.Metric("Φ", fmt.Sprintf("%.6g", m.eval.Phi)) + "\n")
	sb.WriteString(viz.Metric("ρ", fmt.Sprintf("%.6g", m.eval.Rho)) + "\n")
	sb.WriteString(viz.Metric("|∇Φ|", fmt.Sprintf("%.6g", m.eval.GradNorm)) + "\n")
	sb.WriteString(viz.Metric("dΦ/dr", fmt.Sprintf("%.6g", m.eval.DPhiDr)) + "\n")
	sb.WriteString(viz.Metric("M(<r)", fmt.Sprintf("%.6g", m.eval.Mass)) + "\n")
	sb.WriteString(viz.Metric("v_c", fmt.Sprintf("%.6g", m.eval.VCirc)) + "\n\n")

	sb.WriteString(viz.MetricLabel.Render("v_c(r/100…100r)") + "\n")
	sb.WriteString(viz.SparklineChart(m.spark, sparkWidth) + "\n\n")

	sb.WriteString(viz.KeyHint.Render("↑/↓ radius  ←/→ axis  t/T time  c theme  q quit"))

	return viz.Panel.Render(sb.String())
}

func Run(m *Explorer) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
