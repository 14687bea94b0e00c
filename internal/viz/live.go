package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/liquidbridge/internal/host"
)

const (
	width           = 60
	height          = 20
	historyCapacity = 300
	maxStepsPerTick = 10000
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model is the live view of a world. The world is stepped on every tick
// until the requested duration has elapsed.
type Model struct {
	world        *host.World
	name         string
	steps        int
	stepsPerTick int
	running      bool
	done         bool
	err          error
	sample       host.Sample
	forceHistory []float64
	canvas       *Canvas
	proj         projection
}

// NewModel fixes the viewport to the scene as it is now.
func NewModel(w *host.World, name string, duration float64) Model {
	c := NewCanvas(width, height)
	lo, hi := sceneBounds(w.Particles())
	return Model{
		world:        w,
		name:         name,
		steps:        int(math.Round(duration / w.Dt())),
		stepsPerTick: 100,
		running:      true,
		sample:       w.Sample(),
		forceHistory: make([]float64, 0, historyCapacity),
		canvas:       c,
		proj:         newProjection(lo, hi, c),
	}
}

func sceneBounds(ps []host.Particle) (lo, hi mgl64.Vec2) {
	if len(ps) == 0 {
		return mgl64.Vec2{-1, -1}, mgl64.Vec2{1, 1}
	}
	lo = mgl64.Vec2{math.Inf(1), math.Inf(1)}
	hi = mgl64.Vec2{math.Inf(-1), math.Inf(-1)}
	for _, p := range ps {
		lo[0] = math.Min(lo[0], p.Position[0]-p.Radius)
		lo[1] = math.Min(lo[1], p.Position[2]-p.Radius)
		hi[0] = math.Max(hi[0], p.Position[0]+p.Radius)
		hi[1] = math.Max(hi[1], p.Position[2]+p.Radius)
	}
	// leave room to move
	pad := 0.5 * math.Max(hi[0]-lo[0], hi[1]-lo[1])
	return lo.Sub(mgl64.Vec2{pad, pad}), hi.Add(mgl64.Vec2{pad, pad})
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "+", "=":
			m.stepsPerTick = min(m.stepsPerTick*2, maxStepsPerTick)
		case "-", "_":
			m.stepsPerTick = max(m.stepsPerTick/2, 1)
		}
	case TickMsg:
		if m.running && !m.done {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) advance() {
	for i := 0; i < m.stepsPerTick; i++ {
		if m.world.Steps() >= m.steps {
			m.done = true
			break
		}
		if err := m.world.Step(); err != nil {
			m.err = err
			m.done = true
			break
		}
	}
	m.sample = m.world.Sample()
	m.forceHistory = append(m.forceHistory, m.sample.BridgeForce)
	if len(m.forceHistory) > historyCapacity {
		m.forceHistory = m.forceHistory[1:]
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.forceHistory) > 1 {
		chart := asciigraph.Plot(m.forceHistory, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("Bridge force [N]"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.4f s", m.sample.Time))
	row("Steps", fmt.Sprintf("%d (x%d)", m.sample.Step, m.stepsPerTick))
	row("Contacts", fmt.Sprintf("%d", m.sample.Contacts))
	row("Bridges", fmt.Sprintf("%d ", m.sample.Bridges)+ratioBar(m.sample.Bridges, m.sample.Contacts, 10))
	row("Bridge force", fmt.Sprintf("%.3e N", m.sample.BridgeForce))
	row("Normal force", fmt.Sprintf("%.3e N", m.sample.NormalForce))
	row("Kinetic", fmt.Sprintf("%.3e J", m.sample.KineticEnergy))
	if !math.IsInf(m.sample.MinGap, 1) {
		row("Min gap", fmt.Sprintf("%.3e m", m.sample.MinGap))
	}
	if n := m.world.ContactErrors(); n > 0 {
		row("Errors", fmt.Sprintf("%d", n))
	}

	s.WriteString(helpStyle.Render("SP:Pause +/-:Speed Q:Quit"))
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return statusFailed.Render("FAILED: " + m.err.Error())
	case m.done:
		return statusPaused.Render("DONE")
	case !m.running:
		return statusPaused.Render("PAUSED")
	}
	return statusRunning.Render("RUNNING")
}

// draw projects walls and particles onto the x-z plane. Bridged contacts
// are joined by a line between the particle centres.
func (m Model) draw() {
	m.canvas.Clear()
	ps := m.world.Particles()

	span := float64(m.canvas.Width*2+m.canvas.Height*4) / m.proj.scale
	for _, w := range m.world.Walls() {
		dir := mgl64.Vec3{-w.Normal[2], 0, w.Normal[0]}
		if dir.Len() < 1e-9 {
			continue
		}
		dir = dir.Normalize().Mul(span)
		x0, y0 := m.proj.point(w.Point.Sub(dir))
		x1, y1 := m.proj.point(w.Point.Add(dir))
		m.canvas.DrawLine(x0, y0, x1, y1)
	}

	for _, p := range ps {
		x, y := m.proj.point(p.Position)
		m.canvas.DrawCircle(x, y, m.proj.length(p.Radius))
	}

	for _, c := range m.world.Contacts() {
		if c.BridgeStatus != 1 || c.Wall {
			continue
		}
		x0, y0 := m.proj.point(ps[c.Elem1].Position)
		x1, y1 := m.proj.point(ps[c.Elem2].Position)
		m.canvas.DrawLine(x0, y0, x1, y1)
	}
}

// Run shows the live view until the user quits.
func Run(w *host.World, name string, duration float64) error {
	_, err := tea.NewProgram(NewModel(w, name, duration), tea.WithAltScreen()).Run()
	return err
}

// Snapshot draws the world as it is now, framed on the current positions.
func Snapshot(w *host.World) *Canvas {
	m := NewModel(w, "", 0)
	m.draw()
	return m.canvas
}
