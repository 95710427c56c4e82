package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/eulerode/internal/ode"
)

const (
	historyCapacity = 600
	maxPlots        = 3
)

// Snapshot stores state at a specific time for replay.
type Snapshot struct {
	State  ode.State
	Time   float64
	Energy float64
}

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

type TickMsg time.Time

type Model struct {
	stepper      ode.Stepper
	energy       ode.Hamiltonian
	name         string
	stepsPerTick int
	frame        time.Duration

	running  bool
	history  []Snapshot
	playHead int
	err      error
	showHelp bool
}

// NewModel wraps a stepper. sys may implement ode.Hamiltonian, in which
// case its energy is plotted too.
func NewModel(stepper ode.Stepper, sys any, name string, stepsPerTick int) Model {
	if stepsPerTick < 1 {
		stepsPerTick = 1
	}
	m := Model{
		stepper:      stepper,
		name:         name,
		stepsPerTick: stepsPerTick,
		frame:        time.Second / 30,
		running:      true,
		history:      make([]Snapshot, 0, historyCapacity),
		playHead:     -1,
	}
	if h, ok := sys.(ode.Hamiltonian); ok {
		m.energy = h
	}
	m.record()
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.stepper.Status() != ode.StatusRunning {
			return m, nil
		}
		if m.running && m.playHead == -1 {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	for i := 0; i < m.stepsPerTick && m.stepper.Status() == ode.StatusRunning; i++ {
		if err := m.stepper.Step(); err != nil {
			m.err = err
			return
		}
		m.record()
	}
}

func (m *Model) record() {
	y := m.stepper.Y()
	snap := Snapshot{State: y, Time: m.stepper.T()}
	if m.energy != nil && len(y) > 0 {
		snap.Energy = m.energy.Energy(y)
	}
	m.history = append(m.history, snap)
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

// scrub changes the playback position in history.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

func (m Model) status() string {
	switch {
	case m.stepper.Status() == ode.StatusFailed:
		return failStyle.Render("FAILED")
	case m.stepper.Status() == ode.StatusFinished:
		return "FINISHED"
	case m.playHead != -1:
		return fmt.Sprintf("REPLAY (%.3f)", m.history[m.playHead].Time)
	case !m.running:
		return "PAUSED"
	default:
		return "RUNNING"
	}
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	s.WriteString(m.status() + "\n\n")

	snap := m.history[len(m.history)-1]
	if m.playHead != -1 {
		snap = m.history[m.playHead]
	}

	for i := 0; i < len(snap.State) && i < maxPlots; i++ {
		series := make([]float64, 0, len(m.history))
		for _, h := range m.history {
			series = append(series, h.State[i])
		}
		if len(series) > 1 {
			chart := asciigraph.Plot(series, asciigraph.Height(5), asciigraph.Width(60), asciigraph.Caption(fmt.Sprintf("x%d", i)))
			s.WriteString(graphStyle.Render(chart) + "\n")
		}
	}
	if m.energy != nil && len(m.history) > 1 {
		energy := make([]float64, len(m.history))
		for i, h := range m.history {
			energy[i] = h.Energy
		}
		chart := asciigraph.Plot(energy, asciigraph.Height(4), asciigraph.Width(60), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.4f / %g", snap.Time, m.stepper.TBound())) + "\n")
	s.WriteString(labelStyle.Render("Evals") + valueStyle.Render(fmt.Sprintf("%d", m.stepper.NFev())) + "\n")
	s.WriteString(labelStyle.Render("State") + valueStyle.Render(fmt.Sprintf("%.6g", []float64(snap.State))) + "\n")
	if m.energy != nil {
		s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.6g", snap.Energy)) + "\n")
	}
	if m.err != nil {
		s.WriteString(failStyle.Render(m.err.Error()) + "\n")
	}

	if m.showHelp {
		s.WriteString(helpStyle.Render("SP:Pause  [ ]:Time-Travel  ?:Help  Q:Quit"))
	} else {
		s.WriteString(helpStyle.Render("?:Help  Q:Quit"))
	}
	return s.String()
}

// Run starts the live view on the terminal and blocks until it quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m).Run()
	return err
}
