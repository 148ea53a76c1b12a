package simulator

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/neurogrowth/internal/api"
	"github.com/julianstephens/neurogrowth/internal/errors"
	"github.com/julianstephens/neurogrowth/internal/models"
	"github.com/julianstephens/neurogrowth/internal/render"
	"github.com/julianstephens/neurogrowth/internal/screen"
	"github.com/julianstephens/neurogrowth/internal/validation"
)

var (
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
)

// Simulator runs what-if predictions
type Simulator interface {
	Simulate(ctx context.Context, req api.SimulateRequest) (models.Prediction, error)
}

// Result is what the simulator screen shows after a run
type Result struct {
	Adjustments models.Adjustments
	Outcome     models.SimulationResult
}

// SimulatedMsg carries the outcome of a simulation
type SimulatedMsg struct {
	ticket     screen.Ticket
	adj        models.Adjustments
	prediction models.Prediction
	err        error
}

func (m SimulatedMsg) Failure() error { return m.err }

type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Decrease key.Binding
	Increase key.Binding
	Run      key.Binding
	Reset    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "prev factor"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next factor"),
		),
		Decrease: key.NewBinding(
			key.WithKeys("left", "-"),
			key.WithHelp("←/-", "decrease"),
		),
		Increase: key.NewBinding(
			key.WithKeys("right", "+", "="),
			key.WithHelp("→/+", "increase"),
		),
		Run: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "simulate"),
		),
		Reset: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "reset"),
		),
	}
}

type Model struct {
	simulator Simulator
	studentID int
	baseline  *models.Prediction
	adj       models.Adjustments
	selected  int
	ctrl      *screen.Controller[*Result]
	keys      KeyMap
	spinner   spinner.Model
	width     int
}

func New(sim Simulator, studentID int) Model {
	return Model{
		simulator: sim,
		studentID: studentID,
		adj:       models.ZeroAdjustments(),
		ctrl:      screen.NewReady[*Result](nil),
		keys:      DefaultKeyMap(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Keys() []key.Binding {
	return []key.Binding{m.keys.Up, m.keys.Down, m.keys.Decrease, m.keys.Increase, m.keys.Run, m.keys.Reset}
}

// SetBaseline sets the prediction simulated results are compared against
func (m *Model) SetBaseline(p *models.Prediction) {
	m.baseline = p
}

// Adjust moves the given factor by steps, clamped to its range
func (m *Model) Adjust(index, steps int) {
	f := models.SimulationFactors[index]
	v := m.adj[f.Key] + float64(steps)*f.Step
	v = max(f.Min, min(f.Max, v))
	m.adj[f.Key] = v
}

func (m Model) Adjustments() models.Adjustments {
	out := make(models.Adjustments, len(m.adj))
	for k, v := range m.adj {
		out[k] = v
	}
	return out
}

// Run simulates the current adjustments
func (m Model) Run() (Model, tea.Cmd) {
	adj := m.Adjustments()
	if err := validation.Adjustments(adj).Err(); err != nil {
		return m, nil
	}
	t, ok := m.ctrl.BeginSubmit()
	if !ok {
		return m, nil
	}

	sim, id := m.simulator, m.studentID
	return m, func() tea.Msg {
		p, err := sim.Simulate(context.Background(), api.SimulateRequest{StudentID: id, Adjustments: adj})
		return SimulatedMsg{ticket: t, adj: adj, prediction: p, err: err}
	}
}

func (m Model) Result() *Result {
	r, _ := m.ctrl.Data()
	return r
}

func (m Model) Submitting() bool {
	return m.ctrl.State() == screen.Submitting
}

func (m Model) Unmount() {
	m.ctrl.Unmount()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SimulatedMsg:
		var data **Result
		if msg.err == nil {
			r := &Result{
				Adjustments: msg.adj,
				Outcome:     models.NewSimulationResult(msg.prediction, m.baseline),
			}
			data = &r
		}
		m.ctrl.SettleSubmit(msg.ticket, data, msg.err)
		return m, nil

	case spinner.TickMsg:
		if !m.Submitting() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.Submitting() {
			return m, nil
		}
		n := len(models.SimulationFactors)
		switch {
		case key.Matches(msg, m.keys.Up):
			m.selected = (m.selected - 1 + n) % n
		case key.Matches(msg, m.keys.Down):
			m.selected = (m.selected + 1) % n
		case key.Matches(msg, m.keys.Decrease):
			m.Adjust(m.selected, -1)
		case key.Matches(msg, m.keys.Increase):
			m.Adjust(m.selected, 1)
		case key.Matches(msg, m.keys.Reset):
			m.adj = models.ZeroAdjustments()
			m.ctrl.Reset(nil)
		case key.Matches(msg, m.keys.Run):
			m.ctrl.DismissNotice()
			var cmd tea.Cmd
			m, cmd = m.Run()
			if cmd == nil {
				return m, nil
			}
			return m, tea.Batch(cmd, m.spinner.Tick)
		}
	}
	return m, nil
}

func (m *Model) SetSize(width, _ int) {
	m.width = width
}

func (m Model) View() string {
	width := max(m.width-4, 30)
	var b strings.Builder

	b.WriteString(render.Title("Performance Simulator") + "\n")
	b.WriteString(render.Muted("Adjust the factors to see how changes in your daily routine would affect your predicted score.") + "\n\n")

	for i, f := range models.SimulationFactors {
		v := m.adj[f.Key]
		cursor := "  "
		label := fmt.Sprintf("%-16s", f.Label)
		if i == m.selected {
			cursor = "> "
			label = selectedStyle.Render(label)
		}
		frac := (v - f.Min) / (f.Max - f.Min)
		fmt.Fprintf(&b, "%s%s %s %+g %s\n", cursor, label, render.Bar(frac, 20, "#5c7cfa"), v, f.Unit)
	}
	b.WriteString("\n")

	current := 50.0
	if m.baseline != nil {
		current = m.baseline.PredictedScore
	}
	b.WriteString(render.Muted(fmt.Sprintf("Current predicted score: %.1f", current)) + "\n\n")

	switch {
	case m.Submitting():
		b.WriteString(m.spinner.View() + " Simulating...")
	case m.Result() != nil:
		b.WriteString(render.SimulationSummary(m.Result().Outcome, width/2))
	default:
		b.WriteString(render.Muted("Press enter to run the simulation."))
	}

	if n := m.ctrl.Notice(); n != nil {
		b.WriteString("\n\n" + errorStyle.Render(errors.Describe(n)))
	}
	return b.String()
}
