package overview

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/neurogrowth/internal/dashboard"
	"github.com/julianstephens/neurogrowth/internal/errors"
	"github.com/julianstephens/neurogrowth/internal/models"
	"github.com/julianstephens/neurogrowth/internal/render"
	"github.com/julianstephens/neurogrowth/internal/screen"
)

var (
	statValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f59e0b"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ef4444"))
)

// Loader refreshes the dashboard payload for a student
type Loader interface {
	Refresh(ctx context.Context, studentID int) (dashboard.Partial, error)
}

// LoadedMsg carries the outcome of a dashboard refresh
type LoadedMsg struct {
	ticket screen.Ticket
	result dashboard.Partial
	err    error
}

func (m LoadedMsg) Failure() error { return m.err }

// Dashboard returns the refreshed payload
func (m LoadedMsg) Dashboard() models.Dashboard { return m.result.Base }

type Model struct {
	loader    Loader
	studentID int
	ctrl      *screen.Controller[models.Dashboard]
	augErr    error
	viewport  viewport.Model
	spinner   spinner.Model
	width     int
	height    int
}

func New(loader Loader, studentID int) Model {
	return Model{
		loader:    loader,
		studentID: studentID,
		ctrl:      screen.New[models.Dashboard](),
		viewport:  viewport.New(0, 0),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.Load())
}

// Load starts a dashboard refresh
func (m Model) Load() tea.Cmd {
	t, ok := m.ctrl.BeginLoad()
	if !ok {
		return nil
	}
	loader, id := m.loader, m.studentID
	return func() tea.Msg {
		res, err := loader.Refresh(context.Background(), id)
		return LoadedMsg{ticket: t, result: res, err: err}
	}
}

// Unmount discards any refresh still in flight
func (m Model) Unmount() {
	m.ctrl.Unmount()
}

func (m Model) State() screen.State {
	return m.ctrl.State()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if m.ctrl.ResolveLoad(msg.ticket, msg.result.Base, msg.err) {
			m.augErr = msg.result.AugmentationErr
			m.Render()
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// Render rebuilds the viewport content from the current dashboard
func (m *Model) Render() {
	d, ok := m.ctrl.Data()
	if !ok {
		return
	}
	m.viewport.SetContent(m.content(d))
}

func (m Model) content(d models.Dashboard) string {
	width := max(m.width-4, 30)
	var sections []string

	sections = append(sections, render.Title(fmt.Sprintf("Welcome back, %s!", d.Student.FirstName())))
	if d.Student.CareerGoal != "" {
		sections[0] += render.Muted("  " + d.Student.CareerGoal)
	}

	stats := []string{
		stat("Streak", fmt.Sprintf("%d days", d.Streak)),
		stat("Logs", fmt.Sprintf("%d", d.Stats.TotalLogs)),
		stat("Avg hours", fmt.Sprintf("%.1f", d.Stats.AvgStudyHours)),
		stat("Avg mock", fmt.Sprintf("%.1f", d.Stats.AvgMockScore)),
	}
	sections = append(sections, strings.Join(stats, "   "))

	if d.LearningStyle != nil {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(d.LearningStyle.Style.Color)).Render("●")
		sections = append(sections, fmt.Sprintf("%s %s %s", dot, d.LearningStyle.Style.Name, render.Muted(d.LearningStyle.Style.Description)))
	}

	if d.Prediction != nil {
		sections = append(sections, render.PredictionSummary(*d.Prediction, width/2))
		if fi := render.FeatureImportance(d.Prediction.FeatureImportance, width); fi != "" {
			sections = append(sections, render.Title("Feature Importance")+"\n"+fi)
		}
	} else {
		sections = append(sections, render.Muted("No prediction yet. Log a few days to unlock your forecast."))
	}
	if m.augErr != nil {
		sections = append(sections, warnStyle.Render("Could not refresh prediction: "+errors.Describe(m.augErr)))
	}

	sections = append(sections, render.Title("Growth")+"\n"+render.GrowthChart(d.DailyLogs, width))
	return strings.Join(sections, "\n\n")
}

func stat(label, value string) string {
	return render.Muted(label) + " " + statValueStyle.Render(value)
}

func (m Model) View() string {
	switch m.ctrl.State() {
	case screen.Loading:
		return m.spinner.View() + " Loading dashboard..."
	case screen.Error:
		return errorStyle.Render(errors.Describe(m.ctrl.Err())) + "\n\n" + render.Muted("Press r to retry.")
	}
	return m.viewport.View()
}
