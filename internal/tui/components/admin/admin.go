package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/neurogrowth/internal/constants"
	"github.com/julianstephens/neurogrowth/internal/errors"
	"github.com/julianstephens/neurogrowth/internal/models"
	"github.com/julianstephens/neurogrowth/internal/render"
	"github.com/julianstephens/neurogrowth/internal/screen"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10b981"))
)

// Service is the admin side of the backend
type Service interface {
	Overview(ctx context.Context) (models.AdminOverview, error)
	Retrain(ctx context.Context) (models.RetrainResult, error)
}

// LoadedMsg carries the admin overview
type LoadedMsg struct {
	ticket   screen.Ticket
	overview models.AdminOverview
	err      error
}

func (m LoadedMsg) Failure() error { return m.err }

// RetrainedMsg carries the outcome of a retrain request
type RetrainedMsg struct {
	ticket screen.Ticket
	result models.RetrainResult
	err    error
}

func (m RetrainedMsg) Failure() error { return m.err }

type KeyMap struct {
	Retrain key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Retrain: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "retrain model"),
		),
	}
}

// Model backs all admin tabs. The active tab picks which part of the overview is shown.
type Model struct {
	service  Service
	ctrl     *screen.Controller[models.AdminOverview]
	keys     KeyMap
	view     constants.SessionState
	students table.Model
	viewport viewport.Model
	spinner  spinner.Model
	status   string
	width    int
	height   int
}

func New(service Service) Model {
	t := table.New(
		table.WithColumns(studentColumns(80)),
		table.WithFocused(true),
	)
	return Model{
		service:  service,
		ctrl:     screen.New[models.AdminOverview](),
		keys:     DefaultKeyMap(),
		view:     constants.StateAdminStudents,
		students: t,
		viewport: viewport.New(0, 0),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func studentColumns(width int) []table.Column {
	name := max((width-40)/2, 12)
	return []table.Column{
		{Title: "Name", Width: name},
		{Title: "Email", Width: name},
		{Title: "Logs", Width: 6},
		{Title: "Score", Width: 8},
		{Title: "Burnout", Width: 10},
	}
}

func studentRows(students []models.StudentSummary) []table.Row {
	rows := make([]table.Row, 0, len(students))
	for _, s := range students {
		score, risk := "-", "-"
		if p := s.LatestPrediction; p != nil {
			score = fmt.Sprintf("%.1f", p.PredictedScore)
			risk = fmt.Sprintf("%.0f%%", p.BurnoutRisk*100)
		}
		rows = append(rows, table.Row{s.Name, s.Email, fmt.Sprintf("%d", s.LogCount), score, risk})
	}
	return rows
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.Load())
}

func (m Model) Keys() []key.Binding {
	return []key.Binding{m.keys.Retrain}
}

// Load fetches every admin payload concurrently
func (m Model) Load() tea.Cmd {
	t, ok := m.ctrl.BeginLoad()
	if !ok {
		return nil
	}
	service := m.service
	return func() tea.Msg {
		ov, err := service.Overview(context.Background())
		return LoadedMsg{ticket: t, overview: ov, err: err}
	}
}

// Retrain asks the backend to retrain its models
func (m Model) Retrain() (Model, tea.Cmd) {
	t, ok := m.ctrl.BeginSubmit()
	if !ok {
		return m, nil
	}
	m.status = ""
	service := m.service
	return m, func() tea.Msg {
		res, err := service.Retrain(context.Background())
		return RetrainedMsg{ticket: t, result: res, err: err}
	}
}

// SetView selects the admin tab to render
func (m *Model) SetView(s constants.SessionState) {
	m.view = s
	m.Render()
}

func (m Model) Overview() (models.AdminOverview, bool) {
	return m.ctrl.Data()
}

func (m Model) Submitting() bool {
	return m.ctrl.State() == screen.Submitting
}

func (m Model) Unmount() {
	m.ctrl.Unmount()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if m.ctrl.ResolveLoad(msg.ticket, msg.overview, msg.err) {
			m.students.SetRows(studentRows(msg.overview.Students))
			m.Render()
		}
		return m, nil

	case RetrainedMsg:
		if !m.ctrl.SettleSubmit(msg.ticket, nil, msg.err) {
			return m, nil
		}
		if msg.err != nil {
			return m, nil
		}
		m.status = fmt.Sprintf("%s (%d students)", msg.result.Message, msg.result.StudentsUsed)
		// predictions changed, fetch fresh payloads
		return m, tea.Batch(m.Load(), m.spinner.Tick)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.ctrl.State() != screen.Ready {
			return m, nil
		}
		if key.Matches(msg, m.keys.Retrain) {
			var cmd tea.Cmd
			m, cmd = m.Retrain()
			if cmd == nil {
				return m, nil
			}
			return m, tea.Batch(cmd, m.spinner.Tick)
		}
		if m.view == constants.StateAdminStudents {
			var cmd tea.Cmd
			m.students, cmd = m.students.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.students.SetColumns(studentColumns(width))
	m.students.SetHeight(max(height-4, 5))
	m.students.SetWidth(width)
	m.viewport.Width = width
	m.viewport.Height = max(height-2, 5)
	m.Render()
}

func (m *Model) Render() {
	ov, ok := m.ctrl.Data()
	if !ok {
		return
	}
	width := max(m.width-4, 30)

	var content string
	switch m.view {
	case constants.StateAdminClusters:
		content = render.Title("Learning Pattern Clusters") + "\n" +
			render.PCAScatter(ov.Clustering.PCAData, width, max(m.height-12, 8)) + "\n\n" +
			render.ClusterLegend(ov.Clustering)
	case constants.StateAdminRisk:
		content = render.Title("Burnout Risk Heatmap") + "\n" +
			render.RiskHeatmap(ov.Risk, max(width/24, 1))
	case constants.StateAdminDistribution:
		content = render.Title("Performance Distribution") + "\n" +
			render.Distribution(ov.Distribution, width)
	}
	m.viewport.SetContent(content)
}

func (m Model) View() string {
	switch m.ctrl.State() {
	case screen.Loading:
		return m.spinner.View() + " Loading admin data..."
	case screen.Error:
		return errorStyle.Render(errors.Describe(m.ctrl.Err())) + "\n\n" + render.Muted("Press r to retry.")
	case screen.Submitting:
		return m.spinner.View() + " Retraining models..."
	}

	var b strings.Builder
	if m.status != "" {
		b.WriteString(successStyle.Render(m.status) + "\n")
	}
	if n := m.ctrl.Notice(); n != nil {
		b.WriteString(errorStyle.Render(errors.Describe(n)) + "\n")
	}

	if m.view == constants.StateAdminStudents {
		ov, _ := m.ctrl.Data()
		b.WriteString(render.Title(fmt.Sprintf("Students (%d)", len(ov.Students))) + "\n")
		b.WriteString(m.students.View())
		return b.String()
	}
	b.WriteString(m.viewport.View())
	return b.String()
}
