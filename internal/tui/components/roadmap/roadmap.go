package roadmap

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/neurogrowth/internal/api"
	"github.com/julianstephens/neurogrowth/internal/errors"
	"github.com/julianstephens/neurogrowth/internal/models"
	"github.com/julianstephens/neurogrowth/internal/render"
	"github.com/julianstephens/neurogrowth/internal/screen"
)

const weeks = 4

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))

// Service reads and generates roadmaps
type Service interface {
	Get(ctx context.Context, studentID int) (models.Roadmap, error)
	Generate(ctx context.Context, req api.GenerateRoadmapRequest) (models.Roadmap, error)
}

// LoadedMsg carries the current roadmap, nil when none was generated yet
type LoadedMsg struct {
	ticket  screen.Ticket
	roadmap *models.Roadmap
	err     error
}

func (m LoadedMsg) Failure() error { return m.err }

// GeneratedMsg carries a freshly generated roadmap
type GeneratedMsg struct {
	ticket  screen.Ticket
	roadmap models.Roadmap
	err     error
}

func (m GeneratedMsg) Failure() error { return m.err }

type KeyMap struct {
	Generate key.Binding
	PrevWeek key.Binding
	NextWeek key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Generate: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "generate roadmap"),
		),
		PrevWeek: key.NewBinding(
			key.WithKeys("left", "["),
			key.WithHelp("←/[", "prev week"),
		),
		NextWeek: key.NewBinding(
			key.WithKeys("right", "]"),
			key.WithHelp("→/]", "next week"),
		),
	}
}

type Model struct {
	service  Service
	user     models.User
	ctrl     *screen.Controller[*models.Roadmap]
	keys     KeyMap
	week     int
	viewport viewport.Model
	spinner  spinner.Model
	width    int
	height   int
}

func New(service Service, user models.User) Model {
	return Model{
		service:  service,
		user:     user,
		ctrl:     screen.New[*models.Roadmap](),
		keys:     DefaultKeyMap(),
		week:     1,
		viewport: viewport.New(0, 0),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.Load())
}

// Keys returns the bindings shown in the help bar
func (m Model) Keys() []key.Binding {
	return []key.Binding{m.keys.Generate, m.keys.PrevWeek, m.keys.NextWeek}
}

// Load fetches the student's current roadmap. A missing roadmap is an empty
// state, not an error.
func (m Model) Load() tea.Cmd {
	t, ok := m.ctrl.BeginLoad()
	if !ok {
		return nil
	}
	service, id := m.service, m.user.ID
	return func() tea.Msg {
		r, err := service.Get(context.Background(), id)
		if api.IsNotFound(err) {
			return LoadedMsg{ticket: t}
		}
		if err != nil {
			return LoadedMsg{ticket: t, err: err}
		}
		return LoadedMsg{ticket: t, roadmap: &r}
	}
}

// Generate requests a new roadmap. The result replaces the current one.
func (m Model) Generate() (Model, tea.Cmd) {
	t, ok := m.ctrl.BeginSubmit()
	if !ok {
		return m, nil
	}

	req := api.GenerateRoadmapRequest{
		StudentID:  m.user.ID,
		TargetGPA:  m.user.TargetGPA,
		CareerGoal: m.user.CareerGoal,
	}
	service := m.service
	return m, func() tea.Msg {
		r, err := service.Generate(context.Background(), req)
		return GeneratedMsg{ticket: t, roadmap: r, err: err}
	}
}

// Roadmap returns the roadmap in view, if any
func (m Model) Roadmap() *models.Roadmap {
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
	case LoadedMsg:
		if m.ctrl.ResolveLoad(msg.ticket, msg.roadmap, msg.err) {
			m.week = 1
			m.Render()
		}
		return m, nil

	case GeneratedMsg:
		var data **models.Roadmap
		if msg.err == nil {
			r := msg.roadmap
			p := &r
			data = &p
		}
		if m.ctrl.SettleSubmit(msg.ticket, data, msg.err) && msg.err == nil {
			m.week = 1
		}
		m.Render()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.ctrl.State() != screen.Ready {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Generate):
			m.ctrl.DismissNotice()
			var cmd tea.Cmd
			m, cmd = m.Generate()
			if cmd == nil {
				return m, nil
			}
			return m, tea.Batch(cmd, m.spinner.Tick)
		case key.Matches(msg, m.keys.PrevWeek):
			if m.week > 1 {
				m.week--
				m.Render()
			}
			return m, nil
		case key.Matches(msg, m.keys.NextWeek):
			if m.week < m.weeks() {
				m.week++
				m.Render()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) weeks() int {
	if r := m.Roadmap(); r != nil && r.Weeks() > 0 {
		return r.Weeks()
	}
	return weeks
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) Render() {
	r := m.Roadmap()
	if r == nil {
		m.viewport.SetContent("")
		return
	}

	width := max(m.width-4, 30)
	sections := []string{
		render.RoadmapSummary(*r),
		render.WeekTabs(m.weeks(), m.week),
		render.RoadmapWeek(*r, m.week, width),
	}
	for _, s := range []string{
		render.MockTestSchedule(r.MockTestSchedule),
		render.SkillPlan(r.SkillGrowthPlan),
		render.RevisionSchedule(r.RevisionCycles),
	} {
		if s != "" {
			sections = append(sections, s)
		}
	}
	m.viewport.SetContent(strings.Join(sections, "\n\n"))
	m.viewport.GotoTop()
}

func (m Model) View() string {
	switch m.ctrl.State() {
	case screen.Loading:
		return m.spinner.View() + " Loading roadmap..."
	case screen.Error:
		return errorStyle.Render(errors.Describe(m.ctrl.Err())) + "\n\n" + render.Muted("Press r to retry.")
	case screen.Submitting:
		return m.spinner.View() + " Generating your personalised roadmap..."
	}

	var b strings.Builder
	if n := m.ctrl.Notice(); n != nil {
		b.WriteString(errorStyle.Render(errors.Describe(n)) + "\n\n")
	}
	if m.Roadmap() == nil {
		b.WriteString(render.Muted(render.EmptyRoadmapMessage) + "\n" + render.Muted("Press g to generate."))
		return b.String()
	}
	b.WriteString(m.viewport.View())
	return b.String()
}
