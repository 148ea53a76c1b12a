package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/neurogrowth/internal/constants"
	"github.com/julianstephens/neurogrowth/internal/tui/components/admin"
	"github.com/julianstephens/neurogrowth/internal/tui/components/assistant"
	"github.com/julianstephens/neurogrowth/internal/tui/components/dailylog"
	"github.com/julianstephens/neurogrowth/internal/tui/components/overview"
	"github.com/julianstephens/neurogrowth/internal/tui/components/roadmap"
	"github.com/julianstephens/neurogrowth/internal/tui/components/simulator"
)

// failure is implemented by every component result message
type failure interface {
	Failure() error
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
	}

	if f, ok := msg.(failure); ok && m.state != constants.StateLogin {
		if m.deps.Session.HandleAuthError(f.Failure()) {
			return m, m.logout(ExpiredMessage)
		}
	}

	if m.state == constants.StateLogin {
		return m.updateAuth(msg)
	}

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case overview.LoadedMsg:
		m.overviewModel, cmd = m.overviewModel.Update(msg)
		if msg.Failure() == nil {
			d := msg.Dashboard()
			m.simulatorModel.SetBaseline(d.Prediction)
		}
		return m, cmd

	case dailylog.LoggedMsg:
		// a new log changes the prediction, refresh the dashboard
		return m, m.overviewModel.Load()

	case dailylog.SavedMsg:
		m.dailyLogModel, cmd = m.dailyLogModel.Update(msg)
		return m, cmd

	case roadmap.LoadedMsg, roadmap.GeneratedMsg:
		m.roadmapModel, cmd = m.roadmapModel.Update(msg)
		return m, cmd

	case assistant.LoadedMsg, assistant.RepliedMsg:
		m.assistantModel, cmd = m.assistantModel.Update(msg)
		return m, cmd

	case simulator.SimulatedMsg:
		m.simulatorModel, cmd = m.simulatorModel.Update(msg)
		return m, cmd

	case admin.LoadedMsg, admin.RetrainedMsg:
		m.adminModel, cmd = m.adminModel.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		return m.broadcast(msg)

	case tea.KeyMsg:
		if handled, next, cmd := m.handleKey(msg); handled {
			return next, cmd
		}
	}

	return m.updateActive(msg)
}

// handleKey processes the global bindings. Letter bindings are left to
// the form on text entry tabs.
func (m Model) handleKey(msg tea.KeyMsg) (bool, Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Tab):
		return true, m.switchTab(1), nil
	case key.Matches(msg, m.keys.ShiftTab):
		return true, m.switchTab(-1), nil
	case key.Matches(msg, m.keys.Logout):
		return true, m, m.logout("")
	}

	if m.textEntry() {
		return false, m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return true, m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return true, m, nil
	case key.Matches(msg, m.keys.Refresh):
		return true, m, m.refresh()
	}
	return false, m, nil
}

func (m Model) switchTab(step int) Model {
	if len(m.tabs) == 0 {
		return m
	}
	current := 0
	for i, s := range m.tabs {
		if s == m.state {
			current = i
			break
		}
	}
	m.state = m.tabs[(current+step+len(m.tabs))%len(m.tabs)]
	if m.user.IsAdmin() {
		m.adminModel.SetView(m.state)
	}
	return m
}

// refresh reloads the active tab unless it is mid-submission
func (m Model) refresh() tea.Cmd {
	switch m.state {
	case constants.StateOverview:
		return m.overviewModel.Init()
	case constants.StateRoadmap:
		if !m.roadmapModel.Submitting() {
			return m.roadmapModel.Init()
		}
	case constants.StateAdminStudents, constants.StateAdminClusters, constants.StateAdminRisk, constants.StateAdminDistribution:
		if !m.adminModel.Submitting() {
			return m.adminModel.Init()
		}
	}
	return nil
}

// broadcast forwards spinner ticks to every mounted screen; each spinner only
// accepts its own ticks.
func (m Model) broadcast(msg spinner.TickMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	if m.user.IsAdmin() {
		m.adminModel, cmd = m.adminModel.Update(msg)
		return m, cmd
	}
	m.overviewModel, cmd = m.overviewModel.Update(msg)
	cmds = append(cmds, cmd)
	m.dailyLogModel, cmd = m.dailyLogModel.Update(msg)
	cmds = append(cmds, cmd)
	m.roadmapModel, cmd = m.roadmapModel.Update(msg)
	cmds = append(cmds, cmd)
	m.assistantModel, cmd = m.assistantModel.Update(msg)
	cmds = append(cmds, cmd)
	m.simulatorModel, cmd = m.simulatorModel.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state {
	case constants.StateOverview:
		m.overviewModel, cmd = m.overviewModel.Update(msg)
	case constants.StateDailyLog:
		m.dailyLogModel, cmd = m.dailyLogModel.Update(msg)
	case constants.StateRoadmap:
		m.roadmapModel, cmd = m.roadmapModel.Update(msg)
	case constants.StateAssistant:
		m.assistantModel, cmd = m.assistantModel.Update(msg)
	case constants.StateSimulator:
		m.simulatorModel, cmd = m.simulatorModel.Update(msg)
	case constants.StateAdminStudents, constants.StateAdminClusters, constants.StateAdminRisk, constants.StateAdminDistribution:
		m.adminModel, cmd = m.adminModel.Update(msg)
	}
	return m, cmd
}
