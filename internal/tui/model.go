package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/neurogrowth/internal/api"
	"github.com/julianstephens/neurogrowth/internal/constants"
	"github.com/julianstephens/neurogrowth/internal/dashboard"
	"github.com/julianstephens/neurogrowth/internal/logger"
	"github.com/julianstephens/neurogrowth/internal/models"
	"github.com/julianstephens/neurogrowth/internal/session"
	"github.com/julianstephens/neurogrowth/internal/tui/components/admin"
	"github.com/julianstephens/neurogrowth/internal/tui/components/assistant"
	"github.com/julianstephens/neurogrowth/internal/tui/components/dailylog"
	"github.com/julianstephens/neurogrowth/internal/tui/components/overview"
	"github.com/julianstephens/neurogrowth/internal/tui/components/roadmap"
	"github.com/julianstephens/neurogrowth/internal/tui/components/simulator"
)

// ExpiredMessage is shown on the login screen after the backend rejects the token
const ExpiredMessage = "Your session has expired. Please log in again."

// Deps are the collaborators shared by every screen
type Deps struct {
	Session   *session.Store
	Client    *api.Client
	Dashboard *dashboard.Aggregator
	History   assistant.History
}

type Model struct {
	deps   Deps
	state  constants.SessionState
	tabs   []constants.SessionState
	keys   KeyMap
	help   help.Model
	auth   authModel
	user   models.User
	banner string

	overviewModel  overview.Model
	dailyLogModel  dailylog.Model
	roadmapModel   roadmap.Model
	assistantModel assistant.Model
	simulatorModel simulator.Model
	adminModel     admin.Model

	quitting bool
	width    int
	height   int
}

// NewModel builds the root model. A restored session skips the login screen.
func NewModel(deps Deps) Model {
	m := Model{
		deps:  deps,
		state: constants.StateLogin,
		keys:  DefaultKeyMap(),
		help:  help.New(),
		auth:  newAuth(false),
	}
	if sess, ok := deps.Session.GetSession(); ok {
		m.mountUser(sess.User)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.state == constants.StateLogin {
		return m.auth.init()
	}
	return m.initComponents()
}

// State returns the screen currently shown
func (m Model) State() constants.SessionState {
	return m.state
}

// User returns the logged in user, if any
func (m Model) User() (models.User, bool) {
	return m.user, m.user.ID != 0
}

func (m Model) ShortHelp() []key.Binding {
	if m.state == constants.StateLogin {
		return []key.Binding{m.keys.Toggle, m.keys.ForceQuit}
	}
	keys := []key.Binding{m.keys.Tab}
	if !m.textEntry() {
		keys = append(keys, m.keys.Refresh, m.keys.Quit)
	}
	keys = append(keys, m.activeKeys()...)
	return append(keys, m.keys.Help)
}

func (m Model) FullHelp() [][]key.Binding {
	if m.state == constants.StateLogin {
		return [][]key.Binding{{m.keys.Toggle, m.keys.ForceQuit}}
	}
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Help, m.keys.Logout}
	if !m.textEntry() {
		global = append(global, m.keys.Refresh, m.keys.Quit)
	}
	return [][]key.Binding{global, m.activeKeys()}
}

func (m Model) activeKeys() []key.Binding {
	switch m.state {
	case constants.StateRoadmap:
		return m.roadmapModel.Keys()
	case constants.StateAssistant:
		return m.assistantModel.Keys()
	case constants.StateSimulator:
		return m.simulatorModel.Keys()
	case constants.StateAdminStudents, constants.StateAdminClusters, constants.StateAdminRisk, constants.StateAdminDistribution:
		return m.adminModel.Keys()
	}
	return nil
}

// textEntry reports whether the active tab consumes plain letter keys
func (m Model) textEntry() bool {
	return m.state == constants.StateDailyLog || m.state == constants.StateAssistant
}

// mountUser builds the screens for the user's role
func (m *Model) mountUser(user models.User) {
	m.user = user
	if user.IsAdmin() {
		m.tabs = constants.AdminTabs
		m.adminModel = admin.New(m.deps.Client.Admin)
		m.state = constants.StateAdminStudents
		m.adminModel.SetView(m.state)
	} else {
		m.tabs = constants.StudentTabs
		m.deps.Dashboard.Reset()
		m.overviewModel = overview.New(m.deps.Dashboard, user.ID)
		m.dailyLogModel = dailylog.New(m.deps.Client.Logs, user.ID)
		m.roadmapModel = roadmap.New(m.deps.Client.Roadmaps, user)
		m.assistantModel = assistant.New(m.deps.Client.Assistant, m.deps.History, user.ID)
		m.simulatorModel = simulator.New(m.deps.Client.Predictions, user.ID)
		m.state = constants.StateOverview
	}
	m.resize()
	logger.Debug("Mounted screens", "user_id", user.ID, "role", user.Role)
}

func (m Model) initComponents() tea.Cmd {
	if m.user.IsAdmin() {
		return m.adminModel.Init()
	}
	return tea.Batch(
		m.overviewModel.Init(),
		m.dailyLogModel.Init(),
		m.roadmapModel.Init(),
		m.assistantModel.Init(),
		m.simulatorModel.Init(),
	)
}

// unmountUser tears down every screen so late responses are dropped
func (m *Model) unmountUser() {
	if m.user.ID == 0 {
		return
	}
	if m.user.IsAdmin() {
		m.adminModel.Unmount()
	} else {
		m.overviewModel.Unmount()
		m.dailyLogModel.Unmount()
		m.roadmapModel.Unmount()
		m.assistantModel.Unmount()
		m.simulatorModel.Unmount()
	}
	m.deps.Dashboard.Reset()
	m.user = models.User{}
	m.tabs = nil
}

// logout returns to the login screen with an optional banner
func (m *Model) logout(banner string) tea.Cmd {
	m.unmountUser()
	if err := m.deps.Session.ClearSession(); err != nil {
		logger.Error("Failed to clear session", "error", err)
	}
	m.state = constants.StateLogin
	m.banner = banner
	m.auth = newAuth(false)
	m.auth.setWidth(m.width)
	return m.auth.init()
}

func (m *Model) resize() {
	height := max(m.height-6, 5)
	width := max(m.width-4, 20)
	m.auth.setWidth(m.width)
	if m.user.IsAdmin() {
		m.adminModel.SetSize(width, height)
		return
	}
	if m.user.ID == 0 {
		return
	}
	m.overviewModel.SetSize(width, height)
	m.dailyLogModel.SetSize(width, height)
	m.roadmapModel.SetSize(width, height)
	m.assistantModel.SetSize(width, height)
	m.simulatorModel.SetSize(width, height)
}
