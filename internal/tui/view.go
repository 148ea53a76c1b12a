package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/neurogrowth/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.state == constants.StateLogin {
		return m.viewAuth()
	}

	var content string
	switch m.state {
	case constants.StateOverview:
		content = m.overviewModel.View()
	case constants.StateDailyLog:
		content = m.dailyLogModel.View()
	case constants.StateRoadmap:
		content = m.roadmapModel.View()
	case constants.StateAssistant:
		content = m.assistantModel.View()
	case constants.StateSimulator:
		content = m.simulatorModel.View()
	case constants.StateAdminStudents, constants.StateAdminClusters, constants.StateAdminRisk, constants.StateAdminDistribution:
		content = m.adminModel.View()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		docStyle.Render(content),
		m.help.View(m),
	)
}

func (m Model) viewHeader() string {
	var tabs []string
	for _, s := range m.tabs {
		if s == m.state {
			tabs = append(tabs, activeTabStyle.Render(s.Title()))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(s.Title()))
		}
	}
	who := m.user.Name
	if m.user.IsAdmin() {
		who += " (admin)"
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		brandStyle.Render("NeuroGrowth")+"  ",
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		"  "+userStyle.Render(who),
	)
}
