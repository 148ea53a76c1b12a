package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/neurogrowth/internal/models"
)

var taskColors = map[string]lipgloss.Color{
	"practice": colorAccent,
	"revision": colorPurple,
	"skill":    colorGreen,
	"mock":     colorAmber,
	"review":   lipgloss.Color("#3b82f6"),
}

// EmptyRoadmapMessage is shown when the student has not generated a plan
const EmptyRoadmapMessage = "No roadmap yet. Generate one to get a personalised 30-day plan."

// RoadmapSummary renders the plan headline and intensity
func RoadmapSummary(r models.Roadmap) string {
	var b strings.Builder
	b.WriteString(Title("30-Day Roadmap"))
	if r.StartDate != "" && r.EndDate != "" {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  %s to %s", r.StartDate, r.EndDate)))
	}
	b.WriteString("\n")
	if r.Summary != "" {
		b.WriteString(r.Summary + "\n")
	}
	var meta []string
	if r.LearningStyle != "" {
		meta = append(meta, labelStyle.Render("Style")+" "+r.LearningStyle)
	}
	if r.IntensityLevel != "" {
		meta = append(meta, labelStyle.Render("Intensity")+" "+r.IntensityLevel)
	}
	b.WriteString(strings.Join(meta, "   "))
	return strings.TrimRight(b.String(), "\n")
}

// WeekTabs renders the week selector with the active week highlighted
func WeekTabs(weeks, active int) string {
	tabs := make([]string, 0, weeks)
	for w := 1; w <= weeks; w++ {
		label := fmt.Sprintf(" Week %d ", w)
		if w == active {
			tabs = append(tabs, lipgloss.NewStyle().Background(colorAccent).Foreground(lipgloss.Color("255")).Bold(true).Render(label))
		} else {
			tabs = append(tabs, mutedStyle.Render(label))
		}
	}
	return strings.Join(tabs, " ")
}

// RoadmapDayCard renders a single day with its tasks
func RoadmapDayCard(d models.RoadmapDay, width int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", labelStyle.Render(fmt.Sprintf("Day %d", d.Day)), d.FocusArea)
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%gh | %d problems", d.StudyHours, d.ProblemsTarget)))
	for _, t := range d.Tasks {
		color, ok := taskColors[t.Type]
		if !ok {
			color = colorMuted
		}
		tag := lipgloss.NewStyle().Foreground(color).Render(fmt.Sprintf("[%s]", t.Type))
		fmt.Fprintf(&b, "\n%-6s %s %s", t.Time, tag, t.Task)
	}
	return cardStyle.Width(max(width-2, 20)).Render(b.String())
}

// RoadmapWeek renders the day cards, mock tests and milestone for one week
func RoadmapWeek(r models.Roadmap, week, width int) string {
	days := r.DaysInWeek(week)
	if len(days) == 0 {
		return emptyStyle.Render(fmt.Sprintf("Nothing planned for week %d.", week))
	}

	sections := make([]string, 0, len(days)+2)
	for _, d := range days {
		sections = append(sections, RoadmapDayCard(d, width))
	}

	for _, m := range r.WeeklyMilestones {
		if m.Week != week {
			continue
		}
		sections = append(sections, fmt.Sprintf("%s %s\n%s",
			labelStyle.Render("Milestone:"), m.Target,
			mutedStyle.Render(fmt.Sprintf("Focus: %s | Deliverable: %s", m.Focus, m.Deliverable))))
	}

	for _, t := range r.MockTestSchedule {
		if t.Week != week {
			continue
		}
		sections = append(sections, fmt.Sprintf("%s %s %s (%d min) %s",
			labelStyle.Render("Mock test:"), t.Date, t.Type, t.DurationMinutes,
			mutedStyle.Render(t.Focus)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// MockTestSchedule lists every scheduled mock test
func MockTestSchedule(tests []models.MockTest) string {
	if len(tests) == 0 {
		return ""
	}
	rows := []string{Title("Mock Test Schedule")}
	for _, t := range tests {
		rows = append(rows, fmt.Sprintf("W%d  %-10s  %-18s %3d min  %s",
			t.Week, t.Date, t.Type, t.DurationMinutes, mutedStyle.Render(t.Focus)))
	}
	return strings.Join(rows, "\n")
}

// SkillPlan lists the skill growth goals
func SkillPlan(goals []models.SkillGoal) string {
	if len(goals) == 0 {
		return ""
	}
	rows := []string{Title("Skill Growth Plan")}
	for _, g := range goals {
		row := fmt.Sprintf("%-22s %-6s from week %d  %s", g.Skill, g.Priority, g.StartWeek, g.Target)
		if len(g.Resources) > 0 {
			row += "\n  " + mutedStyle.Render(strings.Join(g.Resources, ", "))
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

// RevisionSchedule lists the spaced-repetition cycles
func RevisionSchedule(cycles []models.RevisionCycle) string {
	if len(cycles) == 0 {
		return ""
	}
	rows := []string{Title("Revision Cycles")}
	for _, c := range cycles {
		rows = append(rows, fmt.Sprintf("%-22s %s  %s",
			c.Subject, strings.Join(c.Dates(), " → "), mutedStyle.Render(c.Method)))
	}
	return strings.Join(rows, "\n")
}
