package render

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/neurogrowth/internal/models"
)

// EmptyGrowthMessage is shown when a student has no logs yet
const EmptyGrowthMessage = "No data yet. Start logging to see your growth!"

// GrowthPoint is one day of the growth chart
type GrowthPoint struct {
	Day        string
	Score      float64
	Hours      float64
	Problems   int
	Confidence int
}

// GrowthSeries turns newest-first logs into chronological chart points
func GrowthSeries(logs []models.DailyLog) []GrowthPoint {
	points := make([]GrowthPoint, 0, len(logs))
	for i := len(logs) - 1; i >= 0; i-- {
		l := logs[i]
		day := l.Date
		if day == "" {
			day = fmt.Sprintf("Day %d", len(points)+1)
		}
		points = append(points, GrowthPoint{
			Day:        day,
			Score:      l.MockScoreOr(0),
			Hours:      l.StudyHours,
			Problems:   l.ProblemsSolved,
			Confidence: l.Confidence,
		})
	}
	return points
}

// GrowthChart renders one row per day with score and study hour bars
func GrowthChart(logs []models.DailyLog, width int) string {
	points := GrowthSeries(logs)
	if len(points) == 0 {
		return emptyStyle.Render(EmptyGrowthMessage)
	}

	barWidth := max((width-34)/2, 5)
	maxHours := 0.0
	for _, p := range points {
		maxHours = math.Max(maxHours, p.Hours)
	}
	if maxHours == 0 {
		maxHours = 1
	}

	rows := []string{mutedStyle.Render(fmt.Sprintf("%-10s  %-*s  %s", "Day", barWidth+5, "Score", "Hours"))}
	for _, p := range points {
		rows = append(rows, fmt.Sprintf("%-10s  %s %3.0f  %s %4.1fh",
			truncate(p.Day, 10),
			Bar(p.Score/100, barWidth, colorAccent), p.Score,
			Bar(p.Hours/maxHours, barWidth, colorGreen), p.Hours,
		))
	}
	return strings.Join(rows, "\n")
}

var featureLabels = map[string]string{
	"study_hours":      "Study Hours",
	"topics_completed": "Topics Done",
	"problems_solved":  "Problems Solved",
	"mock_score":       "Mock Score",
	"confidence":       "Confidence",
	"mood":             "Mood",
	"revision_done":    "Revision",
	"skill_practiced":  "Skill",
}

var featureColors = []lipgloss.Color{"#5c7cfa", "#8b5cf6", "#10b981", "#f59e0b", "#ef4444", "#3b82f6", "#ec4899", "#06b6d4"}

// FeatureRow is one bar of the feature importance chart
type FeatureRow struct {
	Key     string
	Label   string
	Percent float64
}

// FeatureRows converts importance weights to percentages rounded to one
// decimal, sorted by impact
func FeatureRows(importance map[string]float64) []FeatureRow {
	rows := make([]FeatureRow, 0, len(importance))
	for key, value := range importance {
		label, ok := featureLabels[key]
		if !ok {
			label = key
		}
		rows = append(rows, FeatureRow{
			Key:     key,
			Label:   label,
			Percent: math.Round(value*1000) / 10,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Percent != rows[j].Percent {
			return rows[i].Percent > rows[j].Percent
		}
		return rows[i].Key < rows[j].Key
	})
	return rows
}

// FeatureImportance renders the prediction explanation as horizontal bars
func FeatureImportance(importance map[string]float64, width int) string {
	rows := FeatureRows(importance)
	if len(rows) == 0 {
		return ""
	}

	top := rows[0].Percent
	if top <= 0 {
		top = 1
	}
	barWidth := max(width-28, 5)

	out := []string{mutedStyle.Render("Which inputs had the most impact on your score prediction")}
	for i, r := range rows {
		color := featureColors[i%len(featureColors)]
		out = append(out, fmt.Sprintf("%-16s %s %5.1f%%", r.Label, Bar(r.Percent/top, barWidth, color), r.Percent))
	}
	return strings.Join(out, "\n")
}

// Distribution renders the score histogram
func Distribution(dist models.PerformanceDistribution, width int) string {
	if len(dist.Distribution) == 0 {
		return emptyStyle.Render("No predictions yet.")
	}

	maxCount := 0
	for _, b := range dist.Distribution {
		maxCount = max(maxCount, b.Count)
	}
	barWidth := max(width-20, 5)

	out := []string{
		fmt.Sprintf("%s %d   %s %.1f",
			labelStyle.Render("Students"), dist.TotalStudents,
			labelStyle.Render("Average score"), dist.AvgScore),
	}
	for _, b := range dist.Distribution {
		frac := 0.0
		if maxCount > 0 {
			frac = float64(b.Count) / float64(maxCount)
		}
		out = append(out, fmt.Sprintf("%-7s %s %3d", b.Range, Bar(frac, barWidth, colorAccent), b.Count))
	}
	return strings.Join(out, "\n")
}

// RiskColor buckets a burnout risk the way the admin heatmap does
func RiskColor(risk float64) lipgloss.Color {
	switch {
	case risk > 0.7:
		return colorRed
	case risk > 0.4:
		return colorAmber
	default:
		return colorGreen
	}
}

// RiskHeatmap renders one cell per student, highest risk first
func RiskHeatmap(entries []models.RiskEntry, columns int) string {
	if len(entries) == 0 {
		return emptyStyle.Render("No predictions yet.")
	}
	if columns <= 0 {
		columns = 4
	}

	sorted := append([]models.RiskEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].BurnoutRisk > sorted[j].BurnoutRisk })

	var rows []string
	var cells []string
	for i, e := range sorted {
		cell := cardStyle.
			BorderForeground(RiskColor(e.BurnoutRisk)).
			Width(20).
			Render(fmt.Sprintf("%s\nrisk %.0f%%\nscore %.1f",
				truncate(e.Name, 18), clamp(e.BurnoutRisk, 0, 1)*100, e.PredictedScore))
		cells = append(cells, cell)
		if len(cells) == columns || i == len(sorted)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
			cells = nil
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// PCAScatter plots cluster points on a character grid. Each cluster uses the
// colour of its learning style.
func PCAScatter(points []models.ClusterPoint, width, height int) string {
	if len(points) == 0 {
		return emptyStyle.Render("Not enough students with 3+ logs to cluster.")
	}
	if width < 10 {
		width = 10
	}
	if height < 5 {
		height = 5
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	spanX, spanY := maxX-minX, maxY-minY
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}

	grid := make([][]string, height)
	for y := range grid {
		grid[y] = make([]string, width)
		for x := range grid[y] {
			grid[y][x] = mutedStyle.Render("·")
		}
	}

	for _, p := range points {
		col := int(math.Round((p.X - minX) / spanX * float64(width-1)))
		row := height - 1 - int(math.Round((p.Y-minY)/spanY*float64(height-1)))
		color := lipgloss.Color(p.Style.Color)
		if p.Style.Color == "" {
			color = colorPurple
		}
		grid[row][col] = lipgloss.NewStyle().Foreground(color).Bold(true).Render("●")
	}

	lines := make([]string, height)
	for y, cells := range grid {
		lines[y] = strings.Join(cells, "")
	}
	return strings.Join(lines, "\n")
}

// ClusterLegend lists the learning styles present in the clustering
func ClusterLegend(c models.Clustering) string {
	counts := map[int]int{}
	for _, p := range c.PCAData {
		counts[p.Cluster]++
	}

	keys := make([]string, 0, len(c.ClusterInfo))
	for k := range c.ClusterInfo {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []string
	for _, k := range keys {
		style := c.ClusterInfo[k]
		id, _ := strconv.Atoi(k)
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(style.Color)).Render("●")
		out = append(out, fmt.Sprintf("%s %-20s %3d  %s", dot, style.Name, counts[id], mutedStyle.Render(style.Description)))
	}
	if len(c.ExplainedVariance) == 2 {
		out = append(out, mutedStyle.Render(fmt.Sprintf("Explained variance: PC1 %.1f%%, PC2 %.1f%%",
			c.ExplainedVariance[0]*100, c.ExplainedVariance[1]*100)))
	}
	return strings.Join(out, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
