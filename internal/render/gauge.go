package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/neurogrowth/internal/constants"
	"github.com/julianstephens/neurogrowth/internal/models"
)

// ClampScore limits a predicted score to [0, 100]. NaN is treated as 0.
func ClampScore(score float64) float64 {
	if math.IsNaN(score) {
		return 0
	}
	return clamp(score, 0, 100)
}

// GaugeSweep returns the filled fraction of the score gauge
func GaugeSweep(score float64) float64 {
	return ClampScore(score) / 100
}

// GaugeColor returns green from 75, amber from 50 and red below
func GaugeColor(score float64) lipgloss.Color {
	score = ClampScore(score)
	switch {
	case score >= 75:
		return colorGreen
	case score >= 50:
		return colorAmber
	default:
		return colorRed
	}
}

// ScoreGauge renders the predicted score as a bar followed by its value
func ScoreGauge(score float64, width int) string {
	s := ClampScore(score)
	value := lipgloss.NewStyle().Foreground(GaugeColor(s)).Bold(true).Render(fmt.Sprintf("%5.1f", s))
	return Bar(GaugeSweep(s), width, GaugeColor(s)) + " " + value + mutedStyle.Render(" / 100")
}

// BurnoutBucket derives the display level from a burnout risk fraction
func BurnoutBucket(risk float64) constants.BurnoutLevel {
	switch {
	case risk < constants.BurnoutMediumThreshold:
		return constants.BurnoutLow
	case risk < constants.BurnoutHighThreshold:
		return constants.BurnoutMedium
	default:
		return constants.BurnoutHigh
	}
}

type burnoutInfo struct {
	label  string
	color  lipgloss.Color
	advice string
}

var burnoutLevels = map[constants.BurnoutLevel]burnoutInfo{
	constants.BurnoutLow:    {label: "Low Risk", color: colorGreen, advice: "You're doing great! Keep up the balanced approach."},
	constants.BurnoutMedium: {label: "Medium Risk", color: colorAmber, advice: "Consider taking more breaks between study sessions."},
	constants.BurnoutHigh:   {label: "High Risk", color: colorRed, advice: "Please take a break! Your wellbeing is most important."},
}

// BurnoutAdvice returns the advice shown for a level
func BurnoutAdvice(level constants.BurnoutLevel) string {
	if info, ok := burnoutLevels[level]; ok {
		return info.advice
	}
	return burnoutLevels[constants.BurnoutLow].advice
}

// BurnoutLabel returns the human label for a level
func BurnoutLabel(level constants.BurnoutLevel) string {
	if info, ok := burnoutLevels[level]; ok {
		return info.label
	}
	return burnoutLevels[constants.BurnoutLow].label
}

// BurnoutIndicator renders the risk fraction as a bar with its level and advice
func BurnoutIndicator(risk float64, width int) string {
	risk = clamp(risk, 0, 1)
	info := burnoutLevels[BurnoutBucket(risk)]

	header := lipgloss.NewStyle().Foreground(info.color).Bold(true).Render(info.label) +
		mutedStyle.Render(fmt.Sprintf(" %.0f%%", risk*100))
	return strings.Join([]string{
		header,
		Bar(risk, width, info.color),
		mutedStyle.Render(info.advice),
	}, "\n")
}

// PredictionSummary renders the headline numbers of a prediction
func PredictionSummary(p models.Prediction, width int) string {
	lower, upper := p.ConfidenceInterval()
	lines := []string{
		labelStyle.Render("Predicted Score"),
		ScoreGauge(p.PredictedScore, width),
		mutedStyle.Render(fmt.Sprintf("Confidence interval %.1f - %.1f", lower, upper)),
		fmt.Sprintf("Improvement velocity %s", signed(p.ImprovementVelocity, "/day")),
		"",
		labelStyle.Render("Burnout Risk"),
		BurnoutIndicator(p.BurnoutRisk, width),
	}
	return strings.Join(lines, "\n")
}

// SimulationSummary renders a what-if result against the baseline
func SimulationSummary(res models.SimulationResult, width int) string {
	lower, upper := res.ConfidenceInterval()
	lines := []string{
		labelStyle.Render("Simulated Score"),
		ScoreGauge(res.PredictedScore, width),
		fmt.Sprintf("Score change    %s", signed(res.ScoreDelta, " pts")),
		fmt.Sprintf("Burnout risk    %.0f%% (%s)", clamp(res.BurnoutRisk, 0, 1)*100, BurnoutLabel(BurnoutBucket(res.BurnoutRisk))),
		fmt.Sprintf("Confidence      %.1f - %.1f", lower, upper),
		fmt.Sprintf("Velocity        %s", signed(res.ImprovementVelocity, "/day")),
	}
	return strings.Join(lines, "\n")
}

func signed(v float64, unit string) string {
	color := colorMuted
	switch {
	case v > 0:
		color = colorGreen
	case v < 0:
		color = colorRed
	}
	return lipgloss.NewStyle().Foreground(color).Render(fmt.Sprintf("%+.1f%s", v, unit))
}
