package render

import "github.com/charmbracelet/lipgloss"

const (
	colorGreen  = lipgloss.Color("#10b981")
	colorAmber  = lipgloss.Color("#f59e0b")
	colorRed    = lipgloss.Color("#ef4444")
	colorAccent = lipgloss.Color("#5c7cfa")
	colorPurple = lipgloss.Color("#8b5cf6")
	colorMuted  = lipgloss.Color("240")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)

	emptyStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)
)

// Title renders a section heading
func Title(s string) string {
	return titleStyle.Render(s)
}

// Muted renders secondary text
func Muted(s string) string {
	return mutedStyle.Render(s)
}

// Bar renders a horizontal bar filled to frac of width
func Bar(frac float64, width int, color lipgloss.Color) string {
	if width <= 0 {
		return ""
	}
	frac = clamp(frac, 0, 1)
	filled := int(frac*float64(width) + 0.5)
	return lipgloss.NewStyle().Foreground(color).Render(repeat("█", filled)) +
		mutedStyle.Render(repeat("░", width-filled))
}

func repeat(s string, n int) string {
	if n <= 0 {
		return ""
	}
	out := make([]byte, 0, len(s)*n)
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
