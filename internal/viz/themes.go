package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the sand trace and the stats panel.
type Theme struct {
	Name   string
	Sand   lipgloss.Color
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Warn   lipgloss.Color
}

var (
	ThemeSand = Theme{
		Name:   "sand",
		Sand:   lipgloss.Color("#e8c07d"),
		Accent: lipgloss.Color("#ffd38a"),
		Text:   lipgloss.Color("252"),
		Muted:  lipgloss.Color("240"),
		Warn:   lipgloss.Color("#ff6b6b"),
	}

	ThemeRetroGreen = Theme{
		Name:   "retro",
		Sand:   lipgloss.Color("#00ff00"),
		Accent: lipgloss.Color("#88ff88"),
		Text:   lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
		Warn:   lipgloss.Color("#ffff00"),
	}

	ThemeOcean = Theme{
		Name:   "ocean",
		Sand:   lipgloss.Color("#00a8cc"),
		Accent: lipgloss.Color("#ffd700"),
		Text:   lipgloss.Color("#e0f0ff"),
		Muted:  lipgloss.Color("#4488aa"),
		Warn:   lipgloss.Color("#ff4444"),
	}

	Themes = []Theme{ThemeSand, ThemeRetroGreen, ThemeOcean}
)

// GetTheme falls back to the sand theme for unknown names.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeSand
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

type styles struct {
	canvas lipgloss.Style
	stats  lipgloss.Style
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	graph  lipgloss.Style
	help   lipgloss.Style
	warn   lipgloss.Style
}

func (t Theme) styles() styles {
	return styles{
		canvas: lipgloss.NewStyle().Padding(1, 2).Foreground(t.Sand),
		stats: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(46),
		header: lipgloss.NewStyle().Foreground(t.Accent).Bold(true).MarginBottom(1),
		label:  lipgloss.NewStyle().Foreground(t.Muted).Width(16),
		value:  lipgloss.NewStyle().Foreground(t.Text),
		graph:  lipgloss.NewStyle().Foreground(t.Sand).Padding(1, 0),
		help:   lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		warn:   lipgloss.NewStyle().Foreground(t.Warn).Bold(true),
	}
}
