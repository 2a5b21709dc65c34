package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/fundadmin/internal/config"
)

// Theme maps semantic roles to styles. Built once from config and handed to
// the App.
type Theme struct {
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Accent  lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Warning lipgloss.Color
	Border  lipgloss.Color

	Title    lipgloss.Style
	Header   lipgloss.Style
	Body     lipgloss.Style
	Dim      lipgloss.Style
	Cursor   lipgloss.Style
	Selected lipgloss.Style
	Good     lipgloss.Style
	Bad      lipgloss.Style
	Warn     lipgloss.Style
	Box      lipgloss.Style
}

// NewTheme builds styles from tc. Empty roles fall back to the defaults.
func NewTheme(tc config.ThemeConfig) Theme {
	def := config.DefaultTheme()
	pick := func(v, fallback string) lipgloss.Color {
		if v == "" {
			return lipgloss.Color(fallback)
		}
		return lipgloss.Color(v)
	}
	t := Theme{
		Text:    pick(tc.Text, def.Text),
		Muted:   pick(tc.Muted, def.Muted),
		Accent:  pick(tc.Accent, def.Accent),
		Success: pick(tc.Success, def.Success),
		Error:   pick(tc.Error, def.Error),
		Warning: pick(tc.Warning, def.Warning),
		Border:  pick(tc.Border, def.Border),
	}
	t.Title = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.Header = lipgloss.NewStyle().Bold(true).Foreground(t.Text)
	t.Body = lipgloss.NewStyle().Foreground(t.Text)
	t.Dim = lipgloss.NewStyle().Foreground(t.Muted)
	t.Cursor = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	t.Selected = lipgloss.NewStyle().Foreground(t.Text).Bold(true)
	t.Good = lipgloss.NewStyle().Foreground(t.Success)
	t.Bad = lipgloss.NewStyle().Foreground(t.Error)
	t.Warn = lipgloss.NewStyle().Foreground(t.Warning)
	t.Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
	return t
}
