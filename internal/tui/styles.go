package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#2F6FDE")
	colorAccent  = lipgloss.Color("#10B981")
	colorMuted   = lipgloss.Color("#6B7280")
	colorWarn    = lipgloss.Color("#F59E0B")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginBottom(1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(26)

	FocusedLabelStyle = LabelStyle.
				Foreground(colorPrimary).
				Bold(true)

	ResultsBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 2).
			MarginTop(1)

	HeadlineStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	FigureStyle = lipgloss.NewStyle().
			Width(14).
			Align(lipgloss.Right)

	StatusStyle = lipgloss.NewStyle().
			Foreground(colorWarn).
			Italic(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1)
)
