package tui

import "github.com/charmbracelet/lipgloss"

// ─── Colors ──────────────────────────────────────────────────────────────────

var (
	colorText    = lipgloss.Color("#e0def4")
	colorSubtext = lipgloss.Color("#908caa")
	colorOverlay = lipgloss.Color("#6e6a86")
	colorAccent  = lipgloss.Color("#c4a7e7")
	colorGreen   = lipgloss.Color("#9ccfd8")
	colorPeach   = lipgloss.Color("#f6c177")
	colorRed     = lipgloss.Color("#eb6f92")
)

// ─── Layout Styles ───────────────────────────────────────────────────────────

var (
	appStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(colorOverlay).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorSubtext).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorGreen)
)

// ─── List Styles ─────────────────────────────────────────────────────────────

var (
	itemStyle = lipgloss.NewStyle().
			Foreground(colorText).
			PaddingLeft(2)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true).
				PaddingLeft(1).
				BorderStyle(lipgloss.ThickBorder()).
				BorderLeft(true).
				BorderForeground(colorAccent)

	idStyle = lipgloss.NewStyle().
		Foreground(colorSubtext)

	tagStyle = lipgloss.NewStyle().
			Foreground(colorPeach)

	emptyStyle = lipgloss.NewStyle().
			Foreground(colorSubtext).
			Italic(true)
)

// ─── Detail / Editor Styles ──────────────────────────────────────────────────

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorSubtext).
			Width(10)

	contentStyle = lipgloss.NewStyle().
			Foreground(colorText).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorOverlay).
			Padding(0, 1).
			MarginTop(1)

	confirmStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorRed).
			Padding(1, 2)
)
