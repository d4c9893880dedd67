// Package tui renders traitforge runs in the terminal.
package tui

import (
	"hash/fnv"

	"github.com/charmbracelet/lipgloss"
)

var (
	red    = lipgloss.Color("#FF6B6B")
	teal   = lipgloss.Color("#4ecdc4")
	yellow = lipgloss.Color("#ffe66d")
	green  = lipgloss.Color("#a8e6cf")
	grey   = lipgloss.Color("#666666")
	ink    = lipgloss.Color("#1a1a2e")
	paper  = lipgloss.Color("#f1faee")
	frost  = lipgloss.Color("#a8dadc")
	navy   = lipgloss.Color("#3d5a80")
)

// tierColors are handed out to tier names by hash so that a tier keeps its
// color across commands.
var tierColors = []lipgloss.Color{yellow, teal, red, green, frost, "#c77dff", "#ff9f1c"}

var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(red).Background(ink).Padding(0, 1)
	SubtitleStyle = lipgloss.NewStyle().Foreground(teal)

	LabelStyle   = lipgloss.NewStyle().Foreground(frost).Bold(true)
	ValueStyle   = lipgloss.NewStyle().Foreground(paper)
	CountStyle   = lipgloss.NewStyle().Foreground(yellow).Bold(true)
	DividerStyle = lipgloss.NewStyle().Foreground(navy)
	BoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(navy).Padding(0, 1)

	PhaseStyle   = lipgloss.NewStyle().Foreground(teal).Bold(true)
	SpinnerStyle = lipgloss.NewStyle().Foreground(yellow)
	HelpStyle    = lipgloss.NewStyle().Foreground(grey)
	ErrorStyle   = lipgloss.NewStyle().Foreground(red).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(green).Bold(true)
)

// TierBadge renders a tier name on its tier color.
func TierBadge(name string) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(ink).
		Background(TierColor(name)).
		Padding(0, 1).
		Render(name)
}

// TierColor returns the stable color of a tier name.
func TierColor(name string) lipgloss.Color {
	h := fnv.New32a()
	h.Write([]byte(name))
	return tierColors[h.Sum32()%uint32(len(tierColors))]
}
