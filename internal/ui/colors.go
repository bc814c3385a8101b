package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Semantic colors as ANSI codes, so they follow the terminal's palette.
const (
	ColorSuccess   lipgloss.Color = "2" // Green
	ColorError     lipgloss.Color = "1" // Red
	ColorWarning   lipgloss.Color = "3" // Yellow
	ColorInfo      lipgloss.Color = "6" // Cyan
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// DisableColors switches lipgloss to plain output for --no-color and NO_COLOR.
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}
