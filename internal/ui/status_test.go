package ui

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func withAsciiProfile(t *testing.T) {
	t.Helper()
	previous := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() { lipgloss.SetColorProfile(previous) })
}

func TestStatusPrinter(t *testing.T) {
	withAsciiProfile(t)

	tests := []struct {
		name  string
		print func(*StatusPrinter)
		want  string
	}{
		{name: "success", print: func(p *StatusPrinter) { p.Success("Generated alpha") }, want: "✓ Generated alpha\n"},
		{name: "warn", print: func(p *StatusPrinter) { p.Warn("ssh-add failed") }, want: "! ssh-add failed\n"},
		{name: "skip", print: func(p *StatusPrinter) { p.Skip("alpha exists") }, want: "⊘ alpha exists\n"},
		{name: "info", print: func(p *StatusPrinter) { p.Info("no agent") }, want: "○ no agent\n"},
		{name: "summary", print: func(p *StatusPrinter) { p.Summary("Processed 2 keys") }, want: "\n● Processed 2 keys\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.print(NewStatusPrinter(&buf))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestStatusPrinter_Colored(t *testing.T) {
	previous := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.ANSI)
	t.Cleanup(func() { lipgloss.SetColorProfile(previous) })

	var buf bytes.Buffer
	NewStatusPrinter(&buf).Success("Generated alpha")
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "Generated alpha")
}

func TestDisableColors(t *testing.T) {
	previous := lipgloss.ColorProfile()
	t.Cleanup(func() { lipgloss.SetColorProfile(previous) })

	lipgloss.SetColorProfile(termenv.ANSI)
	DisableColors()
	assert.Equal(t, termenv.Ascii, lipgloss.ColorProfile())
}
