package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// StatusPrinter writes one styled line per event. It is safe for concurrent
// use so a spinner and the printer can share a writer.
type StatusPrinter struct {
	mu sync.Mutex
	w  io.Writer

	successStyle lipgloss.Style
	warnStyle    lipgloss.Style
	skipStyle    lipgloss.Style
	mutedStyle   lipgloss.Style
	summaryStyle lipgloss.Style
}

// NewStatusPrinter creates a printer writing to w.
func NewStatusPrinter(w io.Writer) *StatusPrinter {
	return &StatusPrinter{
		w:            w,
		successStyle: lipgloss.NewStyle().Foreground(ColorSuccess),
		warnStyle:    lipgloss.NewStyle().Foreground(ColorError),
		skipStyle:    lipgloss.NewStyle().Foreground(ColorWarning),
		mutedStyle:   lipgloss.NewStyle().Foreground(ColorMuted),
		summaryStyle: lipgloss.NewStyle().Foreground(ColorInfo).Bold(true),
	}
}

// Success prints msg with a green check.
func (p *StatusPrinter) Success(msg string) {
	p.line(p.successStyle.Render(SymbolSuccess), msg)
}

// Warn prints msg as a non-fatal failure.
func (p *StatusPrinter) Warn(msg string) {
	p.line(p.warnStyle.Render(SymbolWarning), msg)
}

// Skip prints msg for a step that had nothing to do.
func (p *StatusPrinter) Skip(msg string) {
	p.line(p.skipStyle.Render(SymbolSkipped), msg)
}

// Info prints msg dimmed.
func (p *StatusPrinter) Info(msg string) {
	p.line(p.mutedStyle.Render(SymbolPending), p.mutedStyle.Render(msg))
}

// Summary prints the closing line of a batch.
func (p *StatusPrinter) Summary(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "\n%s %s\n", p.summaryStyle.Render(SymbolComplete), p.summaryStyle.Render(msg))
}

func (p *StatusPrinter) line(symbol, msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "%s %s\n", symbol, msg)
}
