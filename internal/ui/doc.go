// Package ui renders keybatch's terminal output with Lip Gloss.
//
// StatusPrinter writes one line per event, prefixed with a colored symbol:
//
//	✓ success    ! non-fatal failure    ⊘ skipped    ○ info    ● summary
//
// Spinner animates a single line while a blocking step runs and erases it on
// Stop, so the status line printed afterwards replaces it. Only use it when
// the output is a terminal.
//
// DisableColors switches to monochrome output (for --no-color and NO_COLOR).
package ui
