// Package prompt reads the batch passphrase from the user.
package prompt

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/keybatch/internal/errors"
	"golang.org/x/term"
)

// Prompter asks for one secret value.
type Prompter interface {
	Secret(title string) (string, error)
}

// ReadPassphrase asks for a passphrase twice and returns it when both entries
// match. An empty passphrase is allowed.
func ReadPassphrase(p Prompter) (string, error) {
	first, err := p.Secret("Passphrase")
	if err != nil {
		return "", err
	}
	second, err := p.Secret("Confirm passphrase")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errors.New(errors.ErrPassphrase,
			"Passphrases don't match",
			"Run again and type the same passphrase twice")
	}
	return first, nil
}

// Default returns a HuhPrompter when stdin is a terminal and a LinePrompter
// reading stdin otherwise.
func Default() Prompter {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return HuhPrompter{}
	}
	return NewLinePrompter(os.Stdin, os.Stderr)
}

// HuhPrompter shows a password input with hidden echo.
type HuhPrompter struct{}

// Secret implements Prompter.
func (HuhPrompter) Secret(title string) (string, error) {
	var value string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Description("Leave empty for an unencrypted key").
				EchoMode(huh.EchoModePassword).
				Value(&value),
		),
	)

	if err := form.Run(); err != nil {
		return "", errors.WrapWithCode(err, errors.ErrPassphrase,
			"Failed to read passphrase",
			"Run again without -p to generate unencrypted keys")
	}
	return value, nil
}

// LinePrompter reads one line per secret. Used when stdin is piped.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter reads answers from in and writes prompts to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// Secret implements Prompter. Trailing CR and LF are stripped; a final line
// without a newline is accepted.
func (p *LinePrompter) Secret(title string) (string, error) {
	if p.out != nil {
		_, _ = io.WriteString(p.out, title+": ")
	}

	line, err := p.in.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		if err == io.EOF {
			return "", errors.New(errors.ErrPassphrase,
				"No passphrase on standard input",
				"Pipe the passphrase twice, one per line, or run in a terminal")
		}
		return "", errors.WrapWithCode(err, errors.ErrPassphrase,
			"Failed to read passphrase", "")
	}
	if p.out != nil {
		_, _ = io.WriteString(p.out, "\n")
	}
	return strings.TrimRight(line, "\r\n"), nil
}
