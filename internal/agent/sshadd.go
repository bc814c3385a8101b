package agent

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/rileyhilliard/keybatch/internal/errors"
	"github.com/rileyhilliard/keybatch/internal/logger"
	"github.com/rileyhilliard/keybatch/internal/util"
)

// SSHAdd registers keys by running ssh-add.
type SSHAdd struct {
	Binary string
	Logger logger.Logger

	// Stdin, Stdout and Stderr are used when no passphrase is supplied, so
	// ssh-add can prompt for one itself. nil means the process's own streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Register runs ssh-add for keyPath. A non-empty passphrase is written to
// ssh-add's stdin, which it reads when stdin is not a terminal. Without one,
// ssh-add inherits the terminal and prompts if the key is encrypted.
func (a *SSHAdd) Register(keyPath, passphrase string) error {
	binary := a.Binary
	if binary == "" {
		binary = "ssh-add"
	}

	args := []string{keyPath}
	a.log().Debug("running %s (passphrase supplied: %t)", util.CommandLine(binary, args), passphrase != "")

	cmd := exec.Command(binary, args...)

	if passphrase != "" {
		cmd.Stdin = strings.NewReader(passphrase + "\n")
		output, err := cmd.CombinedOutput()
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrAgent,
				fmt.Sprintf("ssh-add failed for %s: %s", keyPath, strings.TrimSpace(string(output))),
				"Check that the agent is running: ssh-add -l")
		}
		return nil
	}

	cmd.Stdin = orReader(a.Stdin, os.Stdin)
	cmd.Stdout = orWriter(a.Stdout, os.Stdout)
	cmd.Stderr = orWriter(a.Stderr, os.Stderr)
	if err := cmd.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrAgent,
			fmt.Sprintf("ssh-add failed for %s", keyPath),
			"Check that the agent is running: ssh-add -l")
	}
	return nil
}

func (a *SSHAdd) log() logger.Logger {
	if a.Logger == nil {
		return logger.Noop()
	}
	return a.Logger
}

func orReader(r io.Reader, def io.Reader) io.Reader {
	if r != nil {
		return r
	}
	return def
}

func orWriter(w io.Writer, def io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return def
}
