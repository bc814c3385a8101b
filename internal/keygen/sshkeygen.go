package keygen

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rileyhilliard/keybatch/internal/errors"
	"github.com/rileyhilliard/keybatch/internal/logger"
	"github.com/rileyhilliard/keybatch/internal/util"
)

// SSHKeygen generates keys by running ssh-keygen.
type SSHKeygen struct {
	Binary string
	Logger logger.Logger
}

// Generate runs ssh-keygen for opts. The passphrase is passed with -N, so
// ssh-keygen never prompts; stdin is left empty for the same reason.
func (g *SSHKeygen) Generate(opts Options) error {
	opts, err := prepare(opts)
	if err != nil {
		return err
	}

	binary := g.Binary
	if binary == "" {
		binary = "ssh-keygen"
	}

	args := []string{
		"-q",
		"-t", opts.Type,
		"-f", opts.Path,
		"-N", opts.Passphrase,
		"-C", opts.Comment,
	}
	g.log().Debug("running %s", util.CommandLine(binary, args, "-N"))

	cmd := exec.Command(binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrKeygen,
			fmt.Sprintf("ssh-keygen failed for %s: %s", opts.Path, strings.TrimSpace(string(output))),
			"Ensure ssh-keygen is installed and the output directory is writable")
	}

	if _, err := os.Stat(opts.Path); err != nil {
		return errors.New(errors.ErrKeygen,
			"Key generation completed but key file not found",
			"Check disk space and permissions")
	}

	return nil
}

func (g *SSHKeygen) log() logger.Logger {
	if g.Logger == nil {
		return logger.Noop()
	}
	return g.Logger
}
