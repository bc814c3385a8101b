package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rileyhilliard/keybatch/internal/errors"
	"github.com/spf13/cobra"
)

const usageText = `Usage: keybatch -n <name> [<name> ...] [-p] [options]

Generates an ed25519 key pair per name in the output directory, adds each
key to the running ssh-agent and appends a Host stanza for it to your SSH
config. Existing keys are reused; existing stanzas are left alone.

Options:
  -n <name>...          Key names to provision (collection stops at the next option)
  -p                    Prompt for a passphrase, applied to every new key
  --ssh-config <path>   SSH config file to append to (default ~/.ssh/config)
  --output-dir <dir>    Directory for key files (default: current directory)
  --settings <file>     Settings file (default ~/.config/keybatch/config.yaml)
  --print-settings      Print the effective settings as YAML and exit
  --no-color            Disable colored output
  --version             Print version information
  -h, --help            Show this help

Environment:
  KEYBATCH_SSH_CONFIG, KEYBATCH_OUTPUT_DIR, KEYBATCH_IDENTITY_DIR,
  KEYBATCH_COMMENT, KEYBATCH_GENERATOR, KEYBATCH_REGISTRAR override settings.
  KEYBATCH_DEBUG=1 enables debug logging. NO_COLOR disables colors.

Examples:
  keybatch -n github gitlab
  keybatch -n prod-db staging-db -p
  keybatch --output-dir ~/.ssh -n work
`

// rootCmd takes the raw argument list: -n accepts a variable number of
// names, which pflag can't express, so flag parsing is disabled and
// ParseArgs handles the grammar.
var rootCmd = &cobra.Command{
	Use:                "keybatch -n <name> [<name> ...] [-p]",
	Short:              "Batch-generate SSH keys and Host stanzas",
	Long:               usageText,
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	Args:               cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newApp(cmd.OutOrStdout(), cmd.ErrOrStderr()).Run(args)
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		code, ok := errors.GetExitCode(err)
		if !ok {
			printError(os.Stderr, err)
			code = 1
		}
		os.Exit(code)
	}
}

// printError writes err to w, ending with a newline. Structured errors
// already carry one.
func printError(w io.Writer, err error) {
	msg := err.Error()
	if strings.HasSuffix(msg, "\n") {
		fmt.Fprint(w, msg)
		return
	}
	fmt.Fprintln(w, msg)
}
