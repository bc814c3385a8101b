package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rileyhilliard/keybatch/internal/agent"
	"github.com/rileyhilliard/keybatch/internal/config"
	"github.com/rileyhilliard/keybatch/internal/errors"
	"github.com/rileyhilliard/keybatch/internal/keygen"
	"github.com/rileyhilliard/keybatch/internal/logger"
	"github.com/rileyhilliard/keybatch/internal/prompt"
	"github.com/rileyhilliard/keybatch/internal/provision"
	"github.com/rileyhilliard/keybatch/internal/ui"
	"github.com/rileyhilliard/keybatch/internal/util"
	"github.com/rileyhilliard/keybatch/pkg/sshutil"
	"golang.org/x/term"
)

// App holds the process-level inputs of a keybatch run, so tests can swap
// them out.
type App struct {
	Stdout io.Writer
	Stderr io.Writer

	// Getenv is consulted for SSH_AUTH_SOCK and NO_COLOR. Settings
	// overrides (KEYBATCH_*) are read by config.Load from the process
	// environment.
	Getenv func(string) string

	// Prompter reads the passphrase for -p. nil picks one based on stdin.
	Prompter prompt.Prompter

	// Interactive enables the generation spinner.
	Interactive bool

	Logger logger.Logger
}

func newApp(stdout, stderr io.Writer) *App {
	return &App{
		Stdout:      stdout,
		Stderr:      stderr,
		Getenv:      os.Getenv,
		Interactive: term.IsTerminal(int(os.Stdout.Fd())),
		Logger:      logger.Default(),
	}
}

// Run executes one invocation. Usage errors print the usage text and return
// an ExitError with code 2. Per-key failures are reported as warnings and
// don't make Run fail.
func (a *App) Run(args []string) error {
	log := a.Logger
	if log == nil {
		log = logger.Noop()
	}

	inv, err := ParseArgs(args)
	if err != nil {
		fmt.Fprintf(a.Stderr, "%s\n%s", err.Error(), usageText)
		return errors.NewExitError(2)
	}

	if inv.NoColor || a.Getenv("NO_COLOR") != "" {
		ui.DisableColors()
	}

	switch {
	case inv.Help:
		fmt.Fprint(a.Stdout, usageText)
		return nil
	case inv.Version:
		printVersion(a.Stdout)
		return nil
	}

	settings, err := config.Load(inv.SettingsFile)
	if err != nil {
		return err
	}
	settings.Override(inv.SSHConfig, inv.OutputDir)
	if settings.Source != "" {
		log.Debug("settings loaded from %s", settings.Source)
	}

	if inv.PrintSettings {
		out, err := settings.YAML()
		if err != nil {
			return err
		}
		fmt.Fprint(a.Stdout, out)
		return nil
	}

	// The passphrase is settled before anything touches the filesystem.
	passphrase := provision.Passphrase{Prompted: inv.Passphrase}
	if inv.Passphrase {
		p := a.Prompter
		if p == nil {
			p = prompt.Default()
		}
		if passphrase.Value, err = prompt.ReadPassphrase(p); err != nil {
			return err
		}
	}

	socket := agent.SocketFromEnv(a.Getenv)
	agentAvailable := agent.Available(socket)
	log.Debug("agent socket %q, registration enabled: %t", socket, agentAvailable)

	gen, err := keygen.New(settings.Generator, log)
	if err != nil {
		return err
	}
	if a.Interactive {
		gen = &spinningGenerator{inner: gen, w: a.Stdout}
	}

	var reg provision.Registrar
	if agentAvailable {
		if reg, err = agent.New(settings.Registrar, socket, log); err != nil {
			return err
		}
	}

	cf := sshutil.NewConfigFile(settings.SSHConfig, settings.IdentityDir)
	cf.Logger = log

	printer := ui.NewStatusPrinter(a.Stdout)
	p := provision.New(provision.Options{
		OutputDir:      settings.OutputDir,
		KeyType:        keygen.TypeEd25519,
		Comment:        settings.Comment,
		Passphrase:     passphrase,
		AgentAvailable: agentAvailable,
	}, provision.Deps{
		Generator: gen,
		Registrar: reg,
		Appender:  cf,
		Reporter:  printer,
		Logger:    log,
	})

	report := p.Run(inv.Names)
	log.Debug("%d of %d keys usable, %d with warnings", report.Succeeded(), report.Requested, report.Warnings())

	printer.Summary(fmt.Sprintf("Processed %d %s", report.Requested, util.Pluralize(report.Requested, "key", "keys")))
	return nil
}
