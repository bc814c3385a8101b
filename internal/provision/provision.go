// Package provision runs the per-name key workflow: generate or reuse a key
// pair, hand it to the agent, and make sure the SSH config has a Host stanza
// for it.
package provision

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rileyhilliard/keybatch/internal/errors"
	"github.com/rileyhilliard/keybatch/internal/keygen"
	"github.com/rileyhilliard/keybatch/internal/logger"
)

// Generator creates a key pair. keygen.SSHKeygen and keygen.Native satisfy it.
type Generator interface {
	Generate(opts keygen.Options) error
}

// Registrar adds a private key to the running agent. An empty passphrase
// means none is supplied.
type Registrar interface {
	Register(keyPath, passphrase string) error
}

// Appender makes sure the SSH config has a stanza for alias. added is false
// when the stanza was already there.
type Appender interface {
	EnsureHost(alias string) (added bool, err error)
}

// Reporter receives one line per user-visible event.
type Reporter interface {
	Success(msg string)
	Warn(msg string)
	Skip(msg string)
	Info(msg string)
}

// Passphrase is read once before the batch and shared by every name.
type Passphrase struct {
	Prompted bool
	Value    string
}

// forRegistrar returns the passphrase to pipe into the registrar. It is only
// supplied when the user explicitly typed a non-empty one.
func (p Passphrase) forRegistrar() string {
	if p.Prompted && p.Value != "" {
		return p.Value
	}
	return ""
}

// Options are the run-wide inputs.
type Options struct {
	OutputDir      string // empty means the working directory
	KeyType        string // empty means ed25519
	Comment        string
	Passphrase     Passphrase
	AgentAvailable bool
}

// Deps are the collaborators a Provisioner calls out to.
type Deps struct {
	Generator Generator
	Registrar Registrar // only called when Options.AgentAvailable
	Appender  Appender
	Reporter  Reporter
	Logger    logger.Logger
}

// Provisioner processes key names one at a time, in order.
type Provisioner struct {
	opts Options
	deps Deps
}

// New creates a Provisioner. A nil Logger is replaced by a no-op logger.
func New(opts Options, deps Deps) *Provisioner {
	if opts.KeyType == "" {
		opts.KeyType = keygen.TypeEd25519
	}
	if deps.Logger == nil {
		deps.Logger = logger.Noop()
	}
	return &Provisioner{opts: opts, deps: deps}
}

// Run processes every name and never stops early. Duplicates are processed
// as given.
func (p *Provisioner) Run(names []string) Report {
	report := Report{
		Requested: len(names),
		Outcomes:  make([]Outcome, 0, len(names)),
	}
	if len(names) > 0 && !p.opts.AgentAvailable {
		p.deps.Reporter.Info("No ssh-agent detected, keys won't be added to an agent")
	}

	for i, name := range names {
		p.deps.Logger.Debug("processing %s (%d/%d)", name, i+1, len(names))
		report.Outcomes = append(report.Outcomes, p.provision(name))
	}
	return report
}

func (p *Provisioner) provision(name string) Outcome {
	out := Outcome{
		Name:       name,
		PrivateKey: p.keyPath(name),
	}
	pub := out.PrivateKey + ".pub"

	switch {
	case exists(out.PrivateKey):
		out.State = StateExisting
		p.deps.Reporter.Skip(fmt.Sprintf("Key %s already exists at %s, skipping generation", name, out.PrivateKey))
		p.register(&out)

	case exists(pub):
		out.State = StateInconsistent
		out.Err = errors.New(errors.ErrKeygen,
			fmt.Sprintf("Found %s without its private key", pub),
			"Remove the stray public key to generate a fresh pair")
		p.deps.Reporter.Warn(fmt.Sprintf("Found %s but not %s, leaving %s alone", pub, out.PrivateKey, name))

	default:
		err := p.deps.Generator.Generate(keygen.Options{
			Type:       p.opts.KeyType,
			Path:       out.PrivateKey,
			Passphrase: p.opts.Passphrase.Value,
			Comment:    p.opts.Comment,
		})
		if err != nil {
			out.State = StateGenerateFailed
			out.Err = err
			p.deps.Reporter.Warn(fmt.Sprintf("Failed to generate %s: %s", name, errors.Summarize(err)))
			break
		}
		out.State = StateGenerated
		p.deps.Reporter.Success(fmt.Sprintf("Generated %s key %s", p.opts.KeyType, out.PrivateKey))
		p.register(&out)
	}

	if out.Succeeded() {
		p.appendStanza(&out)
	}
	return out
}

// register is best-effort: a failure is reported and recorded, nothing more.
func (p *Provisioner) register(out *Outcome) {
	if !p.opts.AgentAvailable || p.deps.Registrar == nil {
		return
	}
	out.RegisterAttempted = true
	if err := p.deps.Registrar.Register(out.PrivateKey, p.opts.Passphrase.forRegistrar()); err != nil {
		out.RegisterErr = err
		p.deps.Reporter.Warn(fmt.Sprintf("Couldn't add %s to ssh-agent: %s", out.Name, errors.Summarize(err)))
		return
	}
	out.Registered = true
	p.deps.Reporter.Success(fmt.Sprintf("Added %s to ssh-agent", out.Name))
}

func (p *Provisioner) appendStanza(out *Outcome) {
	out.ConfigAttempted = true
	added, err := p.deps.Appender.EnsureHost(out.Name)
	if err != nil {
		out.ConfigErr = err
		p.deps.Reporter.Warn(fmt.Sprintf("Couldn't add Host %s to ssh config: %s", out.Name, errors.Summarize(err)))
		return
	}
	out.ConfigAdded = added
	if added {
		p.deps.Reporter.Success(fmt.Sprintf("Added Host %s to ssh config", out.Name))
		return
	}
	p.deps.Reporter.Info(fmt.Sprintf("Host %s already in ssh config", out.Name))
}

func (p *Provisioner) keyPath(name string) string {
	if p.opts.OutputDir == "" {
		return name
	}
	return filepath.Join(p.opts.OutputDir, name)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
