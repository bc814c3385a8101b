package config

import (
	"github.com/rileyhilliard/keybatch/internal/agent"
	"github.com/rileyhilliard/keybatch/internal/keygen"
)

// Settings are the knobs that are not part of the -n/-p command line.
type Settings struct {
	// SSHConfig is the SSH client config file stanzas are appended to.
	SSHConfig string `mapstructure:"ssh_config" yaml:"ssh_config"`

	// OutputDir is where key files are written.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// IdentityDir is written verbatim into IdentityFile lines.
	IdentityDir string `mapstructure:"identity_dir" yaml:"identity_dir"`

	// Comment is embedded in every generated key.
	Comment string `mapstructure:"comment" yaml:"comment"`

	// Generator selects the key generator: auto, ssh-keygen or native.
	Generator string `mapstructure:"generator" yaml:"generator"`

	// Registrar selects how keys reach the agent: auto, ssh-add or native.
	Registrar string `mapstructure:"registrar" yaml:"registrar"`

	// Source is the settings file that was read, empty when none was.
	Source string `mapstructure:"-" yaml:"-"`
}

// Default values, before tilde expansion.
const (
	DefaultSSHConfig   = "~/.ssh/config"
	DefaultOutputDir   = "."
	DefaultIdentityDir = "~/.ssh"
)

// DefaultSettings returns the settings used when nothing is configured.
// Paths are not yet expanded.
func DefaultSettings() *Settings {
	return &Settings{
		SSHConfig:   DefaultSSHConfig,
		OutputDir:   DefaultOutputDir,
		IdentityDir: DefaultIdentityDir,
		Comment:     keygen.DefaultComment,
		Generator:   keygen.KindAuto,
		Registrar:   agent.KindAuto,
	}
}
