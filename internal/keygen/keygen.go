package keygen

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rileyhilliard/keybatch/internal/errors"
	"github.com/rileyhilliard/keybatch/internal/logger"
	"github.com/rileyhilliard/keybatch/internal/util"
)

// TypeEd25519 is the only key type keybatch generates.
const TypeEd25519 = "ed25519"

// DefaultComment is written into every generated key.
const DefaultComment = "keybatch-generated-" + TypeEd25519

// Generator kinds accepted by New.
const (
	KindAuto      = "auto"
	KindSSHKeygen = "ssh-keygen"
	KindNative    = "native"
)

// Kinds lists the accepted generator kinds.
var Kinds = []string{KindAuto, KindSSHKeygen, KindNative}

// Options describes one key pair to create.
type Options struct {
	Type       string // empty means ed25519
	Path       string // private key path; the public key goes to Path + ".pub"
	Passphrase string // empty produces an unencrypted key
	Comment    string
}

// PublicPath returns the public key path for o.
func (o Options) PublicPath() string {
	return o.Path + ".pub"
}

// Generator creates a key pair described by Options.
type Generator interface {
	Generate(opts Options) error
}

// New returns the generator for kind. KindAuto picks SSHKeygen when
// ssh-keygen is on PATH and Native otherwise.
func New(kind string, log logger.Logger) (Generator, error) {
	if log == nil {
		log = logger.Noop()
	}
	switch kind {
	case KindSSHKeygen:
		return &SSHKeygen{Binary: "ssh-keygen", Logger: log}, nil
	case KindNative:
		return &Native{Logger: log}, nil
	case KindAuto, "":
		if path, err := exec.LookPath("ssh-keygen"); err == nil {
			return &SSHKeygen{Binary: path, Logger: log}, nil
		}
		log.Debug("ssh-keygen not on PATH, generating keys in-process")
		return &Native{Logger: log}, nil
	default:
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("%q isn't a known key generator", kind),
			"Use one of: "+util.JoinOrNone(Kinds))
	}
}

// prepare validates opts, fills defaults, creates the parent directory and
// refuses to continue when the private key already exists.
func prepare(opts Options) (Options, error) {
	if opts.Type == "" {
		opts.Type = TypeEd25519
	}
	if opts.Type != TypeEd25519 {
		return opts, errors.New(errors.ErrKeygen,
			fmt.Sprintf("%q isn't a supported key type", opts.Type),
			"keybatch only generates ed25519 keys")
	}
	if opts.Path == "" {
		return opts, errors.New(errors.ErrKeygen,
			"No key path given",
			"Pass a non-empty key name")
	}

	dir := filepath.Dir(opts.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return opts, errors.WrapWithCode(err, errors.ErrKeygen,
			fmt.Sprintf("Failed to create key directory: %s", dir),
			"Check permissions on the output directory")
	}

	if _, err := os.Stat(opts.Path); err == nil {
		return opts, errors.New(errors.ErrKeygen,
			fmt.Sprintf("Key already exists at %s", opts.Path),
			"Choose a different name or delete the existing key")
	}

	return opts, nil
}
