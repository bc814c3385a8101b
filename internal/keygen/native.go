package keygen

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rileyhilliard/keybatch/internal/errors"
	"github.com/rileyhilliard/keybatch/internal/logger"
	"golang.org/x/crypto/ssh"
)

// Native generates Ed25519 key pairs in-process, writing the same OpenSSH
// formats ssh-keygen does.
type Native struct {
	Logger logger.Logger
	Rand   io.Reader // nil means crypto/rand
}

// Generate creates the key pair described by opts.
func (g *Native) Generate(opts Options) error {
	opts, err := prepare(opts)
	if err != nil {
		return err
	}

	random := g.Rand
	if random == nil {
		random = rand.Reader
	}

	pub, priv, err := ed25519.GenerateKey(random)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrKeygen,
			"Failed to generate ed25519 key", "")
	}

	var block *pem.Block
	if opts.Passphrase == "" {
		block, err = ssh.MarshalPrivateKey(priv, opts.Comment)
	} else {
		block, err = ssh.MarshalPrivateKeyWithPassphrase(priv, opts.Comment, []byte(opts.Passphrase))
	}
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrKeygen,
			"Failed to encode private key", "")
	}

	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrKeygen,
			"Failed to encode public key", "")
	}
	authorized := strings.TrimSpace(string(ssh.MarshalAuthorizedKey(sshPub)))
	if opts.Comment != "" {
		authorized += " " + opts.Comment
	}

	g.log().Debug("writing %s and %s", opts.Path, opts.PublicPath())

	if err := writeExclusive(opts.Path, pem.EncodeToMemory(block), 0600); err != nil {
		return errors.WrapWithCode(err, errors.ErrKeygen,
			fmt.Sprintf("Failed to write private key %s", opts.Path),
			"Check permissions on the output directory")
	}
	if err := writeExclusive(opts.PublicPath(), []byte(authorized+"\n"), 0644); err != nil {
		os.Remove(opts.Path) //nolint:errcheck // keep the pair all-or-nothing
		return errors.WrapWithCode(err, errors.ErrKeygen,
			fmt.Sprintf("Failed to write public key %s", opts.PublicPath()),
			"Remove any stray .pub file and try again")
	}

	return nil
}

func (g *Native) log() logger.Logger {
	if g.Logger == nil {
		return logger.Noop()
	}
	return g.Logger
}

// writeExclusive creates path with perm and fails if it already exists.
func writeExclusive(path string, data []byte, perm os.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()       //nolint:errcheck // write error takes precedence
		os.Remove(path) //nolint:errcheck // don't leave a truncated key behind
		return err
	}
	// umask may have narrowed perm; public keys should stay world-readable
	if err := f.Chmod(perm); err != nil {
		f.Close() //nolint:errcheck // chmod error takes precedence
		return err
	}
	return f.Close()
}
