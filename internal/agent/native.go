package agent

import (
	stderrors "errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/rileyhilliard/keybatch/internal/errors"
	"github.com/rileyhilliard/keybatch/internal/logger"
	"golang.org/x/crypto/ssh"
	sshagent "golang.org/x/crypto/ssh/agent"
)

// Native registers keys by speaking the agent protocol over the socket.
// Unlike ssh-add it cannot prompt, so an encrypted key needs its passphrase.
type Native struct {
	Socket string
	Logger logger.Logger

	// Dial opens the agent connection. nil means a unix socket dial of Socket.
	Dial func(socket string) (net.Conn, error)
}

// Register parses keyPath and adds it to the agent, using the key file's
// base name as the agent comment.
func (a *Native) Register(keyPath, passphrase string) error {
	pem, err := os.ReadFile(keyPath)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrAgent,
			fmt.Sprintf("Can't read %s", keyPath),
			"Check that the key file exists and is readable")
	}

	var key interface{}
	if passphrase == "" {
		key, err = ssh.ParseRawPrivateKey(pem)
	} else {
		key, err = ssh.ParseRawPrivateKeyWithPassphrase(pem, []byte(passphrase))
	}
	if err != nil {
		var missing *ssh.PassphraseMissingError
		if stderrors.As(err, &missing) {
			return errors.New(errors.ErrAgent,
				fmt.Sprintf("%s is encrypted and no passphrase was given", keyPath),
				"Run again with -p, or add it by hand: ssh-add "+keyPath)
		}
		return errors.WrapWithCode(err, errors.ErrAgent,
			fmt.Sprintf("Can't load private key %s", keyPath),
			"Check the passphrase and the key format")
	}

	if a.Socket == "" {
		return errors.New(errors.ErrAgent,
			"No agent socket",
			"Start an agent: eval $(ssh-agent)")
	}

	dial := a.Dial
	if dial == nil {
		dial = func(socket string) (net.Conn, error) { return net.Dial("unix", socket) }
	}
	conn, err := dial(a.Socket)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrAgent,
			"SSH agent socket not accessible",
			"Fix: eval $(ssh-agent)")
	}
	defer conn.Close() //nolint:errcheck // best-effort close, error not actionable

	a.log().Debug("adding %s to agent at %s", keyPath, a.Socket)
	err = sshagent.NewClient(conn).Add(sshagent.AddedKey{
		PrivateKey: key,
		Comment:    filepath.Base(keyPath),
	})
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrAgent,
			fmt.Sprintf("Agent refused %s", keyPath),
			"Check the agent with: ssh-add -l")
	}
	return nil
}

func (a *Native) log() logger.Logger {
	if a.Logger == nil {
		return logger.Noop()
	}
	return a.Logger
}
