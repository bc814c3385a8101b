// Package agent registers keys with a running SSH agent.
package agent

import (
	"fmt"
	"os/exec"

	"github.com/rileyhilliard/keybatch/internal/errors"
	"github.com/rileyhilliard/keybatch/internal/logger"
	"github.com/rileyhilliard/keybatch/internal/util"
)

// SocketEnv is the environment variable naming the agent socket.
const SocketEnv = "SSH_AUTH_SOCK"

// Registrar kinds accepted by New.
const (
	KindAuto   = "auto"
	KindSSHAdd = "ssh-add"
	KindNative = "native"
)

// Kinds lists the accepted registrar kinds.
var Kinds = []string{KindAuto, KindSSHAdd, KindNative}

// Registrar adds a private key to the agent. An empty passphrase means none
// is supplied; what happens for an encrypted key then depends on the
// implementation.
type Registrar interface {
	Register(keyPath, passphrase string) error
}

// SocketFromEnv returns the agent socket path as reported by getenv.
func SocketFromEnv(getenv func(string) string) string {
	return getenv(SocketEnv)
}

// Available reports whether registration should be attempted at all. Only
// the presence of a socket path is checked; a dead agent shows up later as a
// failed registration.
func Available(socket string) bool {
	return socket != ""
}

// New returns the registrar for kind. KindAuto picks SSHAdd when ssh-add is
// on PATH and Native otherwise.
func New(kind, socket string, log logger.Logger) (Registrar, error) {
	if log == nil {
		log = logger.Noop()
	}
	switch kind {
	case KindSSHAdd:
		return &SSHAdd{Binary: "ssh-add", Logger: log}, nil
	case KindNative:
		return &Native{Socket: socket, Logger: log}, nil
	case KindAuto, "":
		if path, err := exec.LookPath("ssh-add"); err == nil {
			return &SSHAdd{Binary: path, Logger: log}, nil
		}
		log.Debug("ssh-add not on PATH, talking to the agent directly")
		return &Native{Socket: socket, Logger: log}, nil
	default:
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("%q isn't a known agent registrar", kind),
			"Use one of: "+util.JoinOrNone(Kinds))
	}
}
