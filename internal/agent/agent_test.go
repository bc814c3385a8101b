package agent

import (
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/rileyhilliard/keybatch/internal/errors"
	"github.com/rileyhilliard/keybatch/internal/keygen"
	"github.com/rileyhilliard/keybatch/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sshagent "golang.org/x/crypto/ssh/agent"
)

func fakeBinary(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "fake-ssh-add")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0755))
	return path
}

// pipeAgent returns a Dial func connected to an in-memory keyring.
func pipeAgent(t *testing.T) (func(string) (net.Conn, error), sshagent.Agent) {
	t.Helper()
	keyring := sshagent.NewKeyring()
	dial := func(string) (net.Conn, error) {
		client, server := net.Pipe()
		go func() {
			_ = sshagent.ServeAgent(keyring, server)
			server.Close()
		}()
		return client, nil
	}
	return dial, keyring
}

func generate(t *testing.T, passphrase string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "alpha")
	require.NoError(t, (&keygen.Native{}).Generate(keygen.Options{Path: path, Passphrase: passphrase, Comment: "test"}))
	return path
}

func TestSocketFromEnv(t *testing.T) {
	env := map[string]string{SocketEnv: "/tmp/agent.sock"}
	getenv := func(k string) string { return env[k] }

	socket := SocketFromEnv(getenv)
	assert.Equal(t, "/tmp/agent.sock", socket)
	assert.True(t, Available(socket))

	assert.False(t, Available(SocketFromEnv(func(string) string { return "" })))
}

func TestNew(t *testing.T) {
	reg, err := New(KindSSHAdd, "", nil)
	require.NoError(t, err)
	assert.IsType(t, &SSHAdd{}, reg)

	reg, err = New(KindNative, "/tmp/sock", nil)
	require.NoError(t, err)
	require.IsType(t, &Native{}, reg)
	assert.Equal(t, "/tmp/sock", reg.(*Native).Socket)

	_, err = New("gpg", "", nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestNew_Auto(t *testing.T) {
	reg, err := New(KindAuto, "/tmp/sock", logger.Noop())
	require.NoError(t, err)

	if _, lookErr := exec.LookPath("ssh-add"); lookErr == nil {
		assert.IsType(t, &SSHAdd{}, reg)
	} else {
		assert.IsType(t, &Native{}, reg)
	}
}

func TestSSHAdd_PipesPassphrase(t *testing.T) {
	record := filepath.Join(t.TempDir(), "record")
	bin := fakeBinary(t, `read pw; echo "$1 $pw" > `+record)
	buf := logger.NewBufferLogger()
	reg := &SSHAdd{Binary: bin, Logger: buf}

	require.NoError(t, reg.Register("/keys/alpha", "hunter2"))

	got, err := os.ReadFile(record)
	require.NoError(t, err)
	assert.Equal(t, "/keys/alpha hunter2", strings.TrimSpace(string(got)))

	assert.True(t, buf.Contains("debug", "passphrase supplied: true"))
	for _, m := range buf.Messages {
		assert.NotContains(t, m.Message, "hunter2")
	}
}

func TestSSHAdd_InheritsStreamsWithoutPassphrase(t *testing.T) {
	bin := fakeBinary(t, `read answer; echo "prompted for $1, got $answer"`)
	var out strings.Builder
	reg := &SSHAdd{
		Binary: bin,
		Stdin:  strings.NewReader("typed-by-user\n"),
		Stdout: &out,
		Stderr: &out,
	}

	require.NoError(t, reg.Register("/keys/alpha", ""))
	assert.Equal(t, "prompted for /keys/alpha, got typed-by-user\n", out.String())
}

func TestSSHAdd_Failure(t *testing.T) {
	bin := fakeBinary(t, "echo 'Could not open a connection to your authentication agent.' >&2\nexit 2")

	err := (&SSHAdd{Binary: bin}).Register("/keys/alpha", "pw")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrAgent))
	assert.Contains(t, err.Error(), "Could not open a connection")

	var out strings.Builder
	err = (&SSHAdd{Binary: bin, Stdin: strings.NewReader(""), Stdout: &out, Stderr: &out}).Register("/keys/alpha", "")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrAgent))
	assert.Contains(t, out.String(), "Could not open a connection")
}

func TestNative_AddsUnencryptedKey(t *testing.T) {
	dial, keyring := pipeAgent(t)
	path := generate(t, "")

	reg := &Native{Socket: "pipe", Dial: dial}
	require.NoError(t, reg.Register(path, ""))

	keys, err := keyring.List()
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, "alpha", keys[0].Comment)
	assert.Equal(t, "ssh-ed25519", keys[0].Type())
}

func TestNative_EncryptedKey(t *testing.T) {
	dial, keyring := pipeAgent(t)
	path := generate(t, "hunter2")
	reg := &Native{Socket: "pipe", Dial: dial}

	err := reg.Register(path, "")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrAgent))
	assert.Contains(t, err.Error(), "is encrypted")

	err = reg.Register(path, "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Can't load private key")

	require.NoError(t, reg.Register(path, "hunter2"))
	keys, err := keyring.List()
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}

func TestNative_Failures(t *testing.T) {
	path := generate(t, "")

	t.Run("missing key file", func(t *testing.T) {
		err := (&Native{Socket: "pipe"}).Register(filepath.Join(t.TempDir(), "nope"), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Can't read")
	})

	t.Run("no socket", func(t *testing.T) {
		err := (&Native{}).Register(path, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "No agent socket")
	})

	t.Run("dead socket", func(t *testing.T) {
		err := (&Native{Socket: filepath.Join(t.TempDir(), "gone.sock")}).Register(path, "")
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrAgent))
		assert.Contains(t, err.Error(), "not accessible")
	})
}
