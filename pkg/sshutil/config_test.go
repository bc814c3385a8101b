package sshutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSSHConfigFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config")

	configContent := `
Host deploy-key
    HostName CHANGEME
    User CHANGEME
    IdentityFile ~/.ssh/deploy-key
    IdentitiesOnly yes

Host build build-alt
    HostName build.internal
    User ci
    Port 2200

Host *
    ServerAliveInterval 60

Host ci-*
    User ci
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0600))

	hosts, err := ParseSSHConfigFile(configPath)
	require.NoError(t, err)

	// wildcard patterns are dropped
	require.Len(t, hosts, 3)
	assert.Equal(t, "build", hosts[0].Alias)
	assert.Equal(t, "build-alt", hosts[1].Alias)
	assert.Equal(t, "deploy-key", hosts[2].Alias)

	build := hosts[0]
	assert.Equal(t, "build.internal", build.Hostname)
	assert.Equal(t, "ci", build.User)
	assert.Equal(t, "2200", build.Port)
	assert.Empty(t, build.IdentityFile)

	deploy := hosts[2]
	assert.Equal(t, PlaceholderValue, deploy.Hostname)
	assert.True(t, deploy.Placeholder())
	assert.True(t, filepath.IsAbs(deploy.IdentityFile), "IdentityFile should be tilde-expanded")
	assert.Equal(t, "deploy-key", filepath.Base(deploy.IdentityFile))
}

func TestParseSSHConfigFileNotExists(t *testing.T) {
	hosts, err := ParseSSHConfigFile("/nonexistent/config")

	assert.NoError(t, err)
	assert.Nil(t, hosts)
}

func TestParseSSHConfigWithMatch(t *testing.T) {
	// Create a temp SSH config with Match directive
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config")

	configContent := `
Host before-match
    HostName before.example.com

Match host *.example.com
    User matchuser

Host after-match
    HostName after.example.com
`

	err := os.WriteFile(configPath, []byte(configContent), 0600)
	require.NoError(t, err)

	hosts, err := ParseSSHConfigFile(configPath)
	require.NoError(t, err)

	// Should only see the host before the Match directive
	assert.Len(t, hosts, 1)
	assert.Equal(t, "before-match", hosts[0].Alias)
}

func TestSSHHostEntry_Placeholder(t *testing.T) {
	assert.True(t, SSHHostEntry{Alias: "a", Hostname: PlaceholderValue, User: PlaceholderValue}.Placeholder())
	assert.True(t, SSHHostEntry{Alias: "a", Hostname: "real.example.com", User: PlaceholderValue}.Placeholder())
	assert.False(t, SSHHostEntry{Alias: "a", Hostname: "real.example.com", User: "me"}.Placeholder())
}

func TestLookupHost(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(configPath, []byte("Host alpha beta\n    HostName alpha.example.com\n"), 0600))

	entry, ok, err := LookupHost(configPath, "beta")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "alpha.example.com", entry.Hostname)

	_, ok, err = LookupHost(configPath, "gamma")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = LookupHost(filepath.Join(t.TempDir(), "missing"), "alpha")
	require.NoError(t, err)
	assert.False(t, ok)
}
