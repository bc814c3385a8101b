package sshutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/keybatch/internal/errors"
	"github.com/rileyhilliard/keybatch/internal/logger"
)

// PlaceholderValue fills HostName and User in generated stanzas. The user is
// expected to edit it by hand.
const PlaceholderValue = "CHANGEME"

// DefaultIdentityDir is the directory written into IdentityFile lines.
const DefaultIdentityDir = "~/.ssh"

// fixedAuthOptions follow the identity line in every generated stanza.
var fixedAuthOptions = []string{
	"PreferredAuthentications publickey",
	"IdentitiesOnly yes",
	"AddKeysToAgent yes",
}

// ConfigFile appends Host stanzas to an SSH client config file. It only ever
// appends: existing stanzas are never rewritten, so a stale entry for an
// alias stays stale.
type ConfigFile struct {
	Path        string
	IdentityDir string // written verbatim, "~" is not expanded
	Logger      logger.Logger
}

// NewConfigFile returns a ConfigFile for path. An empty identityDir means
// DefaultIdentityDir.
func NewConfigFile(path, identityDir string) *ConfigFile {
	if identityDir == "" {
		identityDir = DefaultIdentityDir
	}
	return &ConfigFile{
		Path:        path,
		IdentityDir: identityDir,
		Logger:      logger.NewEnvLogger("[sshconfig]"),
	}
}

// IdentityFileFor returns the IdentityFile value written for alias.
func (c *ConfigFile) IdentityFileFor(alias string) string {
	dir := strings.TrimRight(c.IdentityDir, "/")
	if dir == "" {
		return alias
	}
	return dir + "/" + alias
}

// Stanza renders the block appended for alias, without the leading blank line.
func (c *ConfigFile) Stanza(alias string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Host %s\n", alias)
	fmt.Fprintf(&b, "    HostName %s\n", PlaceholderValue)
	fmt.Fprintf(&b, "    User %s\n", PlaceholderValue)
	fmt.Fprintf(&b, "    IdentityFile %s\n", c.IdentityFileFor(alias))
	for _, opt := range fixedAuthOptions {
		fmt.Fprintf(&b, "    %s\n", opt)
	}
	return b.String()
}

// HasHost reports whether the file has a Host line naming alias as one of its
// patterns. The match is on whole tokens: "Host alpha2" does not match alpha.
// A missing file has no hosts.
func (c *ConfigFile) HasHost(alias string) (bool, error) {
	content, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.WrapWithCode(err, errors.ErrSSHConfig,
			fmt.Sprintf("Can't read %s", c.Path),
			"Check the file permissions")
	}
	return hostLinePresent(content, alias), nil
}

func hostLinePresent(content []byte, alias string) bool {
	for _, line := range strings.Split(string(content), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || !strings.EqualFold(fields[0], "Host") {
			continue
		}
		// an older run may have written a multi-word alias on one line
		if strings.Join(fields[1:], " ") == alias {
			return true
		}
		for _, pattern := range fields[1:] {
			if pattern == alias {
				return true
			}
		}
	}
	return false
}

// EnsureHost makes sure the file holds a stanza for alias. It returns true if
// a stanza was appended and false if one was already present. The parent
// directory (0700) and the file (0600) are created when missing.
func (c *ConfigFile) EnsureHost(alias string) (bool, error) {
	if alias == "" {
		return false, errors.New(errors.ErrSSHConfig,
			"Empty host alias",
			"Pass a non-empty key name")
	}
	if strings.ContainsAny(alias, " \t\r\n") {
		return false, errors.New(errors.ErrSSHConfig,
			fmt.Sprintf("Host alias %q contains whitespace", alias),
			"ssh reads each word of a Host line as a separate pattern; pick a name without spaces")
	}

	present, err := c.HasHost(alias)
	if err != nil {
		return false, err
	}
	if present {
		c.log().Debug("Host %s already in %s", alias, c.Path)
		return false, nil
	}

	dir := filepath.Dir(c.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return false, errors.WrapWithCode(err, errors.ErrSSHConfig,
			fmt.Sprintf("Failed to create directory %s", dir),
			"Check permissions on the parent directory")
	}

	needsNewline, err := missingTrailingNewline(c.Path)
	if err != nil {
		return false, errors.WrapWithCode(err, errors.ErrSSHConfig,
			fmt.Sprintf("Can't read %s", c.Path),
			"Check the file permissions")
	}

	f, err := os.OpenFile(c.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return false, errors.WrapWithCode(err, errors.ErrSSHConfig,
			fmt.Sprintf("Can't open %s for writing", c.Path),
			"Check that the file is writable")
	}

	block := "\n" + c.Stanza(alias)
	if needsNewline {
		block = "\n" + block
	}

	if _, err := f.WriteString(block); err != nil {
		f.Close() //nolint:errcheck // write error takes precedence
		return false, errors.WrapWithCode(err, errors.ErrSSHConfig,
			fmt.Sprintf("Failed to append Host %s to %s", alias, c.Path),
			"Check disk space and permissions")
	}
	if err := f.Close(); err != nil {
		return false, errors.WrapWithCode(err, errors.ErrSSHConfig,
			fmt.Sprintf("Failed to append Host %s to %s", alias, c.Path),
			"Check disk space and permissions")
	}

	c.verify(alias)
	return true, nil
}

// verify re-reads the file through the ssh_config parser and logs at debug
// level when the new alias does not resolve to the identity just written.
// Earlier wildcard stanzas or syntax the parser rejects can cause this; the
// append stands either way.
func (c *ConfigFile) verify(alias string) {
	entry, ok, err := LookupHost(c.Path, alias)
	switch {
	case err != nil:
		c.log().Debug("Could not parse %s after appending Host %s: %v", c.Path, alias, err)
	case !ok:
		c.log().Debug("Host %s not visible to the parser in %s (Match block above it?)", alias, c.Path)
	case entry.IdentityFile != expandPath(c.IdentityFileFor(alias)):
		c.log().Debug("Host %s resolves IdentityFile to %s, expected %s",
			alias, entry.IdentityFile, expandPath(c.IdentityFileFor(alias)))
	case !entry.Placeholder():
		c.log().Debug("Host %s picks up HostName %s and User %s from an earlier block",
			alias, entry.Hostname, entry.User)
	}
}

func (c *ConfigFile) log() logger.Logger {
	if c.Logger == nil {
		return logger.Noop()
	}
	return c.Logger
}

func missingTrailingNewline(path string) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return len(content) > 0 && content[len(content)-1] != '\n', nil
}
