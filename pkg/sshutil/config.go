package sshutil

import (
	"bytes"
	"os"
	"sort"
	"strings"

	"github.com/kevinburke/ssh_config"
)

// SSHHostEntry represents a parsed host entry from SSH config.
type SSHHostEntry struct {
	Alias        string // The Host pattern (alias)
	Hostname     string // The HostName value (actual host to connect to)
	User         string // The User value
	Port         string // The Port value
	IdentityFile string // The IdentityFile value, tilde-expanded
}

// Placeholder reports whether the entry still carries the CHANGEME values
// written by EnsureHost.
func (h SSHHostEntry) Placeholder() bool {
	return h.Hostname == PlaceholderValue || h.User == PlaceholderValue
}

// ParseSSHConfigFile parses the specified SSH config file and returns all
// concrete host aliases, sorted. Wildcard patterns are skipped. A missing
// file yields no hosts and no error.
func ParseSSHConfigFile(configPath string) ([]SSHHostEntry, error) {
	content, _, err := preprocessSSHConfig(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	cfg, err := ssh_config.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	var hosts []SSHHostEntry
	seen := make(map[string]bool)

	for _, host := range cfg.Hosts {
		for _, pattern := range host.Patterns {
			alias := pattern.String()

			if strings.ContainsAny(alias, "*?") {
				continue
			}
			if seen[alias] {
				continue
			}
			seen[alias] = true

			entry := SSHHostEntry{Alias: alias}
			entry.Hostname, _ = cfg.Get(alias, "HostName")
			entry.User, _ = cfg.Get(alias, "User")
			entry.Port, _ = cfg.Get(alias, "Port")
			if identity, _ := cfg.Get(alias, "IdentityFile"); identity != "" {
				entry.IdentityFile = expandPath(identity)
			}

			hosts = append(hosts, entry)
		}
	}

	sort.Slice(hosts, func(i, j int) bool {
		return hosts[i].Alias < hosts[j].Alias
	})

	return hosts, nil
}

// LookupHost returns the parsed entry for alias, or false if the file has none.
func LookupHost(configPath, alias string) (SSHHostEntry, bool, error) {
	hosts, err := ParseSSHConfigFile(configPath)
	if err != nil {
		return SSHHostEntry{}, false, err
	}
	for _, h := range hosts {
		if h.Alias == alias {
			return h, true, nil
		}
	}
	return SSHHostEntry{}, false, nil
}

// preprocessSSHConfig reads the SSH config and returns content up to the first
// Match directive, which the parser does not support. The second return value
// is the 1-indexed line of that directive, or 0 if there is none.
func preprocessSSHConfig(configPath string) ([]byte, int, error) {
	content, err := os.ReadFile(configPath)
	if err != nil {
		return nil, 0, err
	}

	lines := strings.Split(string(content), "\n")
	var result []string
	matchLine := 0

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(strings.ToLower(trimmed), "match ") {
			matchLine = i + 1
			break
		}
		result = append(result, line)
	}

	return []byte(strings.Join(result, "\n")), matchLine, nil
}
