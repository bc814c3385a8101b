package config

import (
	"github.com/rileyhilliard/keybatch/pkg/sshutil"
)

// ExpandTilde replaces ~ or ~/path with the user's home directory.
// ~username is left alone.
func ExpandTilde(path string) string {
	return sshutil.ExpandPath(path)
}

// expandPaths expands the settings that name local files. IdentityDir is
// excluded; it is written into the SSH config as-is.
func (s *Settings) expandPaths() {
	s.SSHConfig = ExpandTilde(s.SSHConfig)
	s.OutputDir = ExpandTilde(s.OutputDir)
}

// Override applies command-line values on top of loaded settings. Empty
// values leave the setting unchanged.
func (s *Settings) Override(sshConfig, outputDir string) {
	if sshConfig != "" {
		s.SSHConfig = ExpandTilde(sshConfig)
	}
	if outputDir != "" {
		s.OutputDir = ExpandTilde(outputDir)
	}
}
