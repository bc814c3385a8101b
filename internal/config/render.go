package config

import (
	"github.com/rileyhilliard/keybatch/internal/errors"
	"gopkg.in/yaml.v3"
)

// YAML renders the effective settings in settings-file format.
func (s *Settings) YAML() (string, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to render settings", "")
	}
	return string(out), nil
}
