package config

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/keybatch/internal/agent"
	"github.com/rileyhilliard/keybatch/internal/errors"
	"github.com/rileyhilliard/keybatch/internal/keygen"
	"github.com/rileyhilliard/keybatch/internal/util"
)

// Validate checks settings for values keybatch can't work with.
func Validate(s *Settings) error {
	if s == nil {
		return errors.New(errors.ErrConfig, "No settings loaded", "")
	}

	required := []struct {
		key, value string
	}{
		{"ssh_config", s.SSHConfig},
		{"output_dir", s.OutputDir},
		{"identity_dir", s.IdentityDir},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("'%s' can't be empty", r.key),
				"Remove it from the settings file to use the default")
		}
	}

	if err := validateChoice("generator", s.Generator, keygen.Kinds); err != nil {
		return err
	}
	return validateChoice("registrar", s.Registrar, agent.Kinds)
}

func validateChoice(key, value string, choices []string) error {
	for _, c := range choices {
		if value == c {
			return nil
		}
	}
	return errors.New(errors.ErrConfig,
		fmt.Sprintf("'%s' isn't a valid %s", value, key),
		"Use one of: "+util.JoinOrNone(choices))
}
