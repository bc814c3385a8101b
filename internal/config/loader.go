package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/keybatch/internal/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. KEYBATCH_SSH_CONFIG.
	EnvPrefix = "KEYBATCH"
	// GlobalConfigDir is the directory for the settings file, under $HOME.
	GlobalConfigDir = ".config/keybatch"
	// GlobalConfigFile is the settings file name.
	GlobalConfigFile = "config.yaml"
)

// Load reads settings. Precedence, lowest first: defaults, the settings file,
// KEYBATCH_* environment variables. explicit names a settings file that must
// exist; when empty, ~/.config/keybatch/config.yaml is used if present.
func Load(explicit string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	path, err := Find(explicit)
	if err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read settings file "+path,
				"Check the file is valid YAML")
		}
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid settings format",
			"Check the value types in "+path)
	}
	s.Source = path
	s.expandPaths()

	if err := Validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Find locates the settings file: the explicit path if given (it must
// exist), else the global file if it exists, else "".
func Find(explicit string) (string, error) {
	if explicit != "" {
		explicit = ExpandTilde(explicit)
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Settings file not found: "+explicit,
					"Check the path passed to --settings")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access settings file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", nil
	}
	global := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
	if _, err := os.Stat(global); err == nil {
		return global, nil
	}
	return "", nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultSettings()
	v.SetDefault("ssh_config", d.SSHConfig)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("identity_dir", d.IdentityDir)
	v.SetDefault("comment", d.Comment)
	v.SetDefault("generator", d.Generator)
	v.SetDefault("registrar", d.Registrar)
}
