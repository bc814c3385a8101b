package cli

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/keybatch/internal/errors"
)

// Invocation is the parsed command line.
type Invocation struct {
	Names      []string
	Passphrase bool // -p

	Help          bool
	Version       bool
	NoColor       bool
	PrintSettings bool

	SettingsFile string
	SSHConfig    string
	OutputDir    string
}

// valueOptions take the next token (or an =value suffix) as their argument.
var valueOptions = map[string]func(*Invocation, string){
	"--settings":   func(inv *Invocation, v string) { inv.SettingsFile = v },
	"--ssh-config": func(inv *Invocation, v string) { inv.SSHConfig = v },
	"--output-dir": func(inv *Invocation, v string) { inv.OutputDir = v },
}

// ParseArgs parses the keybatch command line.
//
// -n starts or restarts name collection and every following token that is
// not a known option is a name. -p and the other options end collection. A
// bare token outside collection, or an unknown option, is a usage error.
// At least one name is required unless --help, --version or
// --print-settings was given.
func ParseArgs(args []string) (*Invocation, error) {
	inv := &Invocation{}
	collecting := false

	for i := 0; i < len(args); i++ {
		tok := args[i]

		if name, value, ok := strings.Cut(tok, "="); ok {
			if set, known := valueOptions[name]; known {
				if value == "" {
					return nil, usageError(fmt.Sprintf("%s needs a value", name))
				}
				set(inv, value)
				collecting = false
				continue
			}
		}
		if set, ok := valueOptions[tok]; ok {
			if i+1 >= len(args) || args[i+1] == "" {
				return nil, usageError(fmt.Sprintf("%s needs a value", tok))
			}
			i++
			set(inv, args[i])
			collecting = false
			continue
		}

		switch tok {
		case "-n":
			collecting = true
		case "-p":
			inv.Passphrase = true
			collecting = false
		case "-h", "--help":
			inv.Help = true
			collecting = false
		case "--version":
			inv.Version = true
			collecting = false
		case "--no-color":
			inv.NoColor = true
			collecting = false
		case "--print-settings":
			inv.PrintSettings = true
			collecting = false
		default:
			switch {
			case collecting && tok == "":
				return nil, usageError("Key names can't be empty")
			case collecting && strings.ContainsAny(tok, " \t\r\n"):
				return nil, usageError(fmt.Sprintf("Key name %q can't contain whitespace", tok))
			case collecting:
				inv.Names = append(inv.Names, tok)
			case strings.HasPrefix(tok, "-"):
				return nil, usageError(fmt.Sprintf("Unknown option %s", tok))
			default:
				return nil, usageError(fmt.Sprintf("Unexpected argument %q, key names go after -n", tok))
			}
		}
	}

	if inv.Help || inv.Version || inv.PrintSettings {
		return inv, nil
	}
	if len(inv.Names) == 0 {
		return nil, usageError("No key names given")
	}
	return inv, nil
}

func usageError(msg string) error {
	return errors.New(errors.ErrUsage, msg, "Run 'keybatch --help' for usage")
}
