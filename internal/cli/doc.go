// Package cli implements the keybatch command line.
//
// There is a single Cobra root command with flag parsing disabled; ParseArgs
// implements the grammar because -n takes a variable-length list of names:
//
//	keybatch -n alpha beta -p
//
// App.Run wires the pieces together in a fixed order:
//
//  1. Parse arguments (usage errors exit 2 before anything else happens)
//  2. Load settings (defaults, settings file, KEYBATCH_* variables, options)
//  3. Read the passphrase when -p was given
//  4. Probe SSH_AUTH_SOCK once and pick the generator and registrar
//  5. Hand the names to provision.Provisioner and print the summary
//
// Per-key failures never change the exit code.
package cli
