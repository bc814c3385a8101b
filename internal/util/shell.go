package util

import "strings"

const shellSafe = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_./=:@~"

// ShellQuote wraps a string in single quotes, escaping any existing single quotes.
// Strings made only of safe characters are returned as-is.
func ShellQuote(s string) string {
	if s != "" && strings.Trim(s, shellSafe) == "" {
		return s
	}
	// Replace ' with '\'' (end quote, escaped quote, start quote)
	escaped := strings.ReplaceAll(s, "'", "'\\''")
	return "'" + escaped + "'"
}

// CommandLine renders argv for debug logs. The argument following any flag in
// secretFlags is replaced by "***".
func CommandLine(name string, args []string, secretFlags ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, ShellQuote(name))

	redactNext := false
	for _, a := range args {
		if redactNext {
			parts = append(parts, "***")
			redactNext = false
			continue
		}
		for _, f := range secretFlags {
			if a == f {
				redactNext = true
				break
			}
		}
		parts = append(parts, ShellQuote(a))
	}
	return strings.Join(parts, " ")
}
