package main

import (
	"os"
	"strings"

	"graph-history/internal/cli"
)

// isDateArg reports whether s looks like YEAR/MONTH[/DAY]; subcommand names
// never contain a slash.
func isDateArg(s string) bool {
	s = strings.Trim(strings.TrimSpace(s), "/")
	return strings.Contains(s, "/") && !strings.HasPrefix(s, "-")
}

func rewriteDateArgs(argv []string) []string {
	// Convenience: `graphhist 2024/Feb/2` works like `graphhist graphs 2024/Feb/2`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv
	// before parsing. Persistent flags may come first, so we look for the first
	// positional token rather than argv[1].
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--config":     true,
		"--output-dir": true,
		"--state-dir":  true,
		"--log-level":  true,
		"--format":     true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isDateArg(argv[i+1]) {
				return insertAt(argv, i+1, "graphs")
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		if isDateArg(a) {
			return insertAt(argv, i, "graphs")
		}
		return argv
	}
	return argv
}

func insertAt(argv []string, i int, words ...string) []string {
	out := make([]string, 0, len(argv)+len(words))
	out = append(out, argv[:i]...)
	out = append(out, words...)
	return append(out, argv[i:]...)
}

func main() {
	os.Args = rewriteDateArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
