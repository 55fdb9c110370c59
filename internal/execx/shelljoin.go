package execx

import (
	"strings"

	"github.com/kballard/go-shellquote"
)

// ShellJoin renders argv as a copy-pasteable shell command line.
func ShellJoin(argv []string) string {
	return shellquote.Join(argv...)
}

// ShellSplit parses a command line such as "pwsh -NoProfile -Command" into argv.
func ShellSplit(s string) ([]string, error) {
	return shellquote.Split(s)
}

func ContainsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
