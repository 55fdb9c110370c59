package app

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

func printUnknownCommand(got string, candidates []string) {
	got = strings.TrimSpace(got)
	if got == "" {
		fmt.Fprintln(os.Stderr, "scriptshelf: missing command")
		return
	}
	fmt.Fprintf(os.Stderr, "scriptshelf: unknown command: %s\n", got)
	if s, ok := bestMatch(got, candidates); ok {
		fmt.Fprintf(os.Stderr, "scriptshelf: try: scriptshelf %s\n", s)
	}
	printAvailable("commands", candidates)
}

func printUnknownSubcommand(parent, got string, candidates []string) {
	got = strings.TrimSpace(got)
	if got == "" {
		fmt.Fprintf(os.Stderr, "scriptshelf: missing %s subcommand\n", parent)
		printAvailable(parent+" subcommands", candidates)
		return
	}
	fmt.Fprintf(os.Stderr, "scriptshelf: unknown %s subcommand: %s\n", parent, got)
	if s, ok := bestMatch(got, candidates); ok {
		fmt.Fprintf(os.Stderr, "scriptshelf: try: scriptshelf %s %s\n", parent, s)
	}
	printAvailable(parent+" subcommands", candidates)
}

func printAvailable(label string, candidates []string) {
	if len(candidates) == 0 {
		return
	}
	sorted := append([]string{}, candidates...)
	sort.Strings(sorted)
	fmt.Fprintf(os.Stderr, "scriptshelf: available %s: %s\n", label, strings.Join(sorted, ", "))
}

// bestMatch picks the candidate closest to got: a prefix match beats a
// single-edit typo, ties go to the shorter candidate.
func bestMatch(got string, candidates []string) (string, bool) {
	g := strings.ToLower(strings.TrimSpace(got))
	if g == "" {
		return "", false
	}

	best := ""
	bestScore := 0
	bestLen := 0

	for _, c := range candidates {
		cl := strings.ToLower(c)
		score := 0
		switch {
		case cl == g:
			score = 4
		case strings.HasPrefix(cl, g):
			score = 3
		case strings.HasPrefix(g, cl):
			score = 2
		case fuzzyMatch(g, cl):
			score = 2
		}

		if score == 0 {
			continue
		}
		if score > bestScore || (score == bestScore && (best == "" || len(c) < bestLen)) {
			best = c
			bestScore = score
			bestLen = len(c)
		}
	}

	return best, bestScore > 0
}

func fuzzyMatch(a, b string) bool {
	// Very short names make one-edit matches meaningless.
	if len(a) < 3 || len(b) < 3 {
		return false
	}
	return isOneEditOrTransposition(a, b)
}

func isOneEditOrTransposition(a, b string) bool {
	if a == b {
		return true
	}
	la, lb := len(a), len(b)
	if la == lb {
		mismatch := make([]int, 0, 2)
		for i := 0; i < la; i++ {
			if a[i] != b[i] {
				mismatch = append(mismatch, i)
				if len(mismatch) > 2 {
					return false
				}
			}
		}
		switch len(mismatch) {
		case 1:
			return true
		case 2:
			i, j := mismatch[0], mismatch[1]
			return j == i+1 && a[i] == b[j] && a[j] == b[i]
		default:
			return false
		}
	}

	if la+1 == lb {
		return isOneInsertAway(a, b)
	}
	if lb+1 == la {
		return isOneInsertAway(b, a)
	}
	return false
}

func isOneInsertAway(shorter, longer string) bool {
	i, j := 0, 0
	used := false
	for i < len(shorter) && j < len(longer) {
		if shorter[i] == longer[j] {
			i++
			j++
			continue
		}
		if used {
			return false
		}
		used = true
		j++
	}
	return true
}
