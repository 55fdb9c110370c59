package redact

import "regexp"

const placeholder = "<redacted>"

type rule struct {
	re   *regexp.Regexp
	repl string
}

// Redactor scrubs secret-looking text from captured script output before it
// is persisted to the execution log or the run history.
type Redactor struct {
	rules []rule
}

func Default() *Redactor {
	whole := func(expr string) rule {
		return rule{re: regexp.MustCompile(expr), repl: placeholder}
	}
	keepKey := func(expr string) rule {
		return rule{re: regexp.MustCompile(expr), repl: "${1}" + placeholder}
	}

	return &Redactor{
		rules: []rule{
			whole(`(?i)\bghp_[A-Za-z0-9]{20,}\b`),
			whole(`(?i)\bgithub_pat_[A-Za-z0-9_]{20,}\b`),
			whole(`\bAKIA[0-9A-Z]{16}\b`),
			whole(`(?i)\bxox[baprs]-[A-Za-z0-9-]{10,}\b`),
			whole(`(?i)\beyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\b`),
			keepKey(`(?i)(authorization:\s*(?:bearer|basic)\s+)\S+`),
			{re: regexp.MustCompile(`(://[^/\s:@]+:)[^/\s@]+@`), repl: "${1}" + placeholder + "@"},
			keepKey(`(?i)(\b(?:password|passwd|secret|token|api[_-]?key)\s*[=:]\s*)("[^"]*"|'[^']*'|\S+)`),
			// PowerShell-style named parameters: -Password 'x'
			keepKey(`(?i)(-(?:password|token|apikey|clientsecret)\s+)("[^"]*"|'[^']*'|\S+)`),
		},
	}
}

func (r *Redactor) RedactText(s string) string {
	out := s
	for _, rl := range r.rules {
		out = rl.re.ReplaceAllString(out, rl.repl)
	}
	return out
}
