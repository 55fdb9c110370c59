package runner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joelklabo/scriptshelf/internal/config"
	"github.com/joelklabo/scriptshelf/internal/execx"
	"github.com/joelklabo/scriptshelf/internal/redact"
)

var ErrUnknownKind = errors.New("no interpreter configured for kind")

type Status string

const (
	Success       Status = "success"
	Failure       Status = "failure"
	LaunchFailure Status = "launch_failure"
)

const (
	successTag = "SUCCESS:"
	errorTag   = "ERROR:"
)

type RunResult struct {
	RunID     string
	Kind      string
	Status    Status
	ExitCode  int
	Stdout    string
	Stderr    string
	StartedAt time.Time
	Duration  time.Duration
	// Err is the launch error when Status is LaunchFailure.
	Err error
	// LogErr reports a failed log append. It never changes Status.
	LogErr error
}

func (r RunResult) OK() bool { return r.Status == Success }

// Detail is the operator-facing failure text: stderr for a failed run, the
// launch error otherwise.
func (r RunResult) Detail() string {
	switch r.Status {
	case Failure:
		return strings.TrimSpace(r.Stderr)
	case LaunchFailure:
		if r.Err != nil {
			return r.Err.Error()
		}
	}
	return ""
}

type Runner struct {
	Interpreters   map[string]config.Interpreter
	DefaultKind    string
	LogPath        string
	MaxOutputBytes int
	Redactor       *redact.Redactor

	now   func() time.Time
	newID func() string
}

func New(cfg config.Config) *Runner {
	return &Runner{
		Interpreters:   cfg.Interpreters,
		DefaultKind:    cfg.DefaultKind,
		LogPath:        cfg.LogPath,
		MaxOutputBytes: cfg.MaxOutputBytes,
		Redactor:       redact.Default(),
	}
}

// Run executes content with the default kind's interpreter.
func (r *Runner) Run(content string) RunResult {
	return r.RunNamed("", r.DefaultKind, content)
}

// RunNamed executes content synchronously and appends the outcome to the
// execution log. name only labels the log entry.
func (r *Runner) RunNamed(name, kind, content string) RunResult {
	if strings.TrimSpace(kind) == "" {
		kind = r.DefaultKind
	}
	res := RunResult{
		RunID:     r.id(),
		Kind:      kind,
		StartedAt: r.clock(),
	}

	argv, err := r.Command(kind, content)
	if err != nil {
		res.Status = LaunchFailure
		res.ExitCode = execx.ExitLaunchFailed
		res.Err = err
		res.LogErr = r.appendLog(name, res)
		return res
	}

	start := time.Now()
	out, err := execx.Run(argv[0], argv[1:], execx.Options{MaxOutputBytes: r.MaxOutputBytes})
	res.Duration = time.Since(start)
	res.ExitCode = out.ExitCode
	res.Stdout = out.Stdout
	res.Stderr = out.Stderr

	switch {
	case !out.Started:
		res.Status = LaunchFailure
		res.Err = fmt.Errorf("launch %s: %w", argv[0], err)
	case out.ExitCode == 0:
		res.Status = Success
	default:
		res.Status = Failure
	}

	res.LogErr = r.appendLog(name, res)
	return res
}

// Command returns the full argv used to run content as kind.
func (r *Runner) Command(kind, content string) ([]string, error) {
	interp, ok := r.Interpreters[strings.ToLower(kind)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	argv, err := interp.Argv()
	if err != nil {
		return nil, err
	}
	return append(argv, content), nil
}

func (r *Runner) appendLog(name string, res RunResult) error {
	if strings.TrimSpace(r.LogPath) == "" {
		return nil
	}
	if dir := filepath.Dir(r.LogPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.OpenFile(r.LogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(r.formatEntry(name, res)); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (r *Runner) formatEntry(name string, res RunResult) string {
	tag, body := successTag, res.Stdout
	if res.Status != Success {
		tag, body = errorTag, res.Stderr
		if res.Status == LaunchFailure && res.Err != nil {
			body = res.Err.Error()
		}
	}
	if r.Redactor != nil {
		body = r.Redactor.RedactText(body)
	}

	var b strings.Builder
	b.WriteString(tag)
	b.WriteString(" ")
	b.WriteString(res.StartedAt.UTC().Format(time.RFC3339))
	b.WriteString(" run=")
	b.WriteString(res.RunID)
	if name != "" {
		b.WriteString(" script=")
		b.WriteString(name)
	}
	fmt.Fprintf(&b, " kind=%s exit=%d\n", res.Kind, res.ExitCode)
	b.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Runner) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}

func (r *Runner) id() string {
	if r.newID != nil {
		return r.newID()
	}
	return uuid.NewString()
}
