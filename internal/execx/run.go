package execx

import (
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether stdin and stdout are both usable terminals.
func IsTTY() bool {
	stdinFd := int(os.Stdin.Fd())
	stdoutFd := int(os.Stdout.Fd())

	if !term.IsTerminal(stdinFd) || !term.IsTerminal(stdoutFd) {
		return false
	}

	// A detached terminal can still pass IsTerminal; GetState fails on it.
	if _, err := term.GetState(stdinFd); err != nil {
		return false
	}

	return true
}

// ExitLaunchFailed is the exit code reported when the process never started.
const ExitLaunchFailed = 127

type Options struct {
	Dir string
	Env []string
	// MaxOutputBytes caps each captured stream, keeping the tail. Zero or
	// less captures everything.
	MaxOutputBytes int
}

type Result struct {
	ExitCode int
	Started  bool
	Stdout   string
	Stderr   string
}

// Run executes exe synchronously with stdin attached to the null device and
// returns the captured streams. A non-nil error with Started=false means the
// process could not be launched; with Started=true it is the wait error for a
// non-zero exit.
func Run(exe string, args []string, opts Options) (Result, error) {
	return runPipes(exe, args, opts)
}
