//go:build !windows

package execx

import (
	"errors"
	"os/exec"
	"syscall"
)

// exitCode follows shell conventions: 128+N for a child killed by signal N.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exec.ExitError
	if !errors.As(err, &ee) {
		return 1
	}
	if ws, ok := ee.Sys().(syscall.WaitStatus); ok {
		if ws.Signaled() {
			return 128 + int(ws.Signal())
		}
		return ws.ExitStatus()
	}
	return ee.ExitCode()
}
