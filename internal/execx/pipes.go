package execx

import (
	"context"
	"os/exec"
)

func runPipes(exe string, args []string, opts Options) (Result, error) {
	cmd := exec.CommandContext(context.Background(), exe, args...)
	cmd.Dir = opts.Dir
	if len(opts.Env) > 0 {
		cmd.Env = opts.Env
	}

	outTail := NewTail(opts.MaxOutputBytes)
	errTail := NewTail(opts.MaxOutputBytes)
	cmd.Stdout = outTail
	cmd.Stderr = errTail

	if err := cmd.Start(); err != nil {
		return Result{ExitCode: ExitLaunchFailed}, err
	}

	err := cmd.Wait()
	return Result{
		ExitCode: exitCode(err),
		Started:  true,
		Stdout:   outTail.String(),
		Stderr:   errTail.String(),
	}, err
}
