// Package proc runs subprocesses with a bounded lifetime. On timeout the
// process first gets a graceful termination signal; if it is still alive
// after a grace period it is force-killed. Output captured up to that point
// is preserved either way.
package proc

import (
	"bytes"
	"errors"
	"os/exec"
	"syscall"
	"time"
)

// graceTimeout is how long a process gets between the graceful terminate
// signal and the force kill.
const graceTimeout = 5 * time.Second

// Output is the collected outcome of a bounded run.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
	TimedOut bool
	Err      error
}

// Run starts cmd, waits up to timeout, and escalates from SIGTERM to
// SIGKILL if it overruns. The caller configures Dir/Env/Args on cmd; Run
// owns stdout/stderr capture.
func Run(cmd *exec.Cmd, timeout time.Duration) Output {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	out := Output{ExitCode: -1}

	if err := cmd.Start(); err != nil {
		out.Err = err
		return out
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	var waitErr error
	select {
	case waitErr = <-done:
	case <-time.After(timeout):
		out.TimedOut = true
		_ = cmd.Process.Signal(syscall.SIGTERM)
		select {
		case waitErr = <-done:
		case <-time.After(graceTimeout):
			_ = cmd.Process.Kill()
			waitErr = <-done
		}
	}

	out.Stdout = stdout.String()
	out.Stderr = stderr.String()
	out.ExitCode = cmd.ProcessState.ExitCode()

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		out.Err = waitErr
	}
	return out
}
