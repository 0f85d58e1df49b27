package launcher

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
)

// Streams are the standard streams handed to the child. The CLI passes its
// own so the child inherits the terminal.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// StdStreams returns the process's own standard streams.
func StdStreams() Streams {
	return Streams{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Result is how the child ended. A child killed by a signal reports no exit
// code of its own; it gets ExitCode 0 with Signaled set.
type Result struct {
	ExitCode int
	Signaled bool
	Signal   string
}

// Run executes binPath with args unmodified and waits for it. A non-zero exit
// is not an error: it is reported in Result. The error return is reserved for
// failing to start the child at all.
//
// No context is taken. Terminal signals reach the child directly and the
// parent keeps waiting so it can pass the child's status through.
func Run(binPath string, args []string, s Streams) (Result, error) {
	cmd := exec.Command(binPath, args...)
	cmd.Stdin = s.Stdin
	cmd.Stdout = s.Stdout
	cmd.Stderr = s.Stderr

	err := cmd.Run()
	if err == nil {
		return Result{}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return resultFromState(exitErr.ProcessState), nil
	}
	return Result{ExitCode: 1}, fmt.Errorf("Failed to execute %s: %w", filepath.Base(binPath), err)
}

func resultFromState(ps *os.ProcessState) Result {
	if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return Result{Signaled: true, Signal: ws.Signal().String()}
	}
	code := ps.ExitCode()
	if code < 0 {
		code = 0
	}
	return Result{ExitCode: code}
}
