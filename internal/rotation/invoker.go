package rotation

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

var commandContext = exec.CommandContext

// Request describes one external process invocation.
type Request struct {
	Binary string
	Args   []string
}

// Response captures what the process reported. Err is set only when the
// process could not be started or waited on; a non-zero exit is reported
// through ExitCode alone.
type Response struct {
	ExitCode int
	Stderr   string
	Err      error
}

// Invoker runs external processes synchronously.
type Invoker interface {
	Invoke(ctx context.Context, req Request) Response
}

// ExecInvoker runs requests with os/exec, capturing stderr and discarding
// stdout.
type ExecInvoker struct{}

func (ExecInvoker) Invoke(ctx context.Context, req Request) Response {
	cmd := commandContext(ctx, req.Binary, req.Args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	resp := Response{Stderr: stderr.String()}
	if cmd.ProcessState != nil {
		resp.ExitCode = cmd.ProcessState.ExitCode()
	}
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		resp.Err = err
		resp.ExitCode = -1
	}
	return resp
}
