// SPDX-License-Identifier: MPL-2.0

package thincache

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"github.com/dropletkit/jbp/pkg/types"
)

// ProcessExecutor runs processes on the host with os/exec, capturing
// stdout and stderr together.
type ProcessExecutor struct{}

// Run implements Executor.
func (ProcessExecutor) Run(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	if err == nil {
		return Result{ExitCode: 0, Output: out.String()}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := types.ExitCode(exitErr.ExitCode())
		return Result{ExitCode: code, Output: out.String()}, nil
	}
	return Result{}, err
}
