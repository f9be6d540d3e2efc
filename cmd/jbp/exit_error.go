// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/dropletkit/jbp/pkg/types"
)

// ExitError carries the status jbp exits with out of a RunE handler. The
// error itself has already been rendered to stderr.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("jbp exited with status %d", e.Code)
}

// Unwrap returns the rendered error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitStatus maps a command error to a process status. Errors that never
// went through App.fail, and codes a shell cannot report, exit with 1.
func exitStatus(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code.IsSuccess() || exitErr.Code.IsSignal() || exitErr.Code.Validate() != nil {
		return 1
	}
	return int(exitErr.Code)
}
