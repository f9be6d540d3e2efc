// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode is the exit status of a child process. POSIX statuses are
	// 0-255; -1 is what os/exec reports for a process killed by a signal.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside -1..255.
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// SignalExitCode is the exit code os/exec reports for signalled processes.
const SignalExitCode ExitCode = -1

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be -1 or in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode so callers can use errors.Is for programmatic detection.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate returns an error if the ExitCode is outside the valid range.
func (c ExitCode) Validate() error {
	if c < SignalExitCode || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == 0 }

// IsSignal returns true if the process was terminated by a signal.
func (c ExitCode) IsSignal() bool { return c == SignalExitCode }

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
