// SPDX-License-Identifier: MPL-2.0

// Package thincache pre-resolves the dependencies of a Spring Boot thin jar
// by running the thin launcher in dry-run mode before the application first
// boots.
package thincache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/dropletkit/jbp/pkg/fspath"
	"github.com/dropletkit/jbp/pkg/platform"
	"github.com/dropletkit/jbp/pkg/types"
)

// WrapperClass is the thin launcher entry point.
const WrapperClass = "org.springframework.boot.loader.wrapper.ThinJarWrapper"

// ErrSubprocessFailure is the sentinel error wrapped by SubprocessFailureError.
var ErrSubprocessFailure = errors.New("dependency caching process failed")

type (
	// Result is the outcome of a finished process.
	Result struct {
		ExitCode types.ExitCode
		Output   string
	}

	// Executor runs a process to completion. Implementations return an error
	// only when the process could not be run at all; a non-zero exit is
	// reported through Result.
	Executor interface {
		Run(ctx context.Context, name string, args ...string) (Result, error)
	}

	// SubprocessFailureError reports a non-zero exit of the caching process.
	SubprocessFailureError struct {
		Command  []string
		ExitCode types.ExitCode
		Output   string
	}

	// Cache runs the thin launcher through an Executor.
	Cache struct {
		exec Executor
	}
)

// Error implements the error interface.
func (e *SubprocessFailureError) Error() string {
	if e.ExitCode.IsSignal() {
		return fmt.Sprintf("%s was killed by a signal", CommandLine(e.Command))
	}
	return fmt.Sprintf("%s exited with code %s", CommandLine(e.Command), e.ExitCode)
}

// Unwrap returns ErrSubprocessFailure so callers can use errors.Is.
func (e *SubprocessFailureError) Unwrap() error { return ErrSubprocessFailure }

// New creates a cache runner. A nil executor runs real processes.
func New(exec Executor) *Cache {
	if exec == nil {
		exec = ProcessExecutor{}
	}
	return &Cache{exec: exec}
}

// Command returns the argv that caches dependencies of the application at
// appRoot into thinRoot using the Java installation at javaHome.
func Command(javaHome, appRoot, thinRoot types.FilesystemPath) []string {
	return []string{
		string(fspath.JoinStr(javaHome, "bin", platform.HostExecutableName("java"))),
		"-Dthin.dryrun",
		"-Dthin.root=" + string(thinRoot),
		"-cp",
		string(appRoot),
		WrapperClass,
	}
}

// CommandLine renders argv as a shell command line for messages. Arguments
// that cannot be quoted are written as is.
func CommandLine(argv []string) string {
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		q, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			q = arg
		}
		quoted[i] = q
	}
	return strings.Join(quoted, " ")
}

// Dependencies runs the thin launcher once and blocks until it exits. The
// context is passed to the executor; no timeout is added.
func (c *Cache) Dependencies(ctx context.Context, javaHome, appRoot, thinRoot types.FilesystemPath) error {
	for _, p := range []types.FilesystemPath{javaHome, appRoot, thinRoot} {
		if err := p.Validate(); err != nil {
			return err
		}
	}

	argv := Command(javaHome, appRoot, thinRoot)
	slog.Debug("caching thin dependencies", "command", CommandLine(argv))

	res, err := c.exec.Run(ctx, argv[0], argv[1:]...)
	if err != nil {
		return fmt.Errorf("running %s: %w", argv[0], err)
	}
	if !res.ExitCode.IsSuccess() {
		return &SubprocessFailureError{Command: argv, ExitCode: res.ExitCode, Output: res.Output}
	}
	return nil
}
