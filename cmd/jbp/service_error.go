// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/dropletkit/jbp/internal/config"
	"github.com/dropletkit/jbp/internal/issue"
	"github.com/dropletkit/jbp/internal/javahome"
	"github.com/dropletkit/jbp/internal/libdir"
	"github.com/dropletkit/jbp/internal/packaging"
	"github.com/dropletkit/jbp/internal/startscript"
	"github.com/dropletkit/jbp/internal/thincache"
	"github.com/dropletkit/jbp/pkg/tokver"
)

// ServiceError is an error that carries optional rendering information for
// the CLI layer. Always create via newServiceError.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
	// StyledMessage is the optional pre-rendered styled error text.
	StyledMessage string
}

// issueRules maps sentinel errors to catalog entries. The first match wins.
var issueRules = []struct {
	target error
	id     issue.Id
}{
	{packaging.ErrNoConvention, issue.NoConventionId},
	{packaging.ErrUnknownKind, issue.UnknownConventionId},
	{libdir.ErrNoLibraryDirectory, issue.NoLibraryDirectoryId},
	{startscript.ErrMissingAnchor, issue.MissingAnchorId},
	{startscript.ErrInvalidScript, issue.InvalidScriptId},
	{thincache.ErrSubprocessFailure, issue.SubprocessFailureId},
	{packaging.ErrMissingJavaHome, issue.MissingJavaHomeId},
	{packaging.ErrUnexplodedArchive, issue.UnexplodedArchiveId},
	{javahome.ErrNoReleaseVersion, issue.MissingJavaHomeId},
	{tokver.ErrMalformedVersion, issue.MalformedVersionId},
	{config.ErrInvalidConfig, issue.ConfigLoadFailedId},
	{fs.ErrPermission, issue.PermissionDeniedId},
	{fs.ErrNotExist, issue.ApplicationNotFoundId},
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
func newServiceError(err error, issueID issue.Id, styledMessage string) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		StyledMessage: styledMessage,
	}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// classifyError picks the catalog entry for err. An ActionableError that
// names an issue keeps it.
func classifyError(err error) issue.Id {
	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.IssueId != 0 {
		return ae.IssueId
	}
	for _, rule := range issueRules {
		if errors.Is(err, rule.target) {
			return rule.id
		}
	}
	return 0
}

// renderServiceError prints any styled message first, then the issue help.
func renderServiceError(stderr io.Writer, svcErr *ServiceError) {
	if svcErr == nil {
		return
	}

	if svcErr.StyledMessage != "" {
		fmt.Fprint(stderr, svcErr.StyledMessage)
	}

	if svcErr.IssueID == 0 {
		return
	}

	if catalogEntry := issue.Get(svcErr.IssueID); catalogEntry != nil {
		rendered, renderErr := catalogEntry.Render("dark")
		if renderErr != nil {
			slog.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", renderErr)
		} else {
			fmt.Fprint(stderr, rendered)
		}
	}
}

// fail renders the catalog entry for err and returns the error to hand
// back to cobra.
func (a *App) fail(err error) error {
	if err == nil {
		return nil
	}
	verbose := a.flags != nil && a.flags.verbose
	svcErr := newServiceError(err, classifyError(err), "")
	if verbose {
		svcErr.StyledMessage = VerboseStyle.Render(formatErrorForDisplay(err, true)) + "\n"
	}
	renderServiceError(a.stderr, svcErr)
	return &ExitError{Code: 1, Err: svcErr}
}

// formatErrorForDisplay formats an error for user display.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
