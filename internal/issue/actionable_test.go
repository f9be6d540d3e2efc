// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "select packaging convention"},
			expected: "failed to select packaging convention",
		},
		{
			name:     "operation with resource",
			err:      &ActionableError{Operation: "augment classpath", Resource: "/tmp/app"},
			expected: "failed to augment classpath: /tmp/app",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "augment classpath",
				Resource:  "/tmp/app",
				Cause:     errors.New("start script classpath anchor not found"),
			},
			expected: "failed to augment classpath: /tmp/app: start script classpath anchor not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("no library directory")
	err := NewErrorContext().WithOperation("resolve library directory").Wrap(sentinel).BuildError()
	if !errors.Is(err, sentinel) {
		t.Errorf("errors.Is() = false, want the cause to be reachable")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	inner := errors.New("exit status 1")
	err := &ActionableError{
		Operation:   "cache thin dependencies",
		Suggestions: []string{"Check the Java home", "Check repository access"},
		Cause:       errors.Join(errors.New("thin launcher failed"), inner),
	}

	plain := err.Format(false)
	if !strings.Contains(plain, "\n  • Check the Java home") || !strings.Contains(plain, "\n  • Check repository access") {
		t.Errorf("Format(false) = %q, want bulleted suggestions", plain)
	}
	if strings.Contains(plain, "Error chain:") {
		t.Error("Format(false) should not include the error chain")
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:\n  1. ") {
		t.Errorf("Format(true) = %q, want numbered error chain", verbose)
	}
	if !err.HasSuggestions() {
		t.Error("HasSuggestions() = false")
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("/tmp/app").Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if NewErrorContext().BuildError() != nil {
		t.Error("BuildError() without operation should return a nil interface")
	}

	ae := NewErrorContext().
		WithOperation("select packaging convention").
		WithResource("/tmp/app").
		WithSuggestion("Run jbp detect --all").
		WithSuggestions("Check disabled_conventions", "Check the manifest").
		WithIssue(NoConventionId).
		Build()
	if ae == nil {
		t.Fatal("Build() returned nil")
	}
	if len(ae.Suggestions) != 3 {
		t.Errorf("Suggestions = %v, want 3 entries", ae.Suggestions)
	}
	if got := ae.Issue(); got == nil || got.Id() != NoConventionId {
		t.Errorf("Issue() = %v, want the no-convention entry", got)
	}
	if (&ActionableError{Operation: "x"}).Issue() != nil {
		t.Error("Issue() without IssueId should be nil")
	}
}

func TestWrapWithOperation(t *testing.T) {
	t.Parallel()

	if WrapWithOperation(nil, "anything") != nil {
		t.Error("WrapWithOperation(nil) should return nil")
	}
	cause := errors.New("boom")
	if got := WrapWithOperation(cause, "detect"); got.Cause != cause || got.Operation != "detect" {
		t.Errorf("WrapWithOperation() = %+v", got)
	}
}
