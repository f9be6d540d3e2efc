// SPDX-License-Identifier: MPL-2.0

// Package packaging detects how a Java application was packaged and wires
// additional libraries into its classpath the way that packaging expects.
//
// Each convention is a data-free Strategy. The Registry holds them in a
// fixed precedence order and the first applicable one is selected.
package packaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropletkit/jbp/internal/droplet"
	"github.com/dropletkit/jbp/internal/libdir"
	"github.com/dropletkit/jbp/pkg/types"
)

// Packaging convention kinds, in precedence order.
const (
	KindSpringBootThin     Kind = "spring-boot-thin"
	KindSpringBootExploded Kind = "spring-boot-exploded"
	KindSpringBootFatJar   Kind = "spring-boot-fat-jar"
	KindSpringBootStaged   Kind = "spring-boot-staged"
	KindPlayDist20         Kind = "play-dist-2.0"
	KindPlayDist21         Kind = "play-dist-2.1"
	KindPlayDist22         Kind = "play-dist-2.2+"
)

var (
	// ErrNoConvention is returned when no registered convention applies.
	ErrNoConvention = errors.New("no packaging convention applies")

	// ErrNotApplicable is returned by Version, LibraryDirectory and
	// AugmentClasspath when the strategy does not apply to the application.
	ErrNotApplicable = errors.New("packaging convention does not apply")

	// ErrUnknownVersion is returned when an applicable convention carries no
	// version information.
	ErrUnknownVersion = errors.New("application version not found")

	// ErrUnknownKind is returned when parsing an unrecognized kind name.
	ErrUnknownKind = errors.New("unknown packaging convention")

	allKinds = []Kind{
		KindSpringBootThin,
		KindSpringBootExploded,
		KindSpringBootFatJar,
		KindSpringBootStaged,
		KindPlayDist20,
		KindPlayDist21,
		KindPlayDist22,
	}
)

type (
	// Kind names a packaging convention.
	Kind string

	// Strategy is one packaging convention.
	Strategy interface {
		// Kind returns the convention name.
		Kind() Kind
		// AppliesTo is a structural check of marker files, directories and
		// manifest entries. It fails only when the filesystem is unreadable.
		AppliesTo(app types.FilesystemPath) (bool, error)
		// Version extracts the application or framework version. Callers
		// must check AppliesTo first.
		Version(app types.FilesystemPath) (string, error)
		// LibraryDirectory returns the dependency library directory.
		LibraryDirectory(app types.FilesystemPath) (libdir.Directory, error)
		// AugmentClasspath wires the droplet's additional libraries into the
		// application. Running it again after a success changes nothing.
		AugmentClasspath(ctx context.Context, d *droplet.Droplet) error
	}

	// ThinCacher pre-resolves thin application dependencies.
	ThinCacher interface {
		Dependencies(ctx context.Context, javaHome, appRoot, thinRoot types.FilesystemPath) error
	}

	// NoConventionError is returned by Registry.Select when nothing applies.
	NoConventionError struct {
		App types.FilesystemPath
	}

	// UnknownKindError reports an unrecognized convention name.
	UnknownKindError struct {
		Value string
	}
)

// Error implements the error interface.
func (e *NoConventionError) Error() string {
	return fmt.Sprintf("no packaging convention applies to %s", e.App)
}

// Unwrap returns ErrNoConvention so callers can use errors.Is.
func (e *NoConventionError) Unwrap() error { return ErrNoConvention }

// Error implements the error interface.
func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown packaging convention %q (valid: %v)", e.Value, allKinds)
}

// Unwrap returns ErrUnknownKind so callers can use errors.Is.
func (e *UnknownKindError) Unwrap() error { return ErrUnknownKind }

// Kinds returns every convention kind in precedence order.
func Kinds() []Kind {
	return append([]Kind(nil), allKinds...)
}

// ParseKind parses a convention name.
func ParseKind(s string) (Kind, error) {
	for _, k := range allKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", &UnknownKindError{Value: s}
}

// String returns the kind name.
func (k Kind) String() string { return string(k) }

// IsSpringBoot reports whether k belongs to the Spring Boot family.
func (k Kind) IsSpringBoot() bool {
	switch k {
	case KindSpringBootThin, KindSpringBootExploded, KindSpringBootFatJar, KindSpringBootStaged:
		return true
	default:
		return false
	}
}

func notApplicable(k Kind, app types.FilesystemPath) error {
	return fmt.Errorf("%w: %s to %s", ErrNotApplicable, k, app)
}
