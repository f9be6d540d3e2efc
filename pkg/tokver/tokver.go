// SPDX-License-Identifier: MPL-2.0

// Package tokver implements tokenized versions: dotted major.minor.patch
// triplets with an optional qualifier, compared position by position.
//
// Comparison targets may use the wildcard token "+" to mean "any value at
// this position", which is how version ranges are expressed (e.g. "1.8.+").
// Concrete versions, such as the version of an installed Java runtime, never
// contain wildcards.
package tokver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Wildcard is the textual form of a wildcard token.
const Wildcard = "+"

// componentCount is the number of comparable tokens in every Version.
const componentCount = 3

// ErrMalformedVersion is the sentinel error wrapped by MalformedVersionError.
var ErrMalformedVersion = errors.New("malformed version")

type (
	// Token is a single comparable version component: a non-negative
	// integer, or a wildcard that matches any value.
	Token struct {
		value    int
		wildcard bool
	}

	// Version is an immutable major.minor.patch triplet. The qualifier is
	// retained for display only and never takes part in ordering.
	Version struct {
		tokens    [componentCount]Token
		qualifier string
		separator byte
	}

	// MalformedVersionError is returned when a string cannot be parsed into
	// a Version.
	MalformedVersionError struct {
		Value  string
		Reason string
	}
)

// Error implements the error interface.
func (e *MalformedVersionError) Error() string {
	return fmt.Sprintf("malformed version %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrMalformedVersion so callers can use errors.Is.
func (e *MalformedVersionError) Unwrap() error { return ErrMalformedVersion }

// Number returns a concrete numeric token.
func Number(n int) Token { return Token{value: n} }

// Any returns a wildcard token.
func Any() Token { return Token{wildcard: true} }

// IsWildcard reports whether the token matches any value.
func (t Token) IsWildcard() bool { return t.wildcard }

// Value returns the numeric value of a concrete token (0 for wildcards).
func (t Token) Value() int { return t.value }

// String returns the token as written in a version string.
func (t Token) String() string {
	if t.wildcard {
		return Wildcard
	}
	return strconv.Itoa(t.value)
}

// Parse parses a concrete version such as "1.8.0", "1.8.0_292" or
// "2.1.4-RC1". All three numeric components are required.
func Parse(s string) (Version, error) {
	return parse(s, false)
}

// ParsePattern parses a comparison target. In addition to everything Parse
// accepts, the wildcard "+" may appear as the last written component, and
// components omitted after it are wildcards too ("1.+" is "1.+.+").
func ParsePattern(s string) (Version, error) {
	return parse(s, true)
}

// MustParse is like ParsePattern but panics on error. It is meant for
// package-level thresholds.
func MustParse(s string) Version {
	v, err := ParsePattern(s)
	if err != nil {
		panic(err)
	}
	return v
}

func parse(s string, allowWildcards bool) (Version, error) {
	malformed := func(reason string) (Version, error) {
		return Version{}, &MalformedVersionError{Value: s, Reason: reason}
	}

	if strings.TrimSpace(s) == "" {
		return malformed("must not be empty")
	}

	numeric, qualifier, separator := splitQualifier(s)
	if numeric == "" {
		return malformed("missing major component")
	}

	parts := strings.Split(numeric, ".")
	if len(parts) > componentCount {
		return malformed(fmt.Sprintf("at most %d components allowed", componentCount))
	}

	var v Version
	v.qualifier = qualifier
	v.separator = separator
	sawWildcard := false

	for i, part := range parts {
		switch {
		case part == Wildcard:
			if !allowWildcards {
				return malformed("wildcards are only allowed in comparison targets")
			}
			if i != len(parts)-1 {
				return malformed("a wildcard must be the last component")
			}
			v.tokens[i] = Any()
			sawWildcard = true
		case part == "":
			return malformed(fmt.Sprintf("component %d is empty", i+1))
		default:
			n, err := strconv.Atoi(part)
			if err != nil || n < 0 || strings.HasPrefix(part, "+") || strings.HasPrefix(part, "-") {
				return malformed(fmt.Sprintf("component %q is not a non-negative integer", part))
			}
			v.tokens[i] = Number(n)
		}
	}

	if sawWildcard {
		if qualifier != "" {
			return malformed("a wildcard version cannot carry a qualifier")
		}
		for i := len(parts); i < componentCount; i++ {
			v.tokens[i] = Any()
		}
		return v, nil
	}

	if len(parts) < componentCount {
		return malformed(fmt.Sprintf("expected %d components, found %d", componentCount, len(parts)))
	}

	return v, nil
}

// splitQualifier separates the numeric part from a qualifier introduced by
// the first '_' or '-'.
func splitQualifier(s string) (numeric, qualifier string, separator byte) {
	if i := strings.IndexAny(s, "_-"); i >= 0 {
		return s[:i], s[i+1:], s[i]
	}
	return s, "", 0
}

// Tokens returns the major, minor and patch tokens.
func (v Version) Tokens() [componentCount]Token { return v.tokens }

// Major returns the major token.
func (v Version) Major() Token { return v.tokens[0] }

// Minor returns the minor token.
func (v Version) Minor() Token { return v.tokens[1] }

// Patch returns the patch token.
func (v Version) Patch() Token { return v.tokens[2] }

// Qualifier returns the qualifier, or "" if there is none.
func (v Version) Qualifier() string { return v.qualifier }

// HasWildcard reports whether any token is a wildcard.
func (v Version) HasWildcard() bool {
	for _, t := range v.tokens {
		if t.wildcard {
			return true
		}
	}
	return false
}

// String renders the version. Trailing wildcards are preserved as written
// in expanded form ("1.+" renders as "1.+.+").
func (v Version) String() string {
	var sb strings.Builder
	for i, t := range v.tokens {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(t.String())
	}
	if v.qualifier != "" {
		sb.WriteByte(v.separator)
		sb.WriteString(v.qualifier)
	}
	return sb.String()
}

// Compare returns -1 if a < b, 0 if a == b and 1 if a > b. Positions where
// either side is a wildcard are skipped; the first remaining unequal pair
// decides.
func Compare(a, b Version) int {
	for i := range componentCount {
		ta, tb := a.tokens[i], b.tokens[i]
		if ta.wildcard || tb.wildcard {
			continue
		}
		switch {
		case ta.value < tb.value:
			return -1
		case ta.value > tb.value:
			return 1
		}
	}
	return 0
}

// Less reports whether v < other.
func (v Version) Less(other Version) bool { return Compare(v, other) < 0 }

// LessOrEqual reports whether v <= other.
func (v Version) LessOrEqual(other Version) bool { return Compare(v, other) <= 0 }

// Equal reports whether v == other, treating wildcards as matching anything.
func (v Version) Equal(other Version) bool { return Compare(v, other) == 0 }

// GreaterOrEqual reports whether v >= other.
func (v Version) GreaterOrEqual(other Version) bool { return Compare(v, other) >= 0 }

// Greater reports whether v > other.
func (v Version) Greater(other Version) bool { return Compare(v, other) > 0 }

// Matches reports whether v satisfies the pattern, i.e. is equal to it at
// every non-wildcard position.
func (v Version) Matches(pattern Version) bool { return v.Equal(pattern) }
