// SPDX-License-Identifier: MPL-2.0

package tokver

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// drawTriplet draws three small non-negative components.
func drawTriplet(t *rapid.T, label string) [3]int {
	var out [3]int
	for i := range out {
		out[i] = rapid.IntRange(0, 30).Draw(t, fmt.Sprintf("%s[%d]", label, i))
	}
	return out
}

func tupleCompare(a, b [3]int) int {
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

func format(c [3]int) string {
	return fmt.Sprintf("%d.%d.%d", c[0], c[1], c[2])
}

// TestCompare_PropertyBased_MatchesTupleOrdering checks that version ordering
// agrees with lexicographic ordering of the numeric tuples.
func TestCompare_PropertyBased_MatchesTupleOrdering(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := drawTriplet(t, "a")
		b := drawTriplet(t, "b")

		va, err := Parse(format(a))
		require.NoError(t, err)
		vb, err := Parse(format(b))
		require.NoError(t, err)

		want := tupleCompare(a, b)
		assert.Equal(t, want, Compare(va, vb), "Compare(%v, %v)", a, b)
		assert.Equal(t, want < 0, va.Less(vb))
		assert.Equal(t, want >= 0, va.GreaterOrEqual(vb))
		assert.Equal(t, want == 0, va.Equal(vb))
	})
}

// TestCompare_PropertyBased_QualifierIgnored checks that qualifiers never
// change the ordering.
func TestCompare_PropertyBased_QualifierIgnored(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := drawTriplet(t, "c")
		qualifier := rapid.StringMatching(`[A-Za-z0-9]{1,8}`).Draw(t, "qualifier")

		plain, err := Parse(format(c))
		require.NoError(t, err)
		qualified, err := Parse(format(c) + "_" + qualifier)
		require.NoError(t, err)

		assert.Equal(t, 0, Compare(plain, qualified))
		assert.Equal(t, qualifier, qualified.Qualifier())
	})
}

// TestCompare_PropertyBased_WildcardMatchesAnyValue checks that a wildcard in
// a comparison target matches every concrete value at its position.
func TestCompare_PropertyBased_WildcardMatchesAnyValue(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := drawTriplet(t, "c")
		keep := rapid.IntRange(0, 2).Draw(t, "keep")

		pattern := "+"
		if keep > 0 {
			pattern = fmt.Sprint(c[0])
			if keep > 1 {
				pattern += fmt.Sprintf(".%d", c[1])
			}
			pattern += ".+"
		}

		v, err := Parse(format(c))
		require.NoError(t, err)
		p, err := ParsePattern(pattern)
		require.NoError(t, err)

		assert.True(t, v.Matches(p), "%s should match %s", v, pattern)
		assert.Equal(t, 0, Compare(p, v))
	})
}
