// SPDX-License-Identifier: MPL-2.0

package tokver

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		want      string
		qualifier string
		wantErr   bool
	}{
		{name: "plain triplet", input: "1.8.0", want: "1.8.0"},
		{name: "underscore qualifier", input: "1.8.0_292", want: "1.8.0_292", qualifier: "292"},
		{name: "dash qualifier", input: "2.1.4-RC1", want: "2.1.4-RC1", qualifier: "RC1"},
		{name: "dotted qualifier", input: "1.0.0-RELEASE.1", want: "1.0.0-RELEASE.1", qualifier: "RELEASE.1"},
		{name: "large components", input: "17.0.12", want: "17.0.12"},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace", input: "   ", wantErr: true},
		{name: "missing patch", input: "1.8", wantErr: true},
		{name: "major only", input: "9", wantErr: true},
		{name: "too many components", input: "1.2.3.4", wantErr: true},
		{name: "empty component", input: "1..3", wantErr: true},
		{name: "non numeric", input: "1.x.3", wantErr: true},
		{name: "wildcard rejected", input: "1.8.+", wantErr: true},
		{name: "qualifier only", input: "_292", wantErr: true},
		{name: "explicit plus sign", input: "1.+2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) = %v, want error", tt.input, v)
				}
				if !errors.Is(err, ErrMalformedVersion) {
					t.Errorf("Parse(%q) error %v does not wrap ErrMalformedVersion", tt.input, err)
				}
				var malformed *MalformedVersionError
				if !errors.As(err, &malformed) || malformed.Value != tt.input {
					t.Errorf("Parse(%q) error = %#v, want MalformedVersionError for the input", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.input, err)
			}
			if got := v.String(); got != tt.want {
				t.Errorf("Parse(%q).String() = %q, want %q", tt.input, got, tt.want)
			}
			if got := v.Qualifier(); got != tt.qualifier {
				t.Errorf("Parse(%q).Qualifier() = %q, want %q", tt.input, got, tt.qualifier)
			}
			if v.HasWildcard() {
				t.Errorf("Parse(%q) produced a wildcard", tt.input)
			}
		})
	}
}

func TestParsePattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "1.8.+", want: "1.8.+"},
		{input: "1.+", want: "1.+.+"},
		{input: "+", want: "+.+.+"},
		{input: "10.0.0", want: "10.0.0"},
		{input: "+.8.0", wantErr: true},
		{input: "1.+.0", wantErr: true},
		{input: "1.8", wantErr: true},
		{input: "1.+_292", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			v, err := ParsePattern(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedVersion) {
					t.Fatalf("ParsePattern(%q) error = %v, want ErrMalformedVersion", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePattern(%q) returned error: %v", tt.input, err)
			}
			if got := v.String(); got != tt.want {
				t.Errorf("ParsePattern(%q).String() = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int
	}{
		{a: "1.8.0", b: "1.8.0", want: 0},
		{a: "1.7.0", b: "1.8.0", want: -1},
		{a: "9.0.0", b: "1.8.0", want: 1},
		{a: "10.0.0", b: "9.0.4", want: 1},
		{a: "1.8.0_292", b: "1.8.0_40", want: 0},
		{a: "1.8.0_292", b: "1.8.0", want: 0},
		{a: "2.1.4", b: "2.1.10", want: -1},
		{a: "1.8.5", b: "1.8.+", want: 0},
		{a: "1.9.5", b: "1.8.+", want: 1},
		{a: "1.7.99", b: "1.8.+", want: -1},
		{a: "3.4.5", b: "+", want: 0},
		{a: "2.0.4", b: "2.+", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			t.Parallel()

			a := MustParse(tt.a)
			b := MustParse(tt.b)
			if got := Compare(a, b); got != tt.want {
				t.Errorf("Compare(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := Compare(b, a); got != -tt.want {
				t.Errorf("Compare(%s, %s) = %d, want %d", tt.b, tt.a, got, -tt.want)
			}
		})
	}
}

func TestVersionOperators(t *testing.T) {
	t.Parallel()

	low := MustParse("1.8.0")
	high := MustParse("9.0.0")

	if !low.Less(high) || low.Greater(high) {
		t.Error("1.8.0 should be less than 9.0.0")
	}
	if !low.LessOrEqual(low) || !low.GreaterOrEqual(low) || !low.Equal(low) {
		t.Error("1.8.0 should equal itself under every non-strict operator")
	}
	if !high.GreaterOrEqual(low) || high.LessOrEqual(low) {
		t.Error("9.0.0 should be >= 1.8.0")
	}
	if !MustParse("1.8.0_292").Matches(MustParse("1.8.+")) {
		t.Error("1.8.0_292 should match 1.8.+")
	}
	if MustParse("1.7.0").Matches(MustParse("1.8.+")) {
		t.Error("1.7.0 should not match 1.8.+")
	}
}

func TestMustParsePanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("MustParse did not panic on a malformed version")
		}
	}()
	MustParse("not-a-version")
}
