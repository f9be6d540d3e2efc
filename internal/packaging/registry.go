// SPDX-License-Identifier: MPL-2.0

package packaging

import (
	"log/slog"
	"slices"

	"github.com/dropletkit/jbp/pkg/types"
)

type (
	// Registry holds strategies in precedence order, most specific first:
	// thin, exploded, fat jar, staged, then the Play dists oldest first.
	Registry struct {
		strategies []Strategy
	}

	// Option configures a Registry.
	Option func(*registryOptions)

	registryOptions struct {
		disabled []Kind
		thin     ThinCacher
	}
)

// WithDisabled removes conventions from the registry. Disabling never
// reorders the remaining ones.
func WithDisabled(kinds ...Kind) Option {
	return func(o *registryOptions) {
		o.disabled = append(o.disabled, kinds...)
	}
}

// WithThinCache sets the thin dependency cache used by the thin strategy.
func WithThinCache(c ThinCacher) Option {
	return func(o *registryOptions) {
		o.thin = c
	}
}

// NewRegistry creates a registry with every convention not disabled.
func NewRegistry(opts ...Option) *Registry {
	var o registryOptions
	for _, opt := range opts {
		opt(&o)
	}

	all := []Strategy{
		NewSpringBootThin(o.thin),
		SpringBootExploded{},
		SpringBootFatJar{},
		SpringBootStaged{},
		PlayDist20{},
		PlayDist21{},
		PlayDist22{},
	}

	r := &Registry{}
	for _, s := range all {
		if slices.Contains(o.disabled, s.Kind()) {
			slog.Debug("packaging convention disabled", "kind", s.Kind())
			continue
		}
		r.strategies = append(r.strategies, s)
	}
	return r
}

// Strategies returns the enabled strategies in precedence order.
func (r *Registry) Strategies() []Strategy {
	return slices.Clone(r.strategies)
}

// Lookup returns the enabled strategy of the given kind.
func (r *Registry) Lookup(kind Kind) (Strategy, bool) {
	for _, s := range r.strategies {
		if s.Kind() == kind {
			return s, true
		}
	}
	return nil, false
}

// Matches returns every strategy that applies to app, in precedence order.
func (r *Registry) Matches(app types.FilesystemPath) ([]Strategy, error) {
	var matches []Strategy
	for _, s := range r.strategies {
		ok, err := s.AppliesTo(app)
		if err != nil {
			return nil, err
		}
		if ok {
			matches = append(matches, s)
		}
	}
	return matches, nil
}

// Select returns the first strategy that applies to app. When several
// apply the choice is logged as a warning; it is never an error.
func (r *Registry) Select(app types.FilesystemPath) (Strategy, error) {
	matches, err := r.Matches(app)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, &NoConventionError{App: app}
	}
	if len(matches) > 1 {
		kinds := make([]string, len(matches))
		for i, m := range matches {
			kinds[i] = m.Kind().String()
		}
		slog.Warn("several packaging conventions apply, using the first",
			"app", app, "selected", matches[0].Kind(), "candidates", kinds)
	}
	slog.Debug("packaging convention selected", "app", app, "kind", matches[0].Kind())
	return matches[0], nil
}
