// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"

	"github.com/dropletkit/jbp/internal/packaging"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultThinRoot is the thin dependency cache below the application.
	DefaultThinRoot = ".jbp/thin"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidConfigError collects every field error of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is the jbp configuration.
	Config struct {
		// JavaHome is the Java installation used for thin caching.
		JavaHome string `json:"java_home" mapstructure:"java_home"`
		// ThinRoot is the thin dependency cache location.
		ThinRoot string `json:"thin_root" mapstructure:"thin_root"`
		// AdditionalLibraries are added to every application's classpath.
		AdditionalLibraries []string `json:"additional_libraries" mapstructure:"additional_libraries"`
		// DisabledConventions are never selected.
		DisabledConventions []string `json:"disabled_conventions" mapstructure:"disabled_conventions"`
		// UI configures terminal output.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		ThinRoot:            DefaultThinRoot,
		AdditionalLibraries: []string{},
		DisabledConventions: []string{},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// Validate returns nil for a known color scheme.
func (c ColorScheme) Validate() error {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: c}
	}
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Validate checks what the schema cannot see, values that arrive through
// environment variables included.
func (c *Config) Validate() error {
	var errs []error
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Conventions(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Conventions parses DisabledConventions.
func (c *Config) Conventions() ([]packaging.Kind, error) {
	kinds := make([]packaging.Kind, 0, len(c.DisabledConventions))
	for _, name := range c.DisabledConventions {
		k, err := packaging.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("disabled_conventions: %w", err)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns the field errors and ErrInvalidConfig.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
