// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"log/slog"
)

// LoadOptions selects where configuration comes from. The zero value reads
// config.cue from ConfigDir, then from the working directory.
type LoadOptions struct {
	// ConfigFilePath is the --config flag. A missing file is an error.
	ConfigFilePath string
	// ConfigDirPath replaces ConfigDir for this load only.
	ConfigDirPath string
}

// Provider loads the jbp configuration. The CLI receives one through its
// dependencies so tests can hand it a fixed Config.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Config, error)
}

// cueProvider reads config.cue validated against the embedded schema, with
// JBP_ environment variables layered on top.
type cueProvider struct{}

// NewProvider returns the provider backed by config.cue files.
func NewProvider() Provider {
	return cueProvider{}
}

// Load implements Provider.
func (cueProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, path, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	if path == "" {
		slog.Debug("no config file found, using defaults")
	} else {
		slog.Debug("config loaded", "path", path)
	}
	return cfg, nil
}
