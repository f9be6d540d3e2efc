// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/dropletkit/jbp/internal/config"
	"github.com/dropletkit/jbp/internal/droplet"
	"github.com/dropletkit/jbp/internal/javahome"
	"github.com/dropletkit/jbp/internal/packaging"
	"github.com/dropletkit/jbp/pkg/tokver"
	"github.com/dropletkit/jbp/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. Command handlers
	// receive an App and delegate through it.
	App struct {
		Config    ConfigProvider
		ThinCache packaging.ThinCacher
		stdout    io.Writer
		stderr    io.Writer

		cfg   *config.Config
		flags *rootFlags
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config    ConfigProvider
		ThinCache packaging.ThinCacher
		Stdout    io.Writer
		Stderr    io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}

	return &App{
		Config:    deps.Config,
		ThinCache: deps.ThinCache,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
		cfg:       config.DefaultConfig(),
		flags:     &rootFlags{},
	}, nil
}

// installLogger routes slog through a charm logger on stderr.
func (a *App) installLogger(verbose bool) {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(a.stderr, log.Options{
		Prefix: "jbp",
		Level:  level,
	})
	slog.SetDefault(slog.New(logger))
}

// registry returns the conventions left enabled by configuration.
func (a *App) registry() (*packaging.Registry, error) {
	disabled, err := a.cfg.Conventions()
	if err != nil {
		return nil, err
	}
	return packaging.NewRegistry(
		packaging.WithDisabled(disabled...),
		packaging.WithThinCache(a.ThinCache),
	), nil
}

// application resolves and checks the application directory argument.
func (a *App) application(arg string) (types.FilesystemPath, error) {
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", &fs.PathError{Op: "open", Path: abs, Err: errNotDirectory}
	}
	return types.FilesystemPath(abs), nil
}

// javaHome returns the configured Java installation, or nil when none is
// configured. Without --java-version the version is read from the
// release file.
func (a *App) javaHome() (*javahome.JavaHome, error) {
	root := a.flags.javaHome
	if root == "" {
		root = a.cfg.JavaHome
	}
	if root == "" {
		return nil, nil
	}

	if a.flags.javaVersion != "" {
		v, err := tokver.Parse(a.flags.javaVersion)
		if err != nil {
			return nil, err
		}
		return javahome.New(types.FilesystemPath(root), v), nil
	}

	home := javahome.New(types.FilesystemPath(root), tokver.Version{})
	if err := home.Refine(); err != nil {
		return nil, err
	}
	return home, nil
}

// droplet assembles the droplet for app from configuration and extra
// libraries given on the command line.
func (a *App) droplet(app types.FilesystemPath, extra []string) (*droplet.Droplet, error) {
	home, err := a.javaHome()
	if err != nil {
		return nil, err
	}

	libs := droplet.NewLibraries()
	for _, p := range append(append([]string{}, a.cfg.AdditionalLibraries...), extra...) {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		libs.Add(types.FilesystemPath(abs))
	}

	d := droplet.New(app, home, libs)
	if a.cfg.ThinRoot != "" {
		d.ThinRoot = types.FilesystemPath(a.cfg.ThinRoot)
	}
	return d, nil
}

var errNotDirectory = errors.New("not a directory")
