// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dropletkit/jbp/internal/issue"
	"github.com/dropletkit/jbp/internal/packaging"
	"github.com/dropletkit/jbp/internal/report"
	"github.com/dropletkit/jbp/pkg/types"
)

type augmentOptions struct {
	libs       []string
	convention string
	report     bool
}

func newAugmentCommand(app *App) *cobra.Command {
	opts := &augmentOptions{}

	cmd := &cobra.Command{
		Use:   "augment [app-dir]",
		Short: "Add libraries to an application's classpath",
		Long: `Add libraries to an application's classpath.

Libraries come from additional_libraries in the configuration and from
--lib. How they are added depends on the packaging convention: Play 2.0
and Spring Boot applications get links in their library directory, Play
2.1 and later get their start script rewritten, and thin applications get
their dependencies cached. Running augment again changes nothing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(app.augment(cmd.Context(), appArg(args), opts))
		},
	}

	cmd.Flags().StringSliceVar(&opts.libs, "lib", nil, "additional library to add (repeatable)")
	cmd.Flags().StringVar(&opts.convention, "convention", "", "use this convention instead of detecting one")
	cmd.Flags().BoolVar(&opts.report, "report", true, "write the packaging report below the application")

	return cmd
}

func (a *App) augment(ctx context.Context, arg string, opts *augmentOptions) error {
	root, err := a.application(arg)
	if err != nil {
		return err
	}
	reg, err := a.registry()
	if err != nil {
		return err
	}

	var s packaging.Strategy
	if opts.convention != "" {
		s, err = forcedStrategy(reg, opts.convention, root)
	} else {
		s, err = reg.Select(root)
	}
	if err != nil {
		return err
	}

	d, err := a.droplet(root, opts.libs)
	if err != nil {
		return err
	}

	slog.Debug("augmenting classpath", "convention", s.Kind(), "libraries", d.Libraries.Len())
	if err := s.AugmentClasspath(ctx, d); err != nil {
		return issue.NewErrorContext().
			WithOperation("augment classpath").
			WithResource(root.String()).
			WithSuggestion(fmt.Sprintf("Run 'jbp detect --all %s' to check the detected convention", root)).
			Wrap(err).
			BuildError()
	}

	fmt.Fprintln(a.stdout, SuccessStyle.Render("✓")+fmt.Sprintf(" %s: %d libraries added", s.Kind(), d.Libraries.Len()))

	if opts.report {
		r, err := report.Build(s, d)
		if err != nil {
			return err
		}
		if err := report.Write(report.PathFor(root), r); err != nil {
			return err
		}
	}
	return nil
}

// forcedStrategy returns the named convention after checking that it
// applies to app.
func forcedStrategy(reg *packaging.Registry, name string, app types.FilesystemPath) (packaging.Strategy, error) {
	kind, err := packaging.ParseKind(name)
	if err != nil {
		return nil, err
	}
	s, ok := reg.Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s is disabled", packaging.ErrNotApplicable, kind)
	}
	applies, err := s.AppliesTo(app)
	if err != nil {
		return nil, err
	}
	if !applies {
		return nil, fmt.Errorf("%w: %s to %s", packaging.ErrNotApplicable, kind, app)
	}
	return s, nil
}
