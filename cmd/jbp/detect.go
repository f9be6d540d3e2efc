// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dropletkit/jbp/internal/packaging"
	"github.com/dropletkit/jbp/internal/report"
)

func newDetectCommand(app *App) *cobra.Command {
	var (
		all         bool
		writeReport bool
	)

	cmd := &cobra.Command{
		Use:   "detect [app-dir]",
		Short: "Show the packaging convention of an application",
		Long: `Show the packaging convention of an application.

The conventions are tried in a fixed order and the first one that applies
is selected. With --all every applicable convention is listed instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(app.detect(cmd.Context(), appArg(args), all, writeReport))
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "list every applicable convention in precedence order")
	cmd.Flags().BoolVar(&writeReport, "report", false, "write the packaging report below the application")

	return cmd
}

// appArg returns the application directory argument, "." by default.
func appArg(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}

func (a *App) detect(_ context.Context, arg string, all, writeReport bool) error {
	root, err := a.application(arg)
	if err != nil {
		return err
	}
	reg, err := a.registry()
	if err != nil {
		return err
	}

	if all {
		matches, err := reg.Matches(root)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			return &packaging.NoConventionError{App: root}
		}
		for _, s := range matches {
			fmt.Fprintln(a.stdout, s.Kind())
		}
		return nil
	}

	s, err := reg.Select(root)
	if err != nil {
		return err
	}
	d, err := a.droplet(root, nil)
	if err != nil {
		return err
	}
	r, err := report.Build(s, d)
	if err != nil {
		return err
	}

	printField(a, "Application", r.Application)
	printField(a, "Convention", r.Convention)
	printField(a, "Version", r.Version)
	printField(a, "Library directory", r.Libraries.Directory)
	printField(a, "Library rule", r.Libraries.Rule)
	printField(a, "Thin", strconv.FormatBool(r.Thin))

	if writeReport {
		path := report.PathFor(root)
		if err := report.Write(path, r); err != nil {
			return err
		}
		slog.Debug("report written", "path", path)
		printField(a, "Report", path.String())
	}
	return nil
}
