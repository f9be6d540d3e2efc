// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func newLibCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "lib [app-dir]",
		Short: "Print the dependency library directory of an application",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(app.libraryDirectory(appArg(args)))
		},
	}
}

func (a *App) libraryDirectory(arg string) error {
	root, err := a.application(arg)
	if err != nil {
		return err
	}
	reg, err := a.registry()
	if err != nil {
		return err
	}
	s, err := reg.Select(root)
	if err != nil {
		return err
	}
	dir, err := s.LibraryDirectory(root)
	if err != nil {
		return err
	}
	slog.Debug("library directory resolved", "convention", s.Kind(), "rule", dir.Rule)
	fmt.Fprintln(a.stdout, dir.Path)
	return nil
}
