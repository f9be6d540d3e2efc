// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dropletkit/jbp/internal/packaging"
)

func newJavaHomeCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "java-home [dir]",
		Short: "Show the Java installation and its version",
		Long: `Show the Java installation and its version.

The installation is the directory argument, --java-home, or java_home from
the configuration. Its version is read from the release file unless
--java-version is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				app.flags.javaHome = args[0]
			}
			return app.fail(app.showJavaHome())
		},
	}
}

func (a *App) showJavaHome() error {
	home, err := a.javaHome()
	if err != nil {
		return err
	}
	if home == nil {
		return packaging.ErrMissingJavaHome
	}

	printField(a, "Java home", home.Root.String())
	printField(a, "Version", home.Version.String())
	printField(a, "Java 8 or later", strconv.FormatBool(home.Java8OrLater()))
	printField(a, "Java 9 or later", strconv.FormatBool(home.Java9OrLater()))
	printField(a, "Java 10 or later", strconv.FormatBool(home.Java10OrLater()))
	return nil
}
