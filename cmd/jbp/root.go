// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/dropletkit/jbp/internal/config"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	verbose     bool
	configPath  string
	javaHome    string
	javaVersion string
}

// newRootCommand builds the command tree around app.
func newRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "jbp",
		Short: "Java application packaging support for droplet builds",
		Long: TitleStyle.Render("jbp") + SubtitleStyle.Render(" - Java application packaging support") + `

jbp recognizes how a Java application was packaged (Play distributions,
Spring Boot fat jars, exploded, staged and thin applications) and wires
additional libraries into its classpath the way that packaging expects.

` + SubtitleStyle.Render("Examples:") + `
  jbp detect ./app            Show the packaging convention of ./app
  jbp detect --all ./app      List every convention that applies
  jbp lib ./app               Show the dependency library directory
  jbp augment --lib agent.jar ./app
  jbp config show             Show current configuration`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.prepare(cmd.Context(), flags)
		},
	}

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVar(&flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/jbp/config.cue)")
	pf.StringVar(&flags.javaHome, "java-home", "", "Java installation used by the application (overrides java_home)")
	pf.StringVar(&flags.javaVersion, "java-version", "", "Java version when the installation has no release file")

	rootCmd.AddCommand(newDetectCommand(app))
	rootCmd.AddCommand(newLibCommand(app))
	rootCmd.AddCommand(newAugmentCommand(app))
	rootCmd.AddCommand(newJavaHomeCommand(app))
	rootCmd.AddCommand(newConfigCommand(app, flags))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the jbp command line. It is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}

	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(exitStatus(err))
	}
}

// prepare loads configuration and installs the logger. A broken config file is
// fatal only when it was named explicitly.
func (a *App) prepare(ctx context.Context, flags *rootFlags) error {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		if flags.configPath != "" {
			return a.fail(err)
		}
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, flags.verbose))
		cfg = config.DefaultConfig()
	}

	a.cfg = cfg
	a.flags = flags
	a.installLogger(flags.verbose || cfg.UI.Verbose)
	slog.Debug("configuration loaded", "thin_root", cfg.ThinRoot, "disabled", cfg.DisabledConventions)
	return nil
}
