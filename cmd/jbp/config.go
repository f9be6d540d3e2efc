// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dropletkit/jbp/internal/config"
)

// newConfigCommand creates the `jbp config` command tree.
func newConfigCommand(app *App, flags *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage jbp configuration",
		Long: `Manage jbp configuration.

Configuration is stored in:
  - Linux: ~/.config/jbp/config.cue
  - macOS: ~/Library/Application Support/jbp/config.cue
  - Windows: %APPDATA%\jbp\config.cue

Every key can be overridden with a JBP_ environment variable, for example
JBP_THIN_ROOT or JBP_UI_VERBOSE.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(app.showConfig(flags))
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(app.stdout, config.GenerateCUE(app.cfg))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.FilePath(config.LoadOptions{ConfigFilePath: flags.configPath})
			if err != nil {
				return app.fail(err)
			}
			if path == "" {
				dir, err := config.ConfigDir()
				if err != nil {
					return app.fail(err)
				}
				fmt.Fprintf(app.stdout, "%s %s\n", filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt),
					SubtitleStyle.Render("(not created)"))
				return nil
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfig(config.LoadOptions{})
			if err != nil {
				return app.fail(err)
			}
			fmt.Fprintln(app.stdout, SuccessStyle.Render("✓")+" Configuration file: "+path)
			return nil
		},
	})

	return cfgCmd
}

func (a *App) showConfig(flags *rootFlags) error {
	path, err := config.FilePath(config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(a.stdout)
	if path == "" {
		fmt.Fprintf(a.stdout, "%s: %s\n", KeyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	} else {
		printField(a, "Config file", path)
	}
	fmt.Fprintln(a.stdout)

	cfg := a.cfg
	printField(a, "java_home", cfg.JavaHome)
	printField(a, "thin_root", cfg.ThinRoot)
	printField(a, "additional_libraries", strings.Join(cfg.AdditionalLibraries, ", "))
	printField(a, "disabled_conventions", strings.Join(cfg.DisabledConventions, ", "))
	printField(a, "ui.color_scheme", string(cfg.UI.ColorScheme))
	printField(a, "ui.verbose", strconv.FormatBool(cfg.UI.Verbose))
	return nil
}
