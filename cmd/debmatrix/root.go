/*
Copyright © 2025 debmatrix contributors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/

// Package main implements the debmatrix CLI, the CI helper that derives
// Docker image names and Cloudsmith upload targets from a repository's
// debian-distro-settings document.
package main

import (
	"context"

	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/debmatrix/debmatrix/config"
	"github.com/debmatrix/debmatrix/distro"
	"github.com/debmatrix/debmatrix/errors"
	"github.com/debmatrix/debmatrix/logging"
)

// Context key type for storing the loaded settings
type settingsKeyType struct{}

var (
	settingsKey = settingsKeyType{}

	// Root command options
	flagPath string
)

var rootCmd = &cobra.Command{
	Use:   "debmatrix",
	Short: "Debmatrix - CI matrix and package publishing helper",
	Long: `Debmatrix reads a repository's debian-distro-settings document,
derives Docker image names and Cloudsmith repository targets from its
OS/architecture matrix, and uploads built packages to the package host.`,
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initRun,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagPath, "path", "p", ".", "Project directory (any directory inside the repository)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (plain, color, json)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Quiet mode - only show errors")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose mode - show debug output")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(versionCmd)
}

// settingsFromContext retrieves the loaded settings from the command context.
func settingsFromContext(cmd *cobra.Command) (*distro.Settings, error) {
	if s, ok := cmd.Context().Value(settingsKey).(*distro.Settings); ok {
		return s, nil
	}
	return nil, errors.Configuration("settings not initialized")
}

// initRun resolves logging flags with the precedence
// CLI Flags > Environment Variables > Defaults, then loads the settings
// document for the repository containing --path and stores both in the
// command context.
func initRun(cmd *cobra.Command, args []string) error {
	v := viper.New()
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "plain")
	v.SetEnvPrefix("DEBMATRIX")
	v.AutomaticEnv()

	bindFlagsToViper(v, cmd.Root().PersistentFlags())

	quiet, _ := cmd.Flags().GetBool("quiet")
	verbose, _ := cmd.Flags().GetBool("verbose")

	logger := logging.New(v.GetString("log_level"), v.GetString("log_format"), quiet, verbose)
	ctx := logging.WithLogger(cmd.Context(), logger)

	path, err := config.ResolvePath(flagPath)
	if err != nil {
		return err
	}

	repoRoot, err := config.FindRepoRoot(path)
	if err != nil {
		return err
	}
	logging.DebugContext(ctx, "Repository root: %s", repoRoot)

	env, err := config.SystemEnviron(repoRoot)
	if err != nil {
		return err
	}

	settings, err := distro.Load(repoRoot, env)
	if err != nil {
		return err
	}
	logging.DebugContext(ctx, "Loaded matrix with %d combinations", settings.Matrix.Len())

	ctx = context.WithValue(ctx, settingsKey, settings)
	cmd.SetContext(ctx)

	return nil
}

// bindFlagsToViper binds every flag in the set to a Viper key, converting
// flag names to key format (e.g. "log-level" -> "log_level"). This gives the
// precedence chain CLI Flags > Environment Variables > Defaults.
func bindFlagsToViper(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		// BindPFlag only fails on a nil flag, which VisitAll never yields.
		_ = v.BindPFlag(key, f)
	})
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
