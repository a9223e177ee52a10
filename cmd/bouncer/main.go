// Command bouncer asks the OONI bouncer for the available collectors
// and test helpers and prints the result.
package main

import (
	"fmt"
	"os"

	"github.com/ooni/probe-bouncer/internal/version"
	"github.com/spf13/cobra"
)

// Options contains the options you can set from the CLI.
type Options struct {
	BaseURL       string
	CABundlePath  string
	ConfigPath    string
	Helpers       []string
	JSON          bool
	Name          string
	StateDir      string
	Timeout       int64
	Verbose       bool
	VersionString string
}

// main is the main function of bouncer.
func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCommand creates the root command and registers all the subcommands.
func newRootCommand() *cobra.Command {
	var globalOptions Options
	rootCmd := &cobra.Command{
		Use:           "bouncer",
		Short:         "bouncer discovers OONI collectors and test helpers",
		Args:          cobra.NoArgs,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate("{{ .Version }}\n")
	flags := rootCmd.PersistentFlags()

	flags.StringVar(
		&globalOptions.ConfigPath,
		"config",
		"",
		"read configuration from the given JSON file",
	)

	flags.StringVar(
		&globalOptions.StateDir,
		"state-dir",
		"",
		"directory where to cache the last good discovery (default: \"$HOME/.ooniprobe-bouncer\")",
	)

	flags.BoolVarP(
		&globalOptions.Verbose,
		"verbose",
		"v",
		false,
		"increase verbosity level",
	)

	registerDiscover(rootCmd, &globalOptions)
	registerLast(rootCmd, &globalOptions)
	registerVersion(rootCmd)
	return rootCmd
}

// registerVersion registers the version subcommand.
func registerVersion(rootCmd *cobra.Command) {
	subCmd := &cobra.Command{
		Use:   "version",
		Short: "Prints the version and exits",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Version)
		},
	}
	rootCmd.AddCommand(subCmd)
}
