package main

//
// The last subcommand
//

import (
	"github.com/ooni/probe-bouncer/internal/bouncercache"
	"github.com/ooni/probe-bouncer/internal/kvstore"
	"github.com/ooni/probe-bouncer/internal/model"
	"github.com/spf13/cobra"
)

// registerLast registers the last subcommand.
func registerLast(rootCmd *cobra.Command, globalOptions *Options) {
	subCmd := &cobra.Command{
		Use:   "last",
		Short: "Prints the last good discovery, unless it's expired",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return lastMain(cmd, globalOptions)
		},
	}
	rootCmd.AddCommand(subCmd)
	subCmd.Flags().BoolVar(
		&globalOptions.JSON,
		"json",
		false,
		"print the result as JSON on the standard output",
	)
}

// lastMain is the main function of the last subcommand.
func lastMain(cmd *cobra.Command, options *Options) error {
	logger := newLogger(cmd, options)

	dir, err := stateDir(options)
	if err != nil {
		logger.WithError(err).Error("cannot determine the state directory")
		return err
	}
	kvs, err := kvstore.NewFS(dir)
	if err != nil {
		logger.WithError(err).Error("cannot create the state directory")
		return err
	}
	entry, err := bouncercache.Load(kvs)
	if err != nil {
		logger.WithError(err).Error("cannot load the last discovery")
		return err
	}
	logger.Debugf("the last discovery expires at %s", entry.Expire)

	helpers := func(key string) []model.BouncerRecord {
		return entry.Helpers[key]
	}
	out := newDiscoveryOutput(entry.BaseURL, entry.Collectors, entry.HelperKeys, helpers)
	return out.print(cmd, logger, options.JSON)
}
