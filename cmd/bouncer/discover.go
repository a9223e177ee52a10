package main

//
// The discover subcommand
//

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/ooni/probe-bouncer/internal/bouncer"
	"github.com/ooni/probe-bouncer/internal/bouncercache"
	"github.com/ooni/probe-bouncer/internal/config"
	"github.com/ooni/probe-bouncer/internal/httpx"
	"github.com/ooni/probe-bouncer/internal/kvstore"
	"github.com/ooni/probe-bouncer/internal/log/handlers/cli"
	"github.com/ooni/probe-bouncer/internal/model"
	"github.com/spf13/cobra"
)

// errDiscoveryFailed indicates that the bouncer response was not good.
var errDiscoveryFailed = errors.New("bouncer: discovery failed")

// registerDiscover registers the discover subcommand.
func registerDiscover(rootCmd *cobra.Command, globalOptions *Options) {
	subCmd := &cobra.Command{
		Use:   "discover",
		Short: "Asks the bouncer for collectors and test helpers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return discoverMain(cmd, globalOptions)
		},
	}
	rootCmd.AddCommand(subCmd)
	flags := subCmd.Flags()

	flags.StringVar(
		&globalOptions.BaseURL,
		"base-url",
		"",
		"base URL of the bouncer (default: \""+model.BouncerDefaultBaseURL+"\")",
	)

	flags.StringVar(
		&globalOptions.CABundlePath,
		"ca-bundle",
		"",
		"path of the CA bundle used to verify the bouncer",
	)

	flags.StringVar(
		&globalOptions.Name,
		"name",
		"",
		"name of the nettest to send to the bouncer",
	)

	flags.StringVar(
		&globalOptions.VersionString,
		"version-string",
		"",
		"version of the nettest to send to the bouncer",
	)

	flags.StringArrayVarP(
		&globalOptions.Helpers,
		"helper",
		"H",
		[]string{},
		"test helper to ask for (may be specified multiple times)",
	)

	flags.Int64Var(
		&globalOptions.Timeout,
		"timeout",
		0,
		"timeout in seconds for the whole exchange",
	)

	flags.BoolVar(
		&globalOptions.JSON,
		"json",
		false,
		"print the result as JSON on the standard output",
	)
}

// newLogger creates the logger writing to the command's standard error.
func newLogger(cmd *cobra.Command, options *Options) *log.Logger {
	logger := &log.Logger{Level: log.InfoLevel, Handler: cli.New(cmd.ErrOrStderr())}
	if options.Verbose {
		logger.Level = log.DebugLevel
	}
	return logger
}

// loadConfig loads the configuration and applies the command line overrides.
func loadConfig(cmd *cobra.Command, options *Options) (*config.Config, error) {
	c := config.Default()
	if options.ConfigPath != "" {
		var err error
		if c, err = config.ReadConfig(options.ConfigPath); err != nil {
			return nil, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("base-url") {
		c.BaseURL = options.BaseURL
	}
	if flags.Changed("ca-bundle") {
		c.CABundlePath = options.CABundlePath
	}
	if flags.Changed("name") {
		c.Name = options.Name
	}
	if flags.Changed("version-string") {
		c.Version = options.VersionString
	}
	if flags.Changed("helper") {
		c.Helpers = options.Helpers
	}
	if flags.Changed("timeout") {
		c.Timeout = options.Timeout
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// stateDir returns the directory where we store state.
func stateDir(options *Options) (string, error) {
	if options.StateDir != "" {
		return options.StateDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".ooniprobe-bouncer"), nil
}

// discoverMain is the main function of the discover subcommand.
func discoverMain(cmd *cobra.Command, options *Options) error {
	logger := newLogger(cmd, options)

	c, err := loadConfig(cmd, options)
	if err != nil {
		logger.WithError(err).Error("cannot load configuration")
		return err
	}

	req := bouncer.NewRequest()
	req.BaseURL = c.BaseURL
	req.CABundlePath = c.CABundlePath
	req.Name = c.Name
	req.Version = c.Version
	req.Helpers = c.Helpers
	req.Timeout = c.Timeout

	clnt := bouncer.NewClient(httpx.NewClient(logger), logger)
	resp := clnt.Perform(context.Background(), req)
	if !resp.Good() {
		// in verbose mode the transcript already reached the logger
		if !options.Verbose {
			for _, line := range strings.Split(strings.TrimSuffix(string(resp.MoveOutLogs()), "\n"), "\n") {
				logger.Warn(line)
			}
		}
		logger.WithError(errDiscoveryFailed).Error("cannot discover collectors and test helpers")
		return errDiscoveryFailed
	}

	dir, err := stateDir(options)
	if err != nil {
		logger.WithError(err).Warn("cannot determine the state directory")
	} else if kvs, err := kvstore.NewFS(dir); err != nil {
		logger.WithError(err).Warn("cannot create the state directory")
	} else if err := bouncercache.Store(kvs, c.BaseURL, resp); err != nil {
		logger.WithError(err).Warn("cannot cache the discovery")
	}

	out := newDiscoveryOutput(c.BaseURL, resp.Collectors(), resp.HelperKeys(), resp.Helpers)
	return out.print(cmd, logger, options.JSON)
}
