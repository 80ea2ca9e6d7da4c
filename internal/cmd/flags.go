// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"github.com/spf13/cobra"
)

const (
	routesPathFlagName  = "routes-file"
	routesPathFlagShort = "f"
	routesPathFlagUsage = "Path to a file or directory containing notification routing rules. Can be specified multiple times."

	envFileFlagName  = "env-file"
	envFileFlagUsage = "Path to a dotenv file loaded before reading the environment"
)

// flags holds the CLI options of the serve command.
type flags struct {
	routesPaths []string
	envFile     string
}

// addFlags registers the CLI flags on cmd.
func (f *flags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(
		&f.routesPaths,
		routesPathFlagName,
		routesPathFlagShort,
		nil,
		routesPathFlagUsage)

	cmd.Flags().StringVar(&f.envFile, envFileFlagName, "", envFileFlagUsage)
}

// toOptions builds an options instance from the parsed flags.
func (f *flags) toOptions(_ []string) (*options, error) {
	routesPaths, err := collectPaths(f.routesPaths)
	if err != nil {
		return nil, err
	}

	return &options{
		routesPaths: routesPaths,
		envFile:     f.envFile,
	}, nil
}
