// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command netsim drives the discrete-event BFT simulator from a JSON run
// configuration: it builds the requested topology, wires up the chosen
// consensus protocol's validators, and runs numRuns independent trials.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luxfi/netsim/config"
	"github.com/luxfi/netsim/network"
)

var rootCmd = &cobra.Command{
	Use:   "netsim",
	Short: "Discrete-event simulator for IBFT and HotStuff over switched topologies",
	Long: `netsim drives a single-threaded, seed-reproducible event loop over a
configurable switch fabric, running either IBFT or HotStuff validators to
a configured consensus count and reporting per-validator statistics.`,
}

func main() {
	rootCmd.AddCommand(runCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps the fatal error kinds §7 describes onto distinct
// nonzero exit codes; anything else is a generic failure.
func exitCodeFor(err error) int {
	var cfgErr *config.ConfigError
	if errors.As(err, &cfgErr) {
		return 2
	}
	var topoErr *network.TopologyError
	if errors.As(err, &topoErr) {
		return 3
	}
	return 1
}

func runCmd() *cobra.Command {
	var configPath string
	var protocol string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the configured number of trials and print the final snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return runTrials(cfg, protocol, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to the run configuration JSON file")
	cmd.Flags().StringVar(&protocol, "protocol", "ibft", "consensus protocol to run: ibft or hotstuff")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
