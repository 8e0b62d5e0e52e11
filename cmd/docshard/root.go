package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RootCmd is the base command. docshard has no subcommands of its own today
// (just "run <script>"), but the cobra+viper layering is kept consistent
// with a CLI that may grow more of them later.
var RootCmd = &cobra.Command{
	Use:   "docshard",
	Short: "a distributed, consistent-hash document store",
	Long: `docshard drives a load-balanced cluster of LRU-cached document
servers from a line-oriented script, reproducing the request/response
transcript the system under test would print.`,
}

func init() {
	RootCmd.AddCommand(runCmd)

	runCmd.Flags().Int("cache-size", 16, "hot cache capacity for a server added without one (entries)")
	runCmd.Flags().Bool("vnodes", false, "enable the two-replica virtual node ring topology")
	runCmd.Flags().String("metrics-addr", "", "if set, serve Prometheus metrics on this address (e.g. :9090) while the script runs")

	viper.SetEnvPrefix("docshard")
	viper.AutomaticEnv()
}

// Execute runs the root command. Called once from main.main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
