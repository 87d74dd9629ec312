package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
	rootCmd    = &cobra.Command{
		Use:   "api-server",
		Short: "CloudCorrect invariant evaluation API",
		Long:  `Serves the group evaluation and history endpoints and runs one-off evaluations.`,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configFile)
		},
	}

	outputFormat string
	evaluateCmd  = &cobra.Command{
		Use:   "evaluate <group-id>",
		Short: "Evaluate one group now and print the outcome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd.Context(), configFile, args[0], outputFormat, cmd.OutOrStdout())
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config/api-server.yaml", "config file path")
	evaluateCmd.Flags().StringVarP(&outputFormat, "output", "o", "json", "output format: json or yaml")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(evaluateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
