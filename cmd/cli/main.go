package main

import (
	"fmt"
	"os"

	"gapdash/internal/errors"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode distinguishes misconfiguration and upstream failures from other errors
func exitCode(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeConfigInvalid:
		return 2
	case errors.CodeExternalService:
		return 3
	default:
		return 1
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gapdash-cli",
		Short:         "Gapminder dashboard pipeline from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newContinentsCmd(),
		newDescribeCmd(),
		newSummarizeCmd(),
		newExportCmd(),
		newUsageCmd(),
	)
	return rootCmd
}
