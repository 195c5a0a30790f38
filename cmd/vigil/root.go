package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "vigil",
	Short: "Vigil - clinical guardrails and audit trail engine",
	Long: `Vigil is the audit and guardrails engine behind SRAG analytics pipelines.

It provides:
  - Structural and range validation of medical metric payloads
  - Injection-rejecting input sanitization
  - Deny-by-default role-based access control
  - Per-operation rate limiting
  - An append-only, tamper-evident decision audit trail`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults apply when unset)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
