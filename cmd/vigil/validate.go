package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sragops/vigil/pkg/cli"
	"sragops/vigil/pkg/guardrails"
)

var validateFlags struct {
	file   string
	role   string
	format string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a metric payload file",
	Long: `Validate a JSON metric payload against the guardrails engine.

The payload is a JSON object mapping field names to numeric values.
One result is printed per field, in payload order; validation does not
stop at the first failure.

Examples:
  vigil validate --file payload.json --role data_analyst
  vigil validate --file payload.json --role data_reader --format json`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateFlags.file, "file", "", "payload JSON file (required)")
	validateCmd.Flags().StringVar(&validateFlags.role, "role", "", "actor role (required)")
	validateCmd.Flags().StringVarP(&validateFlags.format, "format", "f", "text", "output format (text, json)")
	validateCmd.MarkFlagRequired("file")
	validateCmd.MarkFlagRequired("role")
}

func runValidate(cmd *cobra.Command, args []string) error {
	a, err := newApp("memory")
	if err != nil {
		return err
	}
	defer a.Close()

	f, err := os.Open(validateFlags.file)
	if err != nil {
		return fmt.Errorf("failed to open payload file: %w", err)
	}
	defer f.Close()

	payload, err := guardrails.DecodePayload(f)
	if err != nil {
		return err
	}

	results := a.engine.ValidateMedicalData(payload, validateFlags.role)

	if cli.OutputFormat(validateFlags.format) == cli.FormatJSON {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, results)
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, r := range results {
		printResult(out, r.Field, r)
		if !r.IsValid {
			failed++
		}
	}
	fmt.Fprintf(out, "\n%d/%d fields passed\n", len(results)-failed, len(results))

	if failed > 0 {
		return fmt.Errorf("%d of %d fields failed validation", failed, len(results))
	}
	return nil
}
