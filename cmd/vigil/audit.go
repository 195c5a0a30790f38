package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sragops/vigil/pkg/cli"
)

var auditFlags struct {
	limit  int
	hours  int
	format string
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Query the decision audit trail",
	Long: `Query the append-only decision audit trail.

Subcommands:
  history - Show the most recent audited decisions
  summary - Aggregate decisions over a trailing window

Examples:
  # Last 10 decisions
  vigil audit history --limit 10

  # Last 24 hours, as JSON
  vigil audit summary --hours 24 --format json`,
}

var auditHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the most recent audited decisions",
	RunE:  runAuditHistory,
}

var auditSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Aggregate decisions over a trailing window",
	RunE:  runAuditSummary,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditHistoryCmd)
	auditCmd.AddCommand(auditSummaryCmd)

	auditCmd.PersistentFlags().StringVarP(&auditFlags.format, "format", "f", "text", "output format (text, json)")
	auditHistoryCmd.Flags().IntVarP(&auditFlags.limit, "limit", "n", 10, "maximum records to show")
	auditSummaryCmd.Flags().IntVar(&auditFlags.hours, "hours", 24, "trailing window in hours")
}

func runAuditHistory(cmd *cobra.Command, args []string) error {
	a, err := newApp("")
	if err != nil {
		return err
	}
	defer a.Close()

	records, err := a.trail.History(cmd.Context(), auditFlags.limit)
	if err != nil {
		return err
	}

	if cli.OutputFormat(auditFlags.format) == cli.FormatJSON {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, records)
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "no decisions recorded")
		return nil
	}
	for _, r := range records {
		fmt.Fprintf(out, "%s  %-24s  %-12s  %s=%g (threshold %g)  confidence=%.2f  status=%s\n",
			r.Timestamp.Format("2006-01-02 15:04:05"),
			r.DecisionType, r.ActorRole,
			r.MetricType, r.MetricValue, r.ThresholdUsed,
			r.ConfidenceScore, r.Status,
		)
	}
	return nil
}

func runAuditSummary(cmd *cobra.Command, args []string) error {
	a, err := newApp("")
	if err != nil {
		return err
	}
	defer a.Close()

	summary, err := a.trail.AuditSummary(cmd.Context(), auditFlags.hours)
	if err != nil {
		return err
	}

	if cli.OutputFormat(auditFlags.format) == cli.FormatJSON {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, summary)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "window: last %d hours\n", auditFlags.hours)
	fmt.Fprintf(out, "total decisions: %d\n", summary.TotalDecisions)
	fmt.Fprintf(out, "error rate: %.1f%%\n", summary.ErrorRate)
	for decisionType, count := range summary.DecisionsByType {
		fmt.Fprintf(out, "  %s: %d\n", decisionType, count)
	}
	return nil
}
