package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"sragops/vigil/pkg/audit/trail"
	"sragops/vigil/pkg/guardrails"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the guardrails and audit walkthrough",
	Long: `Run an end-to-end demonstration of the audit and guardrails engine:

  1. Field validation of a metric payload
  2. Auditing a clinical interpretation
  3. Rejection of malicious inputs
  4. Role/operation permission matrix
  5. Rate limit exhaustion
  6. 24-hour audit summary

The demo uses an in-memory audit store and leaves no files behind.`,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	a, err := newApp("memory")
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	section(out, "1. MEDICAL FIELD VALIDATION")

	payload := []guardrails.PayloadField{
		{Name: "mortality_rate", Value: 15.5},
		{Name: "uti_rate", Value: 25.0},
		{Name: "age", Value: 65},
		{Name: "vaccination_rate", Value: 85.0},
	}
	for _, r := range a.engine.ValidateMedicalData(payload, "data_analyst") {
		printResult(out, r.Field, r)
	}

	section(out, "2. CLINICAL INTERPRETATION AUDIT")

	decisionID, err := a.trail.AuditClinicalInterpretation(ctx, trail.InterpretationRequest{
		MetricType:      "mortality_rate",
		MetricValue:     15.5,
		ThresholdUsed:   10.0,
		Interpretation:  "Mortality rate above threshold, requires monitoring",
		ConfidenceScore: 0.9,
		UserRole:        "data_analyst",
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "  interpretation audited, decision id %s\n", decisionID)

	records, err := a.trail.History(ctx, 1)
	if err != nil {
		return err
	}
	for _, r := range records {
		fmt.Fprintf(out, "  type=%s time=%s confidence=%.2f\n",
			r.DecisionType, r.Timestamp.Format("2006-01-02 15:04:05"), r.ConfidenceScore)
	}

	section(out, "3. MALICIOUS INPUT REJECTION")

	dangerous := []string{
		"SELECT * FROM users; DROP TABLE users;",
		"<script>alert('XSS')</script>",
		"'; DELETE FROM srag_cases; --",
		"Normal input text",
	}
	for _, input := range dangerous {
		r := a.engine.Sanitizer().Sanitize(input, guardrails.ClassAlphanumeric)
		printResult(out, truncate(input, 40), r)
	}

	section(out, "4. ACCESS CONTROL")

	operations := []string{
		guardrails.OpReadDatabase,
		guardrails.OpGenerateReports,
		guardrails.OpProcessData,
		guardrails.OpModifyDatabase,
	}
	for _, role := range []string{"data_reader", "data_analyst", "admin"} {
		fmt.Fprintf(out, "  role %s:\n", role)
		for _, op := range operations {
			r := a.engine.AccessController().CheckPermission(role, op)
			status := "DENIED"
			if r.IsValid {
				status = "ALLOWED"
			}
			fmt.Fprintf(out, "    %-7s %s\n", status, op)
		}
	}

	section(out, "5. RATE LIMITING")

	for i := 1; i <= 5; i++ {
		r := a.engine.CheckRateLimit("database_query", "demo_user")
		printResult(out, fmt.Sprintf("query %d", i), r)
	}

	section(out, "6. AUDIT SUMMARY (last 24h)")

	summary, err := a.trail.AuditSummary(ctx, 24)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "  total decisions: %d\n", summary.TotalDecisions)
	fmt.Fprintf(out, "  error rate: %.1f%%\n", summary.ErrorRate)
	for decisionType, count := range summary.DecisionsByType {
		fmt.Fprintf(out, "  %s: %d\n", decisionType, count)
	}

	return nil
}

func section(out io.Writer, title string) {
	fmt.Fprintf(out, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
}

func printResult(out io.Writer, label string, r guardrails.ValidationResult) {
	status := "BLOCKED"
	if r.IsValid {
		status = "OK"
	}
	fmt.Fprintf(out, "  %-7s %s", status, label)
	if r.GuardrailTriggered != "" {
		fmt.Fprintf(out, " [%s]", r.GuardrailTriggered)
	}
	fmt.Fprintln(out)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
