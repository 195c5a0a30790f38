// Vigil is the audit and guardrails engine for SRAG analytics pipelines.
//
// It validates medical metric payloads, sanitizes untrusted text, enforces
// role-based access, throttles repeated operations, and durably records
// every clinical interpretation decision.
//
// Usage:
//
//	# Run the end-to-end guardrails walkthrough
//	vigil demo
//
//	# Show the most recent audited decisions
//	vigil audit history --limit 10
//
//	# Summarize the last 24 hours of audit activity
//	vigil audit summary --hours 24
//
//	# Validate a metric payload file as a given role
//	vigil validate --file payload.json --role data_analyst
//
//	# Show version information
//	vigil version
package main

func main() {
	Execute()
}
