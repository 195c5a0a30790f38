package guardrails

// Guardrail identifiers returned in ValidationResult.GuardrailTriggered.
// These are part of the engine's contract: downstream consumers and tests
// assert on them, so they must remain stable across releases.
const (
	// GuardrailSQLInjection fires on SQL control sequences (statement
	// terminators, comment markers, destructive keywords).
	GuardrailSQLInjection = "sql_injection_pattern"

	// GuardrailScriptInjection fires on markup/script injection markers.
	GuardrailScriptInjection = "script_injection_pattern"

	// GuardrailInvalidCharClass fires when input contains characters
	// outside the declared character class.
	GuardrailInvalidCharClass = "invalid_character_class"

	// GuardrailImplausibleValue fires when a numeric field falls outside
	// its domain-plausible range.
	GuardrailImplausibleValue = "implausible_value"

	// GuardrailAccessDenied fires when the actor role lacks permission
	// for the operation implied by a field's category.
	GuardrailAccessDenied = "access_denied"

	// GuardrailRateLimitExceeded fires when the per-(operation, actor)
	// call quota is exhausted within the active window.
	GuardrailRateLimitExceeded = "rate_limit_exceeded"

	// GuardrailUnknownField fires when a payload field has no registered
	// descriptor. Unknown fields are reported, never silently passed.
	GuardrailUnknownField = "unknown_field"
)

// ValidationResult is the outcome of a single field or operation check.
// Results are constructed per check and immutable once returned.
type ValidationResult struct {
	// Field is the name of the checked attribute or operation.
	Field string `json:"field"`

	// IsValid reports whether the check passed.
	IsValid bool `json:"is_valid"`

	// Message is a human-readable explanation of the outcome.
	Message string `json:"message"`

	// GuardrailTriggered identifies the specific rule that fired.
	// Empty when the check passed.
	GuardrailTriggered string `json:"guardrail_triggered,omitempty"`
}

// Pass returns a passing ValidationResult for the given field.
func Pass(field, message string) ValidationResult {
	return ValidationResult{Field: field, IsValid: true, Message: message}
}

// Fail returns a failing ValidationResult with the guardrail that fired.
func Fail(field, message, guardrail string) ValidationResult {
	return ValidationResult{Field: field, IsValid: false, Message: message, GuardrailTriggered: guardrail}
}
