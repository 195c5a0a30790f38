package guardrails

import (
	"fmt"
	"regexp"
	"strings"
)

// CharClass declares the allowed character/token shape for sanitized input.
type CharClass string

const (
	// ClassAlphanumeric allows letters, digits, spaces, and basic
	// punctuation (.,-_).
	ClassAlphanumeric CharClass = "alphanumeric"

	// ClassNumeric allows digits, an optional sign, and a decimal point.
	ClassNumeric CharClass = "numeric"

	// ClassFreeText allows any characters but still rejects injection
	// patterns.
	ClassFreeText CharClass = "free_text"
)

// SanitizerConfig contains the denylist patterns for the input sanitizer.
// Patterns are supplied as static configuration at process start and are
// not mutated at runtime.
type SanitizerConfig struct {
	// SQLPatterns are regular expressions matching SQL control sequences.
	SQLPatterns []string

	// ScriptPatterns are regular expressions matching markup/script
	// injection markers.
	ScriptPatterns []string
}

// DefaultSanitizerConfig returns the built-in denylists.
func DefaultSanitizerConfig() *SanitizerConfig {
	return &SanitizerConfig{
		SQLPatterns: []string{
			`(?i);\s*--`,
			`(?i)--\s`,
			`(?i)\bdrop\s+table\b`,
			`(?i)\bdelete\s+from\b`,
			`(?i)\btruncate\s+table\b`,
			`(?i)\binsert\s+into\b`,
			`(?i)\bunion\s+select\b`,
			`(?i)'\s*or\s+'1'\s*=\s*'1`,
			`(?i);\s*(drop|delete|update|insert|alter)\b`,
		},
		ScriptPatterns: []string{
			`(?i)<\s*script`,
			`(?i)<\s*/\s*script`,
			`(?i)javascript\s*:`,
			`(?i)on(load|error|click|mouseover)\s*=`,
			`(?i)<\s*(iframe|object|embed|img)\b`,
		},
	}
}

// Sanitizer classifies and rejects untrusted strings against injection and
// markup patterns. It never transforms input: a suspicious value is
// reported, not repaired, so the audit trail can prove what was rejected
// and why.
//
// Patterns are compiled once at construction; Sanitize is read-only and
// safe for unbounded concurrent use.
type Sanitizer struct {
	sqlPatterns    []*regexp.Regexp
	scriptPatterns []*regexp.Regexp
}

var (
	alphanumericRe = regexp.MustCompile(`^[a-zA-Z0-9 .,_-]*$`)
	numericRe      = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?$`)
)

// NewSanitizer creates a sanitizer from the given configuration. A nil
// config uses the built-in denylists. Invalid patterns are rejected at
// construction so a misconfigured denylist cannot silently fail open.
func NewSanitizer(cfg *SanitizerConfig) (*Sanitizer, error) {
	if cfg == nil {
		cfg = DefaultSanitizerConfig()
	}

	s := &Sanitizer{}

	for _, p := range cfg.SQLPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid SQL denylist pattern %q: %w", p, err)
		}
		s.sqlPatterns = append(s.sqlPatterns, re)
	}

	for _, p := range cfg.ScriptPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid script denylist pattern %q: %w", p, err)
		}
		s.scriptPatterns = append(s.scriptPatterns, re)
	}

	return s, nil
}

// Sanitize checks raw input against the injection denylists and the
// declared character class. Detection rejects; nothing is stripped.
func (s *Sanitizer) Sanitize(raw string, class CharClass) ValidationResult {
	const field = "input"

	for _, re := range s.sqlPatterns {
		if re.MatchString(raw) {
			return Fail(field,
				fmt.Sprintf("input contains SQL control sequence matching %q", re.String()),
				GuardrailSQLInjection)
		}
	}

	for _, re := range s.scriptPatterns {
		if re.MatchString(raw) {
			return Fail(field,
				fmt.Sprintf("input contains script/markup injection marker matching %q", re.String()),
				GuardrailScriptInjection)
		}
	}

	switch class {
	case ClassAlphanumeric:
		if !alphanumericRe.MatchString(raw) {
			return Fail(field,
				fmt.Sprintf("input contains characters outside class %q", class),
				GuardrailInvalidCharClass)
		}
	case ClassNumeric:
		if !numericRe.MatchString(strings.TrimSpace(raw)) {
			return Fail(field,
				fmt.Sprintf("input is not a valid numeric value for class %q", class),
				GuardrailInvalidCharClass)
		}
	case ClassFreeText:
		// Injection denylists above are the only constraint.
	default:
		return Fail(field,
			fmt.Sprintf("unknown character class %q", class),
			GuardrailInvalidCharClass)
	}

	return Pass(field, "input passed sanitization")
}
