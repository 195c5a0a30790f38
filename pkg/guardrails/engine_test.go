package guardrails

import (
	"math"
	"testing"
	"time"

	"sragops/vigil/pkg/guardrails/ratelimit"
)

func newTestEngine(t *testing.T, quotas map[string]ratelimit.Quota) *Engine {
	t.Helper()

	s, err := NewSanitizer(nil)
	if err != nil {
		t.Fatalf("NewSanitizer() failed: %v", err)
	}
	limiter := ratelimit.NewLimiter(quotas, nil)
	t.Cleanup(func() { limiter.Close() })

	return NewEngine(s, NewAccessController(nil), limiter, nil)
}

// TestEngine_ValidPayload tests that the reference metric payload passes
// with exactly one result per field, in declaration order.
func TestEngine_ValidPayload(t *testing.T) {
	e := newTestEngine(t, nil)

	payload := []PayloadField{
		{Name: "mortality_rate", Value: 15.5},
		{Name: "uti_rate", Value: 25.0},
		{Name: "age", Value: 65.0},
		{Name: "vaccination_rate", Value: 85.0},
	}

	results := e.ValidateMedicalData(payload, "data_analyst")
	if len(results) != len(payload) {
		t.Fatalf("Expected %d results, got %d", len(payload), len(results))
	}

	for i, res := range results {
		if res.Field != payload[i].Name {
			t.Errorf("Result %d: expected field %q, got %q", i, payload[i].Name, res.Field)
		}
		if !res.IsValid {
			t.Errorf("Field %s: expected valid, got: %s", res.Field, res.Message)
		}
	}
}

// TestEngine_NoShortCircuit tests that a failing field does not stop the
// remaining fields from being checked.
func TestEngine_NoShortCircuit(t *testing.T) {
	e := newTestEngine(t, nil)

	payload := []PayloadField{
		{Name: "mortality_rate", Value: 150.0}, // out of range
		{Name: "uti_rate", Value: 25.0},
		{Name: "age", Value: -5.0}, // out of range
		{Name: "vaccination_rate", Value: 85.0},
	}

	results := e.ValidateMedicalData(payload, "data_analyst")
	if len(results) != 4 {
		t.Fatalf("Expected 4 results, got %d", len(results))
	}

	if results[0].IsValid {
		t.Error("Expected mortality_rate=150 to fail")
	}
	if results[0].GuardrailTriggered != GuardrailImplausibleValue {
		t.Errorf("Expected guardrail %q, got %q", GuardrailImplausibleValue, results[0].GuardrailTriggered)
	}
	if !results[1].IsValid {
		t.Errorf("Expected uti_rate to pass after earlier failure: %s", results[1].Message)
	}
	if results[2].IsValid {
		t.Error("Expected age=-5 to fail")
	}
	if !results[3].IsValid {
		t.Errorf("Expected vaccination_rate to pass: %s", results[3].Message)
	}
}

// TestEngine_RangeBoundaries tests that range checks are inclusive.
func TestEngine_RangeBoundaries(t *testing.T) {
	e := newTestEngine(t, nil)

	tests := []struct {
		field string
		value float64
		valid bool
	}{
		{"mortality_rate", 0, true},
		{"mortality_rate", 100, true},
		{"mortality_rate", 100.01, false},
		{"age", 0, true},
		{"age", 130, true},
		{"age", 131, false},
		{"age", -1, false},
	}

	for _, tt := range tests {
		results := e.ValidateMedicalData([]PayloadField{{Name: tt.field, Value: tt.value}}, "admin")
		if len(results) != 1 {
			t.Fatalf("%s=%v: expected 1 result, got %d", tt.field, tt.value, len(results))
		}
		if results[0].IsValid != tt.valid {
			t.Errorf("%s=%v: expected valid=%v, got %v (%s)",
				tt.field, tt.value, tt.valid, results[0].IsValid, results[0].Message)
		}
	}
}

// TestEngine_NonFiniteValues tests NaN and infinity rejection.
func TestEngine_NonFiniteValues(t *testing.T) {
	e := newTestEngine(t, nil)

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		results := e.ValidateMedicalData([]PayloadField{{Name: "age", Value: v}}, "admin")
		if results[0].IsValid {
			t.Errorf("Expected non-finite value %v to be rejected", v)
		}
		if results[0].GuardrailTriggered != GuardrailImplausibleValue {
			t.Errorf("Expected guardrail %q for %v, got %q",
				GuardrailImplausibleValue, v, results[0].GuardrailTriggered)
		}
	}
}

// TestEngine_StringValues tests that string values are sanitized before
// numeric parsing, and that injections in values trip the sanitizer.
func TestEngine_StringValues(t *testing.T) {
	e := newTestEngine(t, nil)

	results := e.ValidateMedicalData([]PayloadField{{Name: "uti_rate", Value: "25.0"}}, "data_analyst")
	if !results[0].IsValid {
		t.Errorf("Expected numeric string to pass: %s", results[0].Message)
	}

	results = e.ValidateMedicalData([]PayloadField{
		{Name: "uti_rate", Value: "25; DROP TABLE decisions"},
	}, "data_analyst")
	if results[0].IsValid {
		t.Error("Expected injected value to be rejected")
	}
	if results[0].GuardrailTriggered != GuardrailSQLInjection {
		t.Errorf("Expected guardrail %q, got %q", GuardrailSQLInjection, results[0].GuardrailTriggered)
	}

	results = e.ValidateMedicalData([]PayloadField{{Name: "uti_rate", Value: "high"}}, "data_analyst")
	if results[0].IsValid {
		t.Error("Expected non-numeric string to be rejected")
	}
}

// TestEngine_UnknownField tests that undeclared fields are reported, not
// silently passed.
func TestEngine_UnknownField(t *testing.T) {
	e := newTestEngine(t, nil)

	results := e.ValidateMedicalData([]PayloadField{{Name: "bmi", Value: 22.0}}, "admin")
	if results[0].IsValid {
		t.Error("Expected unknown field to be rejected")
	}
	if results[0].GuardrailTriggered != GuardrailUnknownField {
		t.Errorf("Expected guardrail %q, got %q", GuardrailUnknownField, results[0].GuardrailTriggered)
	}
}

// TestEngine_AccessDeniedField tests that a role lacking the field's
// required operation fails the field with access_denied.
func TestEngine_AccessDeniedField(t *testing.T) {
	s, err := NewSanitizer(nil)
	if err != nil {
		t.Fatalf("NewSanitizer() failed: %v", err)
	}
	limiter := ratelimit.NewLimiter(nil, nil)
	defer limiter.Close()

	descriptors := []FieldDescriptor{
		{Name: "mortality_rate", Min: 0, Max: 100, Operation: OpModifyDatabase},
	}
	e := NewEngine(s, NewAccessController(nil), limiter, descriptors)

	results := e.ValidateMedicalData([]PayloadField{{Name: "mortality_rate", Value: 10.0}}, "data_analyst")
	if results[0].IsValid {
		t.Error("Expected field requiring modify_database to be denied for data_analyst")
	}
	if results[0].GuardrailTriggered != GuardrailAccessDenied {
		t.Errorf("Expected guardrail %q, got %q", GuardrailAccessDenied, results[0].GuardrailTriggered)
	}

	results = e.ValidateMedicalData([]PayloadField{{Name: "mortality_rate", Value: 10.0}}, "admin")
	if !results[0].IsValid {
		t.Errorf("Expected admin to pass: %s", results[0].Message)
	}
}

// recordedCheck captures one RecordCheck call.
type recordedCheck struct {
	field     string
	guardrail string
	valid     bool
}

type checkSpy struct {
	checks []recordedCheck
}

func (s *checkSpy) RecordCheck(field, guardrail string, valid bool) {
	s.checks = append(s.checks, recordedCheck{field, guardrail, valid})
}

// TestEngine_CheckRecorder tests that every check outcome reaches the
// attached recorder.
func TestEngine_CheckRecorder(t *testing.T) {
	e := newTestEngine(t, nil)
	spy := &checkSpy{}
	e.SetCheckRecorder(spy)

	e.ValidateMedicalData([]PayloadField{
		{Name: "mortality_rate", Value: 15.5},
		{Name: "age", Value: 200.0},
	}, "data_analyst")

	if len(spy.checks) != 2 {
		t.Fatalf("Expected 2 recorded checks, got %d", len(spy.checks))
	}
	if !spy.checks[0].valid || spy.checks[0].field != "mortality_rate" {
		t.Errorf("Unexpected first check: %+v", spy.checks[0])
	}
	if spy.checks[1].valid || spy.checks[1].guardrail != GuardrailImplausibleValue {
		t.Errorf("Unexpected second check: %+v", spy.checks[1])
	}
}

// TestEngine_CheckRateLimit tests quota enforcement through the engine.
func TestEngine_CheckRateLimit(t *testing.T) {
	quotas := map[string]ratelimit.Quota{
		"database_query": {MaxCalls: 3, Window: time.Minute},
	}
	e := newTestEngine(t, quotas)

	for i := 0; i < 3; i++ {
		res := e.CheckRateLimit("database_query", "data_analyst")
		if !res.IsValid {
			t.Fatalf("Call %d: expected within quota, got: %s", i+1, res.Message)
		}
	}

	res := e.CheckRateLimit("database_query", "data_analyst")
	if res.IsValid {
		t.Error("Expected 4th call to exceed quota")
	}
	if res.GuardrailTriggered != GuardrailRateLimitExceeded {
		t.Errorf("Expected guardrail %q, got %q", GuardrailRateLimitExceeded, res.GuardrailTriggered)
	}
}
