package guardrails

import (
	"fmt"
	"math"

	"sragops/vigil/pkg/guardrails/ratelimit"
)

// FieldDescriptor declares the shape of one payload field: its plausible
// numeric range and the operation an actor must hold to submit it.
// Descriptors are resolved at configuration time so the hot validation
// path does no runtime type discovery.
type FieldDescriptor struct {
	// Name is the payload field name.
	Name string

	// Min and Max bound the domain-plausible range, inclusive.
	Min float64
	Max float64

	// Operation is the permission required to submit or view the field.
	Operation string
}

// DefaultFieldDescriptors returns the descriptor set for the SRAG metric
// payload: epidemiological rates in [0,100] and patient age in [0,130].
func DefaultFieldDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		{Name: "mortality_rate", Min: 0, Max: 100, Operation: OpReadDatabase},
		{Name: "uti_rate", Min: 0, Max: 100, Operation: OpReadDatabase},
		{Name: "age", Min: 0, Max: 130, Operation: OpReadDatabase},
		{Name: "vaccination_rate", Min: 0, Max: 100, Operation: OpReadDatabase},
	}
}

// PayloadField is one declared field of a metric payload. Payloads are
// ordered slices rather than maps so validation results come back in
// declaration order.
type PayloadField struct {
	Name  string
	Value any
}

// CheckRecorder receives the outcome of every guardrail check, for metric
// collection. An empty guardrail means the check passed.
type CheckRecorder interface {
	RecordCheck(field, guardrail string, valid bool)
}

// Engine bundles the sanitizer, access controller, and rate limiter with
// field-level range checks into one validation entry point.
type Engine struct {
	sanitizer *Sanitizer
	access    *AccessController
	limiter   *ratelimit.Limiter
	fields    map[string]FieldDescriptor
	recorder  CheckRecorder
}

// NewEngine creates a validation engine. Nil descriptors fall back to
// DefaultFieldDescriptors. The sanitizer, access controller, and limiter
// are injected so tests can run with isolated fixtures.
func NewEngine(sanitizer *Sanitizer, access *AccessController, limiter *ratelimit.Limiter, descriptors []FieldDescriptor) *Engine {
	if descriptors == nil {
		descriptors = DefaultFieldDescriptors()
	}

	fields := make(map[string]FieldDescriptor, len(descriptors))
	for _, d := range descriptors {
		fields[d.Name] = d
	}

	return &Engine{
		sanitizer: sanitizer,
		access:    access,
		limiter:   limiter,
		fields:    fields,
	}
}

// Sanitizer returns the engine's input sanitizer.
func (e *Engine) Sanitizer() *Sanitizer { return e.sanitizer }

// AccessController returns the engine's access controller.
func (e *Engine) AccessController() *AccessController { return e.access }

// SetCheckRecorder attaches a recorder for check outcomes. Must be called
// before the engine is shared between goroutines.
func (e *Engine) SetCheckRecorder(r CheckRecorder) { e.recorder = r }

// ValidateMedicalData checks every declared payload field and returns one
// ValidationResult per field, in declaration order. Validation never
// short-circuits: a failing field does not stop the remaining fields from
// being checked, so the caller always gets the complete picture.
func (e *Engine) ValidateMedicalData(payload []PayloadField, actorRole string) []ValidationResult {
	results := make([]ValidationResult, 0, len(payload))
	for _, f := range payload {
		r := e.validateField(f, actorRole)
		if e.recorder != nil {
			e.recorder.RecordCheck(r.Field, r.GuardrailTriggered, r.IsValid)
		}
		results = append(results, r)
	}
	return results
}

// CheckRateLimit records one call for (operation, actor) against the
// configured quotas and reports the outcome as a ValidationResult.
func (e *Engine) CheckRateLimit(operation, actor string) ValidationResult {
	res := e.limiter.Check(operation, actor)
	if e.recorder != nil {
		guardrail := ""
		if !res.Allowed {
			guardrail = GuardrailRateLimitExceeded
		}
		e.recorder.RecordCheck(operation, guardrail, res.Allowed)
	}
	if !res.Allowed {
		return Fail(operation,
			fmt.Sprintf("rate limit exceeded for %q: %d calls per window, retry after %s",
				operation, res.Limit, res.Reset.UTC().Format("15:04:05")),
			GuardrailRateLimitExceeded)
	}
	return Pass(operation, fmt.Sprintf("call within quota (%d remaining)", res.Remaining))
}

func (e *Engine) validateField(f PayloadField, actorRole string) ValidationResult {
	desc, known := e.fields[f.Name]
	if !known {
		return Fail(f.Name,
			fmt.Sprintf("field %q has no registered descriptor", f.Name),
			GuardrailUnknownField)
	}

	value, result, ok := e.numericValue(f)
	if !ok {
		return result
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Fail(f.Name,
			fmt.Sprintf("field %q is not a finite number", f.Name),
			GuardrailImplausibleValue)
	}

	if value < desc.Min || value > desc.Max {
		return Fail(f.Name,
			fmt.Sprintf("field %q value %g is outside plausible range [%g, %g]",
				f.Name, value, desc.Min, desc.Max),
			GuardrailImplausibleValue)
	}

	if access := e.access.CheckPermission(actorRole, desc.Operation); !access.IsValid {
		return Fail(f.Name, access.Message, GuardrailAccessDenied)
	}

	return Pass(f.Name, fmt.Sprintf("value %g within plausible range [%g, %g]", value, desc.Min, desc.Max))
}

// numericValue extracts a float64 from the field value. Textual values are
// run through the sanitizer with the numeric class before parsing; a
// sanitizer rejection is returned as the field's result.
func (e *Engine) numericValue(f PayloadField) (float64, ValidationResult, bool) {
	switch v := f.Value.(type) {
	case float64:
		return v, ValidationResult{}, true
	case float32:
		return float64(v), ValidationResult{}, true
	case int:
		return float64(v), ValidationResult{}, true
	case int64:
		return float64(v), ValidationResult{}, true
	case string:
		if res := e.sanitizer.Sanitize(v, ClassNumeric); !res.IsValid {
			res.Field = f.Name
			return 0, res, false
		}
		var value float64
		if _, err := fmt.Sscanf(v, "%g", &value); err != nil {
			return 0, Fail(f.Name,
				fmt.Sprintf("field %q value %q is not numeric", f.Name, v),
				GuardrailInvalidCharClass), false
		}
		return value, ValidationResult{}, true
	default:
		return 0, Fail(f.Name,
			fmt.Sprintf("field %q has unsupported type %T", f.Name, f.Value),
			GuardrailInvalidCharClass), false
	}
}
