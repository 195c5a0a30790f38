package guardrails

import "fmt"

// Operation names understood by the default access policy.
const (
	OpReadDatabase         = "read_database"
	OpGenerateReports      = "generate_reports"
	OpProcessData          = "process_data"
	OpModifyDatabase       = "modify_database"
	OpRecordInterpretation = "record_interpretation"
)

// AccessPolicy maps a role to the set of operations it may perform.
// The policy is loaded once at process start and never mutated; absence of
// an explicit grant is denial.
type AccessPolicy map[string][]string

// DefaultAccessPolicy returns the static role table used when no policy is
// configured.
func DefaultAccessPolicy() AccessPolicy {
	return AccessPolicy{
		"data_reader": {OpReadDatabase},
		"data_analyst": {
			OpReadDatabase,
			OpGenerateReports,
			OpProcessData,
			OpRecordInterpretation,
		},
		"admin": {
			OpReadDatabase,
			OpGenerateReports,
			OpProcessData,
			OpModifyDatabase,
			OpRecordInterpretation,
		},
	}
}

// AccessController evaluates role → operation permission against an
// immutable policy table. Lookups are pure reads with no locking, safe for
// unbounded concurrent access. Unknown roles and unknown operations both
// deny; the controller never fails open.
type AccessController struct {
	policy map[string]map[string]struct{}
	ops    map[string]struct{}
}

// NewAccessController builds a controller from the given policy. A nil
// policy uses DefaultAccessPolicy.
func NewAccessController(policy AccessPolicy) *AccessController {
	if policy == nil {
		policy = DefaultAccessPolicy()
	}

	c := &AccessController{
		policy: make(map[string]map[string]struct{}, len(policy)),
		ops:    make(map[string]struct{}),
	}

	for role, operations := range policy {
		granted := make(map[string]struct{}, len(operations))
		for _, op := range operations {
			granted[op] = struct{}{}
			c.ops[op] = struct{}{}
		}
		c.policy[role] = granted
	}

	return c
}

// CheckPermission reports whether role may perform operation. Results are
// deterministic for a given policy: repeated calls always agree.
func (c *AccessController) CheckPermission(role, operation string) ValidationResult {
	granted, known := c.policy[role]
	if !known {
		return Fail(operation,
			fmt.Sprintf("role %q is not defined in the access policy", role),
			GuardrailAccessDenied)
	}

	if _, ok := granted[operation]; !ok {
		return Fail(operation,
			fmt.Sprintf("role %q is not permitted to perform %q", role, operation),
			GuardrailAccessDenied)
	}

	return Pass(operation, fmt.Sprintf("role %q may perform %q", role, operation))
}

// KnownOperation reports whether any role in the policy grants operation.
// Used by configuration validation to catch quota entries for operations
// no role can ever perform.
func (c *AccessController) KnownOperation(operation string) bool {
	_, ok := c.ops[operation]
	return ok
}
