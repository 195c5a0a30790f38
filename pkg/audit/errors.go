package audit

import "fmt"

// ValidationError reports malformed input to an audit call itself, such as
// a confidence score outside [0,1] or a non-finite metric value. Nothing
// is persisted when a ValidationError is returned.
type ValidationError struct {
	Field   string // Input field that failed ("confidence_score", "metric_value")
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error [field=%s]: %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// PermissionError reports that the actor lacks the capability required for
// the attempted operation. The rejected attempt is still persisted as a
// status=error decision record for forensic traceability.
type PermissionError struct {
	Role      string // Actor role that was denied
	Operation string // Operation that was attempted
}

// Error implements the error interface.
func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied [role=%s, operation=%s]", e.Role, e.Operation)
}

// NewPermissionError creates a new PermissionError.
func NewPermissionError(role, operation string) *PermissionError {
	return &PermissionError{Role: role, Operation: operation}
}

// StorageError reports that the durable store rejected a read or write.
// Writes are atomic: on a StorageError the record is absent, never
// half-written.
type StorageError struct {
	Backend   string // Storage backend ("sqlite", "memory")
	Operation string // Operation that failed ("store", "history", "summary")
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}
