// Package apierror defines the JSON error envelope returned by every 4xx/5xx
// response. Closure and report handlers funnel all failures through it so a
// cashier's client never sees SQL state, queue internals or stack traces —
// only a Spanish detail message and, for validation, the offending fields.
package apierror

// APIError is the envelope for errors without field-level detail: auth
// failures, missing records, duplicate closures, internal errors.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError carries per-field reasons for a rejected submission, such
// as a malformed closure date or a negative cash amount.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
