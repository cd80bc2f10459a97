package errors

// ErrorResponse represents a standardized error response. Code is a stable
// machine-readable discriminant callers can branch on.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ValidationResponse carries field-level validation failures.
type ValidationResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}
