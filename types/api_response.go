package types

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SubmitResponse is the success envelope returned after a form post.
type SubmitResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    SubmissionData `json:"data"`
}

// SubmissionData echoes the identifying fields of an accepted submission.
type SubmissionData struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ListResponse is the envelope returned by the diagnostics listing endpoints.
type ListResponse struct {
	Success bool          `json:"success"`
	Count   int           `json:"count"`
	Data    []*Submission `json:"data"`
}

// ErrorResponse is the failure envelope for validation and server errors.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
	Detail  string       `json:"detail,omitempty"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
