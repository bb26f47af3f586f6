package types

import "time"

// FormKind identifies which intake form produced a submission.
type FormKind string

const (
	FormContact          FormKind = "contact"
	FormSignup           FormKind = "signup"
	FormSubdomainContact FormKind = "subdomain_contact"
)

// SubmissionStatus tracks the dispatch lifecycle of a submission.
// Transitions are forward-only: pending -> completed or pending -> failed.
type SubmissionStatus string

const (
	StatusPending   SubmissionStatus = "pending"
	StatusCompleted SubmissionStatus = "completed"
	StatusFailed    SubmissionStatus = "failed"
)

// Submission is a validated, persisted record of one form post.
type Submission struct {
	ID       string           `json:"id"`
	Form     FormKind         `json:"form"`
	Name     string           `json:"name"`
	Email    string           `json:"email"`
	Phone    string           `json:"phone,omitempty"`
	Category string           `json:"category,omitempty"`
	Message  string           `json:"message,omitempty"`
	Age      string           `json:"age,omitempty"`
	Source   string           `json:"source,omitempty"`
	IP       string           `json:"ip,omitempty"`
	Date     time.Time        `json:"date"`
	Status   SubmissionStatus `json:"status"`
	Error    string           `json:"error,omitempty"`
}

// ContactCreate is the request body for the main contact form.
type ContactCreate struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Category string `json:"category"`
	Age      string `json:"age"`
	Message  string `json:"message"`
}

// SignupCreate is the request body for the signup form.
type SignupCreate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// SubdomainContactCreate is the request body for the sub-domain contact form.
type SubdomainContactCreate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}
