package models

import "time"

// ErrorKind classifies why a check failed
type ErrorKind string

const (
	// KindNone means the check passed
	KindNone ErrorKind = ""
	// KindTransport covers connection failures and requests that could not be built
	KindTransport ErrorKind = "transport"
	// KindStatus means the service answered with a status outside the expected set
	KindStatus ErrorKind = "status"
	// KindBody means the response body was malformed or had an unexpected shape
	KindBody ErrorKind = "body"
)

// CheckResult represents the outcome of a single HTTP call
type CheckResult struct {
	Description string `json:"description"`
	Method      string `json:"method"`
	URL         string `json:"url"`

	// Status
	Expected   []int `json:"expected"`
	StatusCode int   `json:"status_code"`
	Passed     bool  `json:"passed"`

	// Failure details
	Kind  ErrorKind `json:"kind,omitempty"`
	Error string    `json:"error,omitempty"`

	Body     []byte        `json:"-"`
	Duration time.Duration `json:"duration_ns"`

	// Curl reproduces the request from a shell
	Curl string `json:"curl,omitempty"`
}
