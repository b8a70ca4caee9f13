package tester

import (
	"errors"
	"fmt"

	"github.com/moamenhredeen/relcheck/internal/models"
)

var (
	// ErrTransport is returned when the request could not be built or sent
	ErrTransport = errors.New("transport failure")
	// ErrUnexpectedStatus is returned when the status is not in the expected set
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrMalformedBody is returned when the body is not the expected JSON shape
	ErrMalformedBody = errors.New("malformed response body")
)

// CheckError describes why a check failed
type CheckError struct {
	Kind        models.ErrorKind
	Description string
	Err         error
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("%s: %v", e.Description, e.Err)
}

func (e *CheckError) Unwrap() error {
	return e.Err
}

func sentinelFor(kind models.ErrorKind) error {
	switch kind {
	case models.KindStatus:
		return ErrUnexpectedStatus
	case models.KindBody:
		return ErrMalformedBody
	default:
		return ErrTransport
	}
}

// Err returns the failure of r as a *CheckError, or nil when r passed
func Err(r models.CheckResult) error {
	if r.Passed {
		return nil
	}
	return &CheckError{
		Kind:        r.Kind,
		Description: r.Description,
		Err:         fmt.Errorf("%w: %s", sentinelFor(r.Kind), r.Error),
	}
}
