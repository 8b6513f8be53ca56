package query

import (
	"fmt"
)

type ErrInvalidDefinition struct {
	error
}

func NewErrInvalidDefinition(path string, err error) *ErrInvalidDefinition {
	return &ErrInvalidDefinition{fmt.Errorf("query definition %s is invalid: %w", path, err)}
}

func (e *ErrInvalidDefinition) Unwrap() error {
	return e.error
}

type ErrSubmissionRejected struct {
	error
	StatusCode int
}

func NewErrSubmissionRejected(statusCode int, body []byte) *ErrSubmissionRejected {
	return &ErrSubmissionRejected{
		error:      fmt.Errorf("failed to start query: unexpected status %d: %s", statusCode, string(body)),
		StatusCode: statusCode,
	}
}

type ErrMissingJobID struct {
	error
}

func NewErrMissingJobID(body []byte) *ErrMissingJobID {
	return &ErrMissingJobID{fmt.Errorf("failed to start query: response carries no %s: %s", jobIDField, string(body))}
}

type ErrPollFailed struct {
	error
	Attempt int
}

func NewErrPollFailed(attempt int, failure Failed) *ErrPollFailed {
	return &ErrPollFailed{
		error:   fmt.Errorf("failed to retrieve query results on attempt %d: %s", attempt, failure.Detail),
		Attempt: attempt,
	}
}

type ErrPollExhausted struct {
	error
	Attempts int
}

func NewErrPollExhausted(attempts int) *ErrPollExhausted {
	return &ErrPollExhausted{
		error:    fmt.Errorf("query results not ready after %d attempts", attempts),
		Attempts: attempts,
	}
}
