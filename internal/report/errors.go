package report

import (
	"fmt"
)

type ErrMalformedResults struct {
	error
}

func NewErrMalformedResults(message string) *ErrMalformedResults {
	return &ErrMalformedResults{fmt.Errorf("malformed query results: %s", message)}
}

func NewErrMalformedRecord(index int, field string, reason string) *ErrMalformedResults {
	return NewErrMalformedResults(fmt.Sprintf("record %d: %s %s", index, field, reason))
}
