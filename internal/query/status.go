package query

import (
	"encoding/json"
	"fmt"

	"github.com/logzilla/query2excel/internal/client"
)

const (
	statusField  = "status"
	resultsField = "results"

	// StatusInProgress is the only value of the status field that asks for another poll.
	StatusInProgress = "IN_PROGRESS"
)

// Status is the classified outcome of one status request. It is one of
// InProgress, Completed or Failed.
type Status interface {
	isStatus()
}

// InProgress means the job is still running.
type InProgress struct{}

// Completed carries a response that holds a results field.
type Completed struct {
	// Body is the full response body.
	Body []byte
	// Results is the raw value of the results field.
	Results json.RawMessage
}

// Failed is any response that is neither in progress nor completed.
type Failed struct {
	StatusCode int
	Detail     string
}

func (InProgress) isStatus() {}
func (Completed) isStatus()  {}
func (Failed) isStatus()     {}

// Classify inspects a status response once. The status field is checked
// before the results field.
func Classify(resp *client.Response) Status {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body, &fields); err != nil {
		return Failed{
			StatusCode: resp.StatusCode,
			Detail:     fmt.Sprintf("status %d with unreadable body: %v", resp.StatusCode, err),
		}
	}

	if raw, ok := fields[statusField]; ok {
		var status string
		if err := json.Unmarshal(raw, &status); err == nil && status == StatusInProgress {
			return InProgress{}
		}
	}

	if results, ok := fields[resultsField]; ok {
		return Completed{Body: resp.Body, Results: results}
	}

	return Failed{
		StatusCode: resp.StatusCode,
		Detail:     fmt.Sprintf("status %d without results: %s", resp.StatusCode, string(resp.Body)),
	}
}
