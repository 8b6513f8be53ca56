package query

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/logzilla/query2excel/internal/client"
	"github.com/thoas/go-funk"
	"go.uber.org/zap"
)

const (
	jobIDField = "query_id"
)

// AcceptedSubmitStatuses are the HTTP status codes of a successful submission.
var AcceptedSubmitStatuses = []int{http.StatusOK, http.StatusAccepted}

// JobID identifies a submitted query on the server.
type JobID string

// Transport is the part of the LogZilla client the query lifecycle needs.
type Transport interface {
	CreateQuery(ctx context.Context, definition []byte) (*client.Response, error)
	GetQuery(ctx context.Context, queryID string) (*client.Response, error)
}

type Submitter struct {
	transport Transport
}

func NewSubmitter(transport Transport) *Submitter {
	return &Submitter{transport: transport}
}

// Submit starts the query and returns its job id. It never retries.
func (s *Submitter) Submit(ctx context.Context, definition Definition) (JobID, error) {
	logger := zap.S().Named("submitter")

	resp, err := s.transport.CreateQuery(ctx, definition)
	if err != nil {
		return "", fmt.Errorf("failed to start query: %w", err)
	}

	if !funk.ContainsInt(AcceptedSubmitStatuses, resp.StatusCode) {
		logger.Info("Failed to start query due to an unexpected response.")
		return "", NewErrSubmissionRejected(resp.StatusCode, resp.Body)
	}

	var created struct {
		QueryID *string `json:"query_id"`
	}
	if err := json.Unmarshal(resp.Body, &created); err != nil || created.QueryID == nil || *created.QueryID == "" {
		logger.Info("Query was accepted without an id.")
		return "", NewErrMissingJobID(resp.Body)
	}

	logger.Infof("Query ID: %s", *created.QueryID)
	return JobID(*created.QueryID), nil
}
