package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/logzilla/query2excel/pkg/log"
	"go.uber.org/zap"
)

// Client issues authenticated requests against the LogZilla query API.
// It does not interpret response bodies or status codes.
type Client struct {
	baseURL    string
	token      string
	requestID  string
	httpClient *http.Client
}

// Response is the raw outcome of one call.
type Response struct {
	StatusCode int
	Body       []byte
}

func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    trimBaseURL(baseURL),
		token:      token,
		httpClient: NewHTTPClient(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// CreateQuery posts the query definition verbatim to /api/query.
func (c *Client) CreateQuery(ctx context.Context, definition []byte) (*Response, error) {
	return c.do(ctx, http.MethodPost, c.baseURL+"/api/query", definition)
}

// GetQuery fetches the state of a submitted query.
func (c *Client) GetQuery(ctx context.Context, queryID string) (*Response, error) {
	return c.do(ctx, http.MethodGet, fmt.Sprintf("%s/api/query/%s", c.baseURL, url.PathEscape(queryID)), nil)
}

func (c *Client) do(ctx context.Context, method, target string, body []byte) (*Response, error) {
	logger := zap.S().Named("client")

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Authorization", "token "+c.token)
	if c.requestID != "" {
		httpReq.Header.Set(RequestIDHeader, c.requestID)
	}

	logger.Debugw("sending request",
		"method", method,
		"url", target,
		"authorization", log.RedactToken(httpReq.Header.Get("Authorization")),
		"request_id", c.requestID,
		"body", string(body))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call logzilla: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	logger.Debugw("received response",
		"url", target,
		"status_code", resp.StatusCode,
		"body", string(bodyBytes))

	return &Response{StatusCode: resp.StatusCode, Body: bodyBytes}, nil
}
