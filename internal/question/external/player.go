package external

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gokatarajesh/extreme-startup/internal/question"
)

const defaultMaxBody = 64 << 10

// PlayerClient sends questions to player endpoints.
type PlayerClient struct {
	httpClient *http.Client
	timeout    time.Duration
	maxBody    int64
}

var _ question.Dispatcher = (*PlayerClient)(nil)

// NewPlayerClient builds a dispatcher with a per-request timeout.
func NewPlayerClient(timeout time.Duration, httpClient *http.Client) *PlayerClient {
	if timeout <= 0 {
		timeout = 4 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &PlayerClient{
		httpClient: httpClient,
		timeout:    timeout,
		maxBody:    defaultMaxBody,
	}
}

// Dispatch issues a GET to target. Errors are transport failures only; any
// HTTP status, successful or not, comes back in the Response.
func (c *PlayerClient) Dispatch(ctx context.Context, target string) (question.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return question.Response{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return question.Response{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		return question.Response{}, fmt.Errorf("read body: %w", err)
	}
	return question.Response{StatusCode: resp.StatusCode, Body: string(body)}, nil
}
