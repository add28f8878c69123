// Package browseruse is the HTTP client for the external browser
// automation provider. Data-retrieval skills execute as one POST against
// the skill endpoint; action skills run through the session lifecycle:
// create session, submit task, poll to a terminal state, release session.
package browseruse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"

	"github.com/byrencheema/tappy/pkg/logger"
)

// DefaultBaseURL is the provider endpoint used when no override is set.
const DefaultBaseURL = "https://api.browser-use.com/api/v2"

// ErrTaskTimedOut is returned by AwaitTask when the overall polling
// deadline is exceeded before the task reaches a terminal state.
var ErrTaskTimedOut = errors.New("task polling deadline exceeded")

// Config holds the provider connection settings.
type Config struct {
	// APIKey authenticates every request.
	APIKey string
	// BaseURL overrides DefaultBaseURL when set.
	BaseURL string
	// ProfileID references the stored credential profile action skills
	// run under. Empty means action skills cannot execute.
	ProfileID string
	// RequestTimeout bounds each individual HTTP call. Defaults to 30s.
	RequestTimeout time.Duration
	// PollInterval is the initial delay between task status polls,
	// doubling up to PollMaxInterval. Defaults to 3s.
	PollInterval time.Duration
	// PollMaxInterval caps the poll backoff. Defaults to 15s.
	PollMaxInterval time.Duration
	// TaskDeadline is the overall budget for one action task, covering
	// the whole polling loop. Defaults to 5m.
	TaskDeadline time.Duration
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 30 * time.Second
	}
	if c.PollInterval == 0 {
		c.PollInterval = 3 * time.Second
	}
	if c.PollMaxInterval == 0 {
		c.PollMaxInterval = 15 * time.Second
	}
	if c.TaskDeadline == 0 {
		c.TaskDeadline = 5 * time.Minute
	}
	return c
}

// Client talks to the provider API. Safe for concurrent use.
type Client struct {
	config     Config
	httpClient *http.Client
}

// New creates a provider client.
func New(config Config) *Client {
	config = config.withDefaults()
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.RequestTimeout},
	}
}

// ProfileID returns the configured credential profile reference.
func (c *Client) ProfileID() string {
	return c.config.ProfileID
}

// TaskStatus is one observation of an action task.
type TaskStatus struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	IsSuccess bool   `json:"isSuccess"`
	Output    string `json:"output"`
	Steps     []any  `json:"steps"`
}

// Terminal reports whether the task has finished polling.
func (s TaskStatus) Terminal() bool {
	switch s.Status {
	case "finished", "failed", "stopped":
		return true
	}
	return false
}

// ExecuteSkill runs a data-retrieval skill as a single synchronous call.
// The call is idempotent on the provider side, so one retry is attempted
// on transient network failure.
func (c *Client) ExecuteSkill(ctx context.Context, skillID string, parameters map[string]any) (map[string]any, error) {
	var output map[string]any
	err := retry.Do(
		func() error {
			var callErr error
			output, callErr = c.postJSON(ctx, fmt.Sprintf("/skills/%s/execute", skillID), map[string]any{
				"parameters": parameters,
			})
			return callErr
		},
		retry.Context(ctx),
		retry.Attempts(2),
		retry.Delay(time.Second),
		retry.LastErrorOnly(true),
		retry.RetryIf(isTransient),
		retry.OnRetry(func(_ uint, err error) {
			logger.G(ctx).WithError(err).WithField("skill_id", skillID).
				Info("retrying data-retrieval call after transient failure")
		}),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "skill %s execution failed", skillID)
	}
	return output, nil
}

// CreateSession opens an authenticated browser session using the
// configured profile. The caller owns the session and must release it.
func (c *Client) CreateSession(ctx context.Context) (string, error) {
	body, err := c.postJSON(ctx, "/sessions", map[string]any{"profileId": c.config.ProfileID})
	if err != nil {
		return "", errors.Wrap(err, "failed to create session")
	}
	id, _ := body["id"].(string)
	if id == "" {
		return "", errors.New("provider returned a session without an id")
	}
	return id, nil
}

// SubmitTask attaches a skill task to an open session and returns the
// task id to poll.
func (c *Client) SubmitTask(ctx context.Context, sessionID, skillID, task string) (string, error) {
	body, err := c.postJSON(ctx, "/tasks", map[string]any{
		"sessionId": sessionID,
		"skills":    []string{skillID},
		"task":      task,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to submit task")
	}
	id, _ := body["id"].(string)
	if id == "" {
		return "", errors.New("provider returned a task without an id")
	}
	return id, nil
}

// PollTask fetches the current status of a task.
func (c *Client) PollTask(ctx context.Context, taskID string) (TaskStatus, error) {
	var status TaskStatus
	if err := c.getJSON(ctx, "/tasks/"+taskID, &status); err != nil {
		return TaskStatus{}, errors.Wrap(err, "failed to poll task")
	}
	if status.ID == "" {
		status.ID = taskID
	}
	return status, nil
}

// AwaitTask polls a task with bounded exponential backoff until it reaches
// a terminal state or the overall deadline elapses, in which case
// ErrTaskTimedOut is returned.
func (c *Client) AwaitTask(ctx context.Context, taskID string) (TaskStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.TaskDeadline)
	defer cancel()

	interval := c.config.PollInterval
	for {
		select {
		case <-ctx.Done():
			return TaskStatus{}, ErrTaskTimedOut
		case <-time.After(interval):
		}

		status, err := c.PollTask(ctx, taskID)
		if err != nil {
			if ctx.Err() != nil {
				return TaskStatus{}, ErrTaskTimedOut
			}
			return TaskStatus{}, err
		}
		if status.Terminal() {
			return status, nil
		}

		interval *= 2
		if interval > c.config.PollMaxInterval {
			interval = c.config.PollMaxInterval
		}
	}
}

// ReleaseSession deletes a session. Callers invoke this on every exit
// path, so it tolerates an already-cancelled request context.
func (c *Client) ReleaseSession(ctx context.Context, sessionID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.config.BaseURL+"/sessions/"+sessionID, nil)
	if err != nil {
		return errors.Wrap(err, "failed to build session release request")
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to release session")
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		return errors.Errorf("failed to release session: HTTP %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Browser-Use-API-Key", c.config.APIKey)
}

func (c *Client) postJSON(ctx context.Context, path string, payload map[string]any) (map[string]any, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode request payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}
	if resp.StatusCode >= 300 {
		return nil, &statusError{code: resp.StatusCode, body: string(body)}
	}

	var decoded map[string]any
	if len(body) > 0 {
		if err := json.Unmarshal(body, &decoded); err != nil {
			return nil, errors.Wrap(err, "provider returned invalid JSON")
		}
	}
	return decoded, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path, nil)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}
	if resp.StatusCode >= 300 {
		return &statusError{code: resp.StatusCode, body: string(body)}
	}
	return errors.Wrap(json.Unmarshal(body, out), "provider returned invalid JSON")
}

// statusError carries a non-2xx provider response.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.code, truncateBody(e.body))
}

func truncateBody(s string) string {
	if len(s) > 300 {
		return s[:300] + "..."
	}
	return s
}

// isTransient classifies failures worth a single retry: network errors,
// timeouts and provider 5xx responses.
func isTransient(err error) bool {
	var statusErr *statusError
	if errors.As(err, &statusErr) {
		return statusErr.code >= 500
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
