package headless

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is where a locally started headless server listens.
const DefaultBaseURL = "http://localhost:1234"

// Client talks to one headless simulation server. Every method is a single
// blocking round trip: no retries, no recovery. A transport failure, a
// non-2xx status or a payload that doesn't match the expected shape comes
// back as an error, because an experiment built on a partially-failed
// phase would compare garbage.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every round trip. The zero default means no timeout
// at all: goto-time legitimately blocks for as long as the server needs to
// simulate the requested span.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// NewClient returns a client for the server at baseURL. An empty baseURL
// selects DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL reports the server this client targets.
func (c *Client) BaseURL() string { return c.baseURL }

// Time returns the current simulated clock, as the server renders it.
func (c *Client) Time(ctx context.Context) (string, error) {
	return c.getText(ctx, "/sim/get-time", nil)
}

// Reset rewinds the simulation to midnight. It also discards every applied
// edit, so any signal change must be re-posted after calling this.
func (c *Client) Reset(ctx context.Context) (string, error) {
	return c.getText(ctx, "/sim/reset", nil)
}

// GotoTime runs the simulation forward until its clock reaches t
// ("HH:MM:SS"). Asking for a time in the simulated past is undefined on
// the server side; callers must reset first instead.
func (c *Client) GotoTime(ctx context.Context, t string) (string, error) {
	q := url.Values{}
	q.Set("t", t)
	return c.getText(ctx, "/sim/goto-time", q)
}

// FinishedTrips returns every trip that has ended so far, cancelled ones
// included.
func (c *Client) FinishedTrips(ctx context.Context) ([]Trip, error) {
	return getJSON[[]Trip](ctx, c, "/data/get-finished-trips", nil)
}

// AgentPositions returns a snapshot of every active agent's position.
func (c *Client) AgentPositions(ctx context.Context) ([]AgentSnapshot, error) {
	const path = "/data/get-agent-positions"
	payload, err := getJSON[agentsPayload](ctx, c, path, nil)
	if err != nil {
		return nil, err
	}
	if payload.Agents == nil {
		return nil, &ShapeError{Endpoint: path, Err: errMissingField("payload", "agents")}
	}
	return *payload.Agents, nil
}

// Signal fetches the current timing plan for the signal at intersection id.
func (c *Client) Signal(ctx context.Context, id int64) (*SignalConfig, error) {
	q := url.Values{}
	q.Set("id", strconv.FormatInt(id, 10))
	cfg, err := getJSON[SignalConfig](ctx, c, "/traffic-signals/get", q)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetSignal replaces a signal's timing plan with cfg. The edit lasts until
// the next Reset.
func (c *Client) SetSignal(ctx context.Context, cfg *SignalConfig) (string, error) {
	body, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}
	raw, err := c.do(ctx, http.MethodPost, "/traffic-signals/set", nil, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

// Delays returns the raw per-direction delay samples recorded at signal id
// between clock times t1 and t2 (both "HH:MM:SS").
func (c *Client) Delays(ctx context.Context, id int64, t1, t2 string) ([]DelayEntry, error) {
	const path = "/traffic-signals/get-delays"
	q := url.Values{}
	q.Set("id", strconv.FormatInt(id, 10))
	q.Set("t1", t1)
	q.Set("t2", t2)
	payload, err := getJSON[perDirectionPayload[DelayEntry]](ctx, c, path, q)
	if err != nil {
		return nil, err
	}
	if payload.PerDirection == nil {
		return nil, &ShapeError{Endpoint: path, Err: errMissingField("payload", "per_direction")}
	}
	return *payload.PerDirection, nil
}

// CumulativeThroughput returns how many agents have crossed signal id in
// each direction since the last reset.
func (c *Client) CumulativeThroughput(ctx context.Context, id int64) ([]ThroughputEntry, error) {
	const path = "/traffic-signals/get-cumulative-thruput"
	q := url.Values{}
	q.Set("id", strconv.FormatInt(id, 10))
	payload, err := getJSON[perDirectionPayload[ThroughputEntry]](ctx, c, path, q)
	if err != nil {
		return nil, err
	}
	if payload.PerDirection == nil {
		return nil, &ShapeError{Endpoint: path, Err: errMissingField("payload", "per_direction")}
	}
	return *payload.PerDirection, nil
}

type agentsPayload struct {
	Agents *[]AgentSnapshot `json:"agents"`
}

// perDirectionPayload is the envelope shared by the delay and throughput
// endpoints. The pointer distinguishes a missing per_direction field from
// an empty one.
type perDirectionPayload[T any] struct {
	PerDirection *[]T `json:"per_direction"`
}

// getJSON fetches path and decodes the JSON response into T. Decode
// failures come back as a ShapeError naming the endpoint.
func getJSON[T any](ctx context.Context, c *Client, path string, query url.Values) (out T, err error) {
	body, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, &ShapeError{Endpoint: path, Err: err}
	}
	return out, nil
}

func (c *Client) getText(ctx context.Context, path string, query url.Values) (string, error) {
	body, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	slog.Debug("Calling headless API", "method", method, "url", u)

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", path, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &ServerError{Status: resp.StatusCode, Endpoint: path, Body: strings.TrimSpace(string(data))}
	}
	return data, nil
}
