package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// CallObserver is notified after every backend call. status is 0 when the
// request never got an answer.
type CallObserver func(endpoint string, status int, duration time.Duration)

// Client talks to the archive backend REST API. A Client without a token
// performs anonymous calls; WithToken derives one that authenticates as a
// visitor.
type Client struct {
	baseURL    string
	httpClient *http.Client
	base       http.RoundTripper
	token      string
	observe    CallObserver
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		base:    http.DefaultTransport,
		observe: func(string, int, time.Duration) {},
	}
}

// OnCall installs the call observer shared by every derived client.
func (c *Client) OnCall(fn CallObserver) {
	if fn != nil {
		c.observe = fn
	}
}

// WithToken returns a copy of c that sends "Authorization: Bearer <token>"
// on every request.
func (c *Client) WithToken(token string) *Client {
	if token == "" {
		return c
	}
	cp := *c
	cp.token = token
	cp.httpClient = &http.Client{
		Timeout: c.httpClient.Timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   c.base,
		},
	}
	return &cp
}

// Token returns the bearer token the client is bound to.
func (c *Client) Token() string {
	return c.token
}

// BaseURL returns the backend root, without trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doJSON sends body (if any) as JSON and decodes the answer into out (if any).
// endpoint is the route template used as metrics label.
func (c *Client) doJSON(ctx context.Context, method, endpoint, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.send(req, endpoint)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent || out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// send executes req and classifies the answer. On success the caller owns
// the response body.
func (c *Client) send(req *http.Request, endpoint string) (*http.Response, error) {
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(endpoint, 0, time.Since(start))
		return nil, networkError(err)
	}
	c.observe(endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var errorBody struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(raw, &errorBody)
	return nil, &APIError{Status: resp.StatusCode, Message: errorBody.Message}
}
