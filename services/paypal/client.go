package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// requestTimeout bounds every outbound call; exceeding it is treated as
// a recoverable failure by callers, never a hang.
const requestTimeout = 15 * time.Second

// Client talks to the PayPal-style Catalog & Invoicing REST API using
// client-credentials bearer tokens.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpc        *http.Client

	mu       sync.Mutex
	token    string
	tokenExp time.Time

	now func() time.Time
}

// NewClient builds a Client for the given API base URL and credentials.
func NewClient(baseURL, clientID, clientSecret string) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		httpc:        &http.Client{Timeout: requestTimeout},
		now:          time.Now,
	}
}

// apiError carries the remote status and body for a non-2xx response.
type apiError struct {
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("remote returned %d: %s", e.Status, e.Body)
}

// doJSON issues an authenticated request with an optional JSON body and
// decodes the response into out (when out is non-nil).
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return fmt.Errorf("obtain access token: %w", err)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &apiError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
