// Package baas is a small client for the admin REST API of the BaaS auth service.
package baas

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	adminUsersPath = "/auth/v1/admin/users"
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 4096
)

// Client talks to the auth admin API with the service role key.
type Client struct {
	httpClient *http.Client
	baseURL    string
	serviceKey string
}

// NewClient creates a client. baseURL is the project URL without the /auth suffix.
func NewClient(baseURL, serviceKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		serviceKey: strings.TrimSpace(serviceKey),
	}
}

// Configured reports whether URL and key are set.
func (c *Client) Configured() bool {
	return c != nil && c.baseURL != "" && c.serviceKey != ""
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) (*http.Response, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	var body io.Reader

	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, errors.Wrap(err, "encoding request")
		}

		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}

	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Accept", "application/json")

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return resp, ErrUserNotFound
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, decodeAPIError(resp)
	}

	if out != nil {
		if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp, errors.Wrap(err, "decoding response")
		}
	}

	return resp, nil
}

// decodeAPIError reads the message field the auth service uses in error bodies.
func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)) //nolint:errcheck

	var body struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
	}

	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &body) == nil {
		switch {
		case body.Msg != "":
			msg = body.Msg
		case body.Message != "":
			msg = body.Message
		case body.ErrorDescription != "":
			msg = body.ErrorDescription
		}
	}

	return &APIError{Status: resp.StatusCode, Message: msg}
}
