// Package searchapi talks to the third-party trip-search service that
// receives travel requests for expert matching.
package searchapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUnavailable is returned when the service cannot be reached or rejects
// our credentials.
var ErrUnavailable = errors.New("travel search api unavailable")

// Client authenticates against the trip-search API. Submission is gated on a
// successful token exchange so requests are never accepted while the
// downstream service is down.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

// NewClient returns a client for the service at baseURL. An empty baseURL
// yields a client whose calls fail with ErrUnavailable.
func NewClient(baseURL, username, password string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		username:   username,
		password:   password,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Authenticate exchanges the configured credentials for a bearer token. The
// endpoint expects OAuth2 password-grant form fields.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	if c.baseURL == "" || c.username == "" || c.password == "" {
		return "", fmt.Errorf("%w: configuration is missing", ErrUnavailable)
	}

	form := url.Values{}
	form.Set("username", c.username)
	form.Set("password", c.password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/auth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return "", fmt.Errorf("%w: invalid credentials", ErrUnavailable)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: authentication failed with status %d", ErrUnavailable, resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("%w: empty token in response", ErrUnavailable)
	}
	return body.AccessToken, nil
}
