package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/bioflow/internal/shared"
)

// requestTier is one candidate encoding of an auth request. Tiers are tried
// in order until a response is successful or its status is authoritative.
type requestTier struct {
	name string
	send func(ctx context.Context) (*APIResponse, error)
}

// negotiate runs tiers in sequence. A tier's response ends the negotiation
// when it is 2xx or when authoritative(status) is true (the backend actually
// evaluated the credentials, so another encoding cannot change the outcome).
// Transport failures fall through to the next tier; only the last one is
// surfaced if no tier produces a response.
func negotiate(ctx context.Context, tiers []requestTier, authoritative func(int) bool) (*APIResponse, error) {
	var lastResp *APIResponse
	var lastErr error

	for _, tier := range tiers {
		resp, err := tier.send(ctx)
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", tier.name, err)
			continue
		}

		lastResp = resp
		if resp.OK() || authoritative(resp.StatusCode) {
			return resp, nil
		}
	}

	if lastResp != nil {
		return lastResp, nil
	}
	return nil, lastErr
}

// authTiers builds the three-tier fallback for a credential endpoint: JSON
// POST to the "-json" variant, then a query-parameter POST, then a
// query-parameter GET. The simple encodings avoid CORS preflight and cover
// backends that predate the JSON endpoints.
func (c *Client) authTiers(endpoint, username, password string) []requestTier {
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})

	query := url.Values{}
	query.Set("username", username)
	query.Set("password", password)
	queryPath := endpoint + "?" + query.Encode()

	return []requestTier{
		{
			name: "json post",
			send: func(ctx context.Context) (*APIResponse, error) {
				return c.do(ctx, c.httpClient, http.MethodPost, endpoint+"-json", "application/json", bytes.NewReader(body))
			},
		},
		{
			name: "query post",
			send: func(ctx context.Context) (*APIResponse, error) {
				return c.do(ctx, c.httpClient, http.MethodPost, queryPath, "", nil)
			},
		},
		{
			name: "query get",
			send: func(ctx context.Context) (*APIResponse, error) {
				return c.do(ctx, c.httpClient, http.MethodGet, queryPath, "", nil)
			},
		},
	}
}

// Login authenticates against the API and returns the bearer token.
//
// Empty credentials are rejected locally before any network call. A 401
// short-circuits the fallback tiers (bad credentials, not a transport
// problem). A successful response without an access_token field is reported
// as [shared.ErrTokenMissing] rather than treated as a full success.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return "", fmt.Errorf("%w: username and password are required", shared.ErrInvalidInput)
	}

	tiers := c.authTiers("/auth/login", username, password)
	resp, err := negotiate(ctx, tiers, func(status int) bool {
		return status == http.StatusUnauthorized
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if !resp.OK() {
		return "", fmt.Errorf("%w: %s", shared.ErrAuthFailed, resp.ErrorText())
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return "", fmt.Errorf("failed to decode login response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", shared.ErrTokenMissing
	}

	return payload.AccessToken, nil
}

// Register creates an account using the same tiered fallback as Login, with
// 409 (username taken) as the authoritative status. Registration never logs
// the user in; no token handling occurs.
func (c *Client) Register(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", shared.ErrInvalidInput)
	}

	tiers := c.authTiers("/auth/register", username, password)
	resp, err := negotiate(ctx, tiers, func(status int) bool {
		return status == http.StatusConflict
	})
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if !resp.OK() {
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, resp.ErrorText())
	}

	return nil
}
