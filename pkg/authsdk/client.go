package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// CookieName is the cookie the service hands the session token back in.
const CookieName = "jwt"

// Client is a client for the gatehouse authentication service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new gatehouse client.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// LoginResult is the outcome of a login call. If TwoFARequired is set the
// caller must complete the flow with Verify2FA using LoginAttemptID,
// otherwise Token holds the session token.
type LoginResult struct {
	TwoFARequired  bool
	LoginAttemptID string
	Token          string
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, email, password string, requires2FA bool) error {
	resp, err := c.post(ctx, "/signup", map[string]any{
		"email":       email,
		"password":    password,
		"requires2FA": requires2FA,
	}, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return apiError(resp)
	}
	return nil
}

// Login checks credentials. Accounts with 2FA enabled get a pending
// challenge instead of a token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	resp, err := c.post(ctx, "/login", map[string]any{
		"email":    email,
		"password": password,
	}, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	if token := sessionToken(resp); token != "" {
		return &LoginResult{Token: token}, nil
	}

	var body struct {
		LoginAttemptID string `json:"loginAttemptId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return &LoginResult{TwoFARequired: true, LoginAttemptID: body.LoginAttemptID}, nil
}

// Verify2FA redeems a pending challenge and returns the session token.
func (c *Client) Verify2FA(ctx context.Context, email, loginAttemptID, code string) (string, error) {
	resp, err := c.post(ctx, "/verify-2fa", map[string]any{
		"email":          email,
		"loginAttemptId": loginAttemptID,
		"2FACode":        code,
	}, "")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apiError(resp)
	}
	return sessionToken(resp), nil
}

// Logout revokes the session token.
func (c *Client) Logout(ctx context.Context, token string) error {
	resp, err := c.post(ctx, "/logout", nil, token)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return nil
}

// VerifyToken reports whether a session token is still valid.
func (c *Client) VerifyToken(ctx context.Context, token string) error {
	resp, err := c.post(ctx, "/verify-token", map[string]any{"token": token}, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body any, token string) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	}

	return c.HTTPClient.Do(req)
}

func sessionToken(resp *http.Response) string {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == CookieName {
			return cookie.Value
		}
	}
	return ""
}
