package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// LoginError carries the backend's rejection of a login attempt.
type LoginError struct {
	Code    int
	Message string
}

func (e *LoginError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("login failed with status %d", e.Code)
	}
	return fmt.Sprintf("login failed: %s", e.Message)
}

// Client exchanges credentials for a token at the login endpoint.
type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(loginURL string, timeout time.Duration) *Client {
	return &Client{
		url:        loginURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
	Error string `json:"error"`
}

// Login posts {email, password}. Only a 200 with a token counts as success.
func (c *Client) Login(ctx context.Context, email, password string) (*Token, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, errors.Wrap(err, "encode login request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build login request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "send login request")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errors.Wrap(err, "read login response")
	}

	var out loginResponse
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode != http.StatusOK {
		return nil, &LoginError{Code: resp.StatusCode, Message: out.Error}
	}
	if decodeErr != nil {
		return nil, errors.Wrap(decodeErr, "decode login response")
	}

	tok := &Token{Token: out.Token, User: out.User}
	if !tok.Valid() {
		return nil, errors.New("login response carried no token")
	}
	return tok, nil
}
