package reporter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/actionpulse/actionpulse/internal/auth"
	"github.com/actionpulse/actionpulse/internal/models"
)

const appID = "actionpulse"

// ErrUnauthorized is matched by a StatusError carrying 401.
var ErrUnauthorized = errors.New("backend rejected the auth token")

// StatusError is returned for any non-2xx answer from the activity endpoint.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend returned status %d", e.Code)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Code, e.Body)
}

func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// TokenSource yields the current bearer token.
type TokenSource interface {
	Token() string
}

// Reporter posts one StatusResult per cycle to the activity endpoint.
type Reporter struct {
	url        string
	timeout    time.Duration
	tokens     TokenSource
	deviceID   string
	httpClient *http.Client
}

// New creates a reporter. Every Report call is bounded by timeout.
func New(url string, timeout time.Duration, tokens TokenSource) *Reporter {
	return &Reporter{
		url:        url,
		timeout:    timeout,
		tokens:     tokens,
		deviceID:   DeviceID(),
		httpClient: &http.Client{},
	}
}

// DeviceID returns an app-scoped hash of the machine ID, or "" when the
// machine ID cannot be read.
func DeviceID() string {
	id, err := machineid.ProtectedID(appID)
	if err != nil {
		return ""
	}
	return id
}

// Report sends result and returns the request ID it was tagged with. An
// empty token is not sent; auth.ErrNoToken is returned instead.
func (r *Reporter) Report(ctx context.Context, result models.StatusResult) (string, error) {
	requestID := uuid.NewString()

	token := r.tokens.Token()
	if token == "" {
		return requestID, auth.ErrNoToken
	}

	body, err := json.Marshal(result)
	if err != nil {
		return requestID, errors.Wrap(err, "encode status")
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return requestID, errors.Wrap(err, "build report request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-ID", requestID)
	if r.deviceID != "" {
		req.Header.Set("X-Device-ID", r.deviceID)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return requestID, errors.Wrap(err, "send report")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return requestID, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return requestID, nil
}
