package reporter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/actionpulse/actionpulse/internal/auth"
	"github.com/actionpulse/actionpulse/internal/models"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestReportSendsPayload(t *testing.T) {
	var (
		got     models.StatusResult
		headers http.Header
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	r := New(srv.URL, time.Second, staticToken("tok-1"))
	r.deviceID = "device-abc"

	want := models.StatusResult{Status: models.StatusActive, WindowTitle: "Private Activity", IsPrivate: true}
	requestID, err := r.Report(context.Background(), want)
	if err != nil {
		t.Fatalf("Report() error: %v", err)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
	if auth := headers.Get("Authorization"); auth != "Bearer tok-1" {
		t.Errorf("Authorization = %q", auth)
	}
	if headers.Get("X-Request-ID") != requestID {
		t.Errorf("X-Request-ID = %q, want %q", headers.Get("X-Request-ID"), requestID)
	}
	if _, err := uuid.Parse(requestID); err != nil {
		t.Errorf("request ID %q is not a UUID: %v", requestID, err)
	}
	if headers.Get("X-Device-ID") != "device-abc" {
		t.Errorf("X-Device-ID = %q", headers.Get("X-Device-ID"))
	}
}

func TestReportWireFormat(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&raw)
	}))
	defer srv.Close()

	r := New(srv.URL, time.Second, staticToken("t"))
	if _, err := r.Report(context.Background(), models.StatusResult{Status: models.StatusIdle, WindowTitle: "Unknown"}); err != nil {
		t.Fatalf("Report() error: %v", err)
	}

	want := map[string]any{"status": "Idle", "windowTitle": "Unknown", "isPrivate": false}
	if diff := cmp.Diff(want, raw); diff != "" {
		t.Errorf("wire format mismatch (-want +got):\n%s", diff)
	}
}

func TestReportNon2xx(t *testing.T) {
	tests := []struct {
		name         string
		code         int
		unauthorized bool
	}{
		{"unauthorized", http.StatusUnauthorized, true},
		{"server error", http.StatusInternalServerError, false},
		{"bad request", http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				w.Write([]byte(`{"error":"nope"}`))
			}))
			defer srv.Close()

			_, err := New(srv.URL, time.Second, staticToken("t")).Report(context.Background(), models.StatusResult{Status: models.StatusActive})

			var statusErr *StatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("Report() error = %v, want *StatusError", err)
			}
			if statusErr.Code != tt.code {
				t.Errorf("Code = %d, want %d", statusErr.Code, tt.code)
			}
			if statusErr.Body != `{"error":"nope"}` {
				t.Errorf("Body = %q", statusErr.Body)
			}
			if errors.Is(err, ErrUnauthorized) != tt.unauthorized {
				t.Errorf("errors.Is(err, ErrUnauthorized) = %v", !tt.unauthorized)
			}
		})
	}
}

func TestReportTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	r := New(srv.URL, 50*time.Millisecond, staticToken("t"))

	start := time.Now()
	_, err := r.Report(context.Background(), models.StatusResult{Status: models.StatusActive})
	if err == nil {
		t.Fatal("Report() succeeded against a hanging server")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Report() error = %v, want deadline exceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Report() took %v, timeout not applied", elapsed)
	}
}

func TestReportWithoutToken(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second, staticToken("")).Report(context.Background(), models.StatusResult{Status: models.StatusActive})
	if !errors.Is(err, auth.ErrNoToken) {
		t.Errorf("Report() error = %v, want auth.ErrNoToken", err)
	}
	if called {
		t.Error("request sent without a token")
	}
}

func TestStatusErrorMessage(t *testing.T) {
	if got := (&StatusError{Code: 503}).Error(); got != "backend returned status 503" {
		t.Errorf("Error() = %q", got)
	}
	if got := (&StatusError{Code: 400, Body: "bad"}).Error(); got != "backend returned status 400: bad" {
		t.Errorf("Error() = %q", got)
	}
}
