package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/actionpulse/actionpulse/internal/config"
	"github.com/actionpulse/actionpulse/internal/database"
	"github.com/actionpulse/actionpulse/internal/models"
	"github.com/actionpulse/actionpulse/internal/tracker"
)

const (
	defaultReportLimit = 50
	maxReportLimit     = 1000
	statusErrorLimit   = 5
)

// StatusProvider exposes the tracker's most recent cycle.
type StatusProvider interface {
	Latest() *tracker.Cycle
	IsRunning() bool
}

// JournalReader reads the local report journal.
type JournalReader interface {
	GetRecent(limit int) ([]*models.ReportRecord, error)
	GetByID(id uint) (*models.ReportRecord, error)
	GetRecentErrors(limit int) ([]*models.ErrorLog, error)
}

type Handler struct {
	config  *config.Config
	status  StatusProvider
	reports JournalReader
	log     logrus.FieldLogger
	started time.Time
}

func NewHandler(cfg *config.Config, status StatusProvider, reports JournalReader, log logrus.FieldLogger) *Handler {
	return &Handler{
		config:  cfg,
		status:  status,
		reports: reports,
		log:     log,
		started: time.Now(),
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

type statusResponse struct {
	Running      bool           `json:"running"`
	PollInterval string         `json:"poll_interval"`
	Uptime       string         `json:"uptime"`
	Latest       *latestCycle   `json:"latest,omitempty"`
	Thresholds   map[string]any `json:"thresholds"`
	RecentErrors []errorEntry   `json:"recent_errors"`
}

type errorEntry struct {
	At        time.Time `json:"at"`
	Component string    `json:"component"`
	Message   string    `json:"message"`
}

type latestCycle struct {
	At          time.Time     `json:"at"`
	Status      models.Status `json:"status"`
	WindowTitle string        `json:"windowTitle"`
	IsPrivate   bool          `json:"isPrivate"`
	Suspicious  bool          `json:"suspicious"`
	IdleSeconds int64         `json:"idle_seconds"`
	Delivered   bool          `json:"delivered"`
	Error       string        `json:"error,omitempty"`
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Running:      h.status.IsRunning(),
		PollInterval: h.config.Tracker.PollInterval.String(),
		Uptime:       time.Since(h.started).Round(time.Second).String(),
		Thresholds: map[string]any{
			"idle":               h.config.Tracker.IdleThreshold.String(),
			"suspicious":         h.config.Tracker.SuspiciousThreshold.String(),
			"require_mouse_move": h.config.Tracker.RequireMouseMove,
		},
	}

	if c := h.status.Latest(); c != nil {
		resp.Latest = &latestCycle{
			At:          c.At,
			Status:      c.Result.Status,
			WindowTitle: c.Result.WindowTitle,
			IsPrivate:   c.Result.IsPrivate,
			Suspicious:  c.Suspicious,
			IdleSeconds: int64(c.IdleFor / time.Second),
			Delivered:   c.Delivered,
		}
		if c.Err != nil {
			resp.Latest.Error = c.Err.Error()
		}
	}

	resp.RecentErrors = []errorEntry{}
	if logs, err := h.reports.GetRecentErrors(statusErrorLimit); err != nil {
		h.log.WithError(err).Warn("failed to fetch recent errors")
	} else {
		for _, l := range logs {
			resp.RecentErrors = append(resp.RecentErrors, errorEntry{
				At:        l.Timestamp,
				Component: l.Component,
				Message:   l.ErrorMsg,
			})
		}
	}

	h.respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleReports(w http.ResponseWriter, r *http.Request) {
	limit := defaultReportLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		l, err := strconv.Atoi(raw)
		if err != nil || l <= 0 {
			h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = min(l, maxReportLimit)
	}

	records, err := h.reports.GetRecent(limit)
	if err != nil {
		h.log.WithError(err).Error("failed to fetch reports")
		h.respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch reports"})
		return
	}
	if records == nil {
		records = []*models.ReportRecord{}
	}

	h.respondJSON(w, http.StatusOK, records)
}

// reportDetail is one journal row plus the payload that was sent for it.
type reportDetail struct {
	*models.ReportRecord
	Payload models.StatusResult `json:"payload"`
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil || id == 0 {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "id must be a positive integer"})
		return
	}

	record, err := h.reports.GetByID(uint(id))
	switch {
	case errors.Is(err, database.ErrNotFound):
		h.respondJSON(w, http.StatusNotFound, map[string]string{"error": "report not found"})
		return
	case err != nil:
		h.log.WithError(err).Error("failed to fetch report")
		h.respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch report"})
		return
	}

	h.respondJSON(w, http.StatusOK, reportDetail{ReportRecord: record, Payload: record.Result()})
}

func (h *Handler) respondJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.WithError(err).Error("error encoding JSON")
	}
}
