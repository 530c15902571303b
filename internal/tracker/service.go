package tracker

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/actionpulse/actionpulse/internal/activity"
	"github.com/actionpulse/actionpulse/internal/classifier"
	"github.com/actionpulse/actionpulse/internal/config"
	"github.com/actionpulse/actionpulse/internal/models"
	"github.com/actionpulse/actionpulse/internal/privacy"
	"github.com/actionpulse/actionpulse/internal/reporter"
	"github.com/actionpulse/actionpulse/internal/suspicion"
	"github.com/actionpulse/actionpulse/pkg/utils"
)

const pruneEvery = time.Hour

// TitleSource yields the raw foreground window title, never failing.
type TitleSource interface {
	ActiveTitle() string
}

// Sink delivers one status result and returns the request ID it used.
type Sink interface {
	Report(ctx context.Context, result models.StatusResult) (string, error)
}

// Journal persists cycles and failures locally.
type Journal interface {
	CreateRecord(record *models.ReportRecord) error
	CreateErrorLog(errorLog *models.ErrorLog) error
	DeleteOlderThan(before time.Time) (int64, error)
}

// Observer receives per-cycle measurements.
type Observer interface {
	ObserveCycle(status models.Status, suspicious bool)
	ObserveReport(elapsed time.Duration, err error)
}

// Deps are the collaborators of a Service. Journal and Metrics are optional.
type Deps struct {
	Aggregator *activity.Aggregator
	Titles     TitleSource
	Sink       Sink
	Journal    Journal
	Metrics    Observer
	Log        logrus.FieldLogger

	// Out receives one human-readable line per cycle; defaults to stdout.
	Out io.Writer

	// Now defaults to time.Now.
	Now func() time.Time
}

// Cycle is the outcome of one read-classify-report pass.
type Cycle struct {
	At         time.Time           `json:"at"`
	Result     models.StatusResult `json:"result"`
	Classified models.Status       `json:"classified"`
	Suspicious bool                `json:"suspicious"`
	IdleFor    time.Duration       `json:"idle_for"`
	Delivered  bool                `json:"delivered"`
	RequestID  string              `json:"request_id,omitempty"`
	Err        error               `json:"-"`
}

// Service runs the periodic cycle. Only the loop goroutine touches the
// suspicion detector and classifier.
type Service struct {
	interval  time.Duration
	retention time.Duration

	agg        *activity.Aggregator
	titles     TitleSource
	filter     *privacy.Filter
	suspicion  *suspicion.Detector
	classifier *classifier.Classifier
	sink       Sink
	journal    Journal
	metrics    Observer
	log        logrus.FieldLogger
	out        io.Writer
	now        func() time.Time

	lastPrune time.Time

	mu      sync.RWMutex
	latest  *Cycle
	running bool
}

func NewService(cfg *config.Config, deps Deps) *Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	out := deps.Out
	if out == nil {
		out = os.Stdout
	}

	policy := classifier.Policy{
		IdleThreshold:       cfg.Tracker.IdleThreshold,
		SuspiciousThreshold: cfg.Tracker.SuspiciousThreshold,
		RequireMouseMove:    cfg.Tracker.RequireMouseMove,
	}

	return &Service{
		interval:   cfg.Tracker.PollInterval,
		retention:  cfg.Database.Retention,
		agg:        deps.Aggregator,
		titles:     deps.Titles,
		filter:     privacy.New(cfg.Privacy.Keywords, cfg.Privacy.Placeholder),
		suspicion:  suspicion.New(cfg.Tracker.SuspicionWindow, cfg.Tracker.SuspicionMinSamples),
		classifier: classifier.New(policy, now()),
		sink:       deps.Sink,
		journal:    deps.Journal,
		metrics:    deps.Metrics,
		log:        deps.Log,
		out:        out,
		now:        now,
	}
}

// Start runs a cycle immediately and then once per poll interval until ctx
// is done. Report failures never stop the loop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("tracker is already running")
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	s.log.WithField("interval", s.interval).Info("starting tracker")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("tracker stopped")
			return nil
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Latest returns the most recent cycle, or nil before the first one.
func (s *Service) Latest() *Cycle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return nil
	}
	c := *s.latest
	return &c
}

// RunOnce performs one cycle: snapshot, window, privacy, suspicion,
// classification, report and journal.
func (s *Service) RunOnce(ctx context.Context) Cycle {
	now := s.now()

	snap := s.agg.TakeSnapshot()
	title, private := s.filter.Classify(s.titles.ActiveTitle())
	suspicious := s.suspicion.Observe(snap.Clicks, now)

	classified := s.classifier.Classify(snap, classifier.WindowObservation{
		Title:      title,
		IsPrivate:  private,
		ObservedAt: now,
	}, now)

	cycle := Cycle{
		At:         now,
		Classified: classified,
		Suspicious: suspicious,
		IdleFor:    s.classifier.IdleFor(now),
		Result: models.StatusResult{
			Status:      classifier.Resolve(classified, suspicious),
			WindowTitle: title,
			IsPrivate:   private,
		},
	}

	fmt.Fprintf(s.out, "%s status=%s idle=%s window=%q private=%v\n",
		now.Format("15:04:05"),
		cycle.Result.Status,
		utils.FormatRoundedUnit(cycle.IdleFor),
		cycle.Result.WindowTitle,
		cycle.Result.IsPrivate)

	start := time.Now()
	requestID, err := s.sink.Report(ctx, cycle.Result)
	if s.metrics != nil {
		s.metrics.ObserveReport(time.Since(start), err)
		s.metrics.ObserveCycle(cycle.Result.Status, suspicious)
	}
	cycle.RequestID = requestID
	cycle.Delivered = err == nil
	cycle.Err = err

	logger := s.log.WithFields(logrus.Fields{
		"status":     cycle.Result.Status,
		"request_id": requestID,
	})
	switch {
	case err == nil:
		logger.Debug("status reported")
	case errors.Is(err, reporter.ErrUnauthorized):
		logger.WithError(err).Error("backend rejected the token; run `actionpulse login`")
	default:
		logger.WithError(err).Warn("failed to report status")
	}

	s.record(cycle)

	s.mu.Lock()
	s.latest = &cycle
	s.mu.Unlock()

	return cycle
}

func (s *Service) record(c Cycle) {
	if s.journal == nil {
		return
	}

	rec := &models.ReportRecord{
		Timestamp:   c.At,
		Status:      string(c.Result.Status),
		WindowTitle: c.Result.WindowTitle,
		IsPrivate:   c.Result.IsPrivate,
		Suspicious:  c.Suspicious,
		Delivered:   c.Delivered,
		RequestID:   c.RequestID,
	}
	if c.Err != nil {
		rec.Error = c.Err.Error()
		s.storeError("reporter", c.Err)
	}
	if err := s.journal.CreateRecord(rec); err != nil {
		s.log.WithError(err).Warn("failed to journal cycle")
	}

	if s.retention > 0 && c.At.Sub(s.lastPrune) >= pruneEvery {
		s.lastPrune = c.At
		deleted, err := s.journal.DeleteOlderThan(c.At.Add(-s.retention))
		if err != nil {
			s.log.WithError(err).Warn("failed to prune journal")
		} else if deleted > 0 {
			s.log.WithField("deleted", deleted).Debug("pruned journal")
		}
	}
}

func (s *Service) storeError(component string, err error) {
	errorLog := &models.ErrorLog{
		Timestamp: s.now(),
		Component: component,
		ErrorMsg:  err.Error(),
	}

	if dbErr := s.journal.CreateErrorLog(errorLog); dbErr != nil {
		s.log.WithError(dbErr).Warnf("failed to store error in database (original error: %v)", err)
	}
}
