package status

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/detego/internal/common"
	"github.com/ternarybob/detego/internal/interfaces"
)

// ProbeResult is the outcome of one classifier health probe.
type ProbeResult struct {
	Healthy    bool      `json:"healthy"`
	Error      string    `json:"error,omitempty"`
	CheckedAt  time.Time `json:"checked_at"`
	DurationMs int64     `json:"duration_ms"`
}

// Service runs scheduled classifier health probes and keeps the most recent
// result for the status endpoint. Probe state is the only thing it holds;
// nothing is persisted.
type Service struct {
	classifier interfaces.ClassifierService
	logger     arbor.ILogger
	schedule   string
	cron       *cron.Cron
	startedAt  time.Time

	mu      sync.RWMutex
	last    ProbeResult
	probed  bool
	running bool
}

// NewService creates a new status service
func NewService(config *common.Config, classifier interfaces.ClassifierService, logger arbor.ILogger) *Service {
	return &Service{
		classifier: classifier,
		logger:     logger,
		schedule:   config.Classifier.HealthSchedule,
		cron:       cron.New(),
		startedAt:  time.Now(),
	}
}

// Start begins the probe schedule and fires one immediate probe in the
// background so the status endpoint has data soon after boot.
func (s *Service) Start() error {
	if s.running {
		return fmt.Errorf("status service already running")
	}

	schedule := s.schedule
	if schedule == "" {
		schedule = "@every 5m"
	}
	if err := common.ValidateHealthSchedule(schedule); err != nil {
		return fmt.Errorf("invalid health schedule %q: %w", schedule, err)
	}

	if _, err := s.cron.AddFunc(schedule, s.probe); err != nil {
		return fmt.Errorf("failed to add health probe job: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().
		Str("schedule", schedule).
		Msg("Classifier health probes started")

	common.SafeGo(s.logger, "initialHealthProbe", s.probe)

	return nil
}

// Stop halts the probe schedule
func (s *Service) Stop() {
	if !s.running {
		return
	}
	s.cron.Stop()
	s.running = false
	s.logger.Info().Msg("Classifier health probes stopped")
}

// probe runs one health check against the classifier backend
func (s *Service) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start := time.Now()
	err := s.classifier.HealthCheck(ctx)
	duration := time.Since(start)

	result := ProbeResult{
		Healthy:    err == nil,
		CheckedAt:  start,
		DurationMs: duration.Milliseconds(),
	}
	if err != nil {
		result.Error = err.Error()
		s.logger.Warn().
			Err(err).
			Str("mode", string(s.classifier.GetMode())).
			Dur("duration", duration).
			Msg("Classifier health probe failed")
	} else {
		s.logger.Debug().
			Str("mode", string(s.classifier.GetMode())).
			Dur("duration", duration).
			Msg("Classifier health probe ok")
	}

	s.mu.Lock()
	s.last = result
	s.probed = true
	s.mu.Unlock()
}

// LastProbe returns the most recent probe result and whether any probe has
// completed yet (thread-safe).
func (s *Service) LastProbe() (ProbeResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.probed
}

// GetStatus returns the full status including version, classifier info, and
// the last probe result.
func (s *Service) GetStatus() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := map[string]interface{}{
		"version":         common.GetVersion(),
		"build":           common.GetBuild(),
		"classifier_mode": string(s.classifier.GetMode()),
		"uptime_seconds":  int64(time.Since(s.startedAt).Seconds()),
		"timestamp":       time.Now(),
	}
	if s.probed {
		status["classifier"] = s.last
	} else {
		status["classifier"] = "not probed yet"
	}
	return status
}
