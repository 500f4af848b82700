package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/prospectlab/prospect/internal/search"
)

// Janitor periodically evicts idle search sessions from memory. Durable
// slots survive in the preference store, so an evicted user rehydrates on
// their next request.
type Janitor struct {
	sessions *search.Manager
	logger   *slog.Logger
	idleTTL  time.Duration
	interval time.Duration
	stopCh   chan struct{}
}

// NewJanitor creates a new session janitor
func NewJanitor(sessions *search.Manager, logger *slog.Logger, idleTTL, interval time.Duration) *Janitor {
	return &Janitor{
		sessions: sessions,
		logger:   logger,
		idleTTL:  idleTTL,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic eviction task
func (j *Janitor) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.runEviction()
		case <-j.stopCh:
			j.logger.Info("session janitor stopped")
			return
		case <-ctx.Done():
			j.logger.Info("session janitor context cancelled")
			return
		}
	}
}

func (j *Janitor) runEviction() {
	evicted := j.sessions.EvictIdle(j.idleTTL)
	if evicted > 0 {
		j.logger.Info("idle sessions evicted",
			slog.Int("evicted", evicted), slog.Int("live", j.sessions.Live()))
	}
}

// Stop signals the janitor to stop
func (j *Janitor) Stop() {
	close(j.stopCh)
}
