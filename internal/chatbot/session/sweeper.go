package session

import (
	"context"
	"time"

	"banking-chatbot/internal/common/logger"
	"banking-chatbot/internal/common/metrics"
)

// Sweeper periodically evicts idle sessions from a Store.
type Sweeper struct {
	store    Store
	idle     time.Duration
	interval time.Duration
	log      logger.Logger
}

func NewSweeper(store Store, idle, interval time.Duration, log logger.Logger) *Sweeper {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Sweeper{
		store:    store,
		idle:     idle,
		interval: interval,
		log:      logger.Component(log, "session-sweeper"),
	}
}

// Run blocks until ctx is done. A non-positive idle timeout or interval
// disables sweeping.
func (s *Sweeper) Run(ctx context.Context) error {
	if s.idle <= 0 || s.interval <= 0 {
		s.log.Info("session sweeping disabled", nil)
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce runs a single eviction pass and refreshes the session gauge.
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	evicted, err := s.store.Sweep(ctx, s.idle)
	if err != nil {
		s.log.Error("session sweep failed", map[string]interface{}{"error": err})
		return 0
	}
	if evicted > 0 {
		metrics.SessionEvictions.Add(float64(evicted))
		s.log.Info("evicted idle sessions", map[string]interface{}{
			"evicted": evicted,
			"idle":    s.idle.String(),
		})
	}

	if n, err := s.store.Len(ctx); err == nil {
		metrics.ActiveSessions.Set(float64(n))
	}
	return evicted
}
