package scheduler

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// SessionStore is the part of the database the sweeper needs
type SessionStore interface {
	DeleteExpiredSessions(before time.Time) ([]string, error)
}

// Sweeper periodically removes sessions idle for longer than the TTL
type Sweeper struct {
	store  SessionStore
	ttl    time.Duration
	spec   string
	logger *logrus.Logger
	cron   *cron.Cron
	now    func() time.Time

	mu        sync.Mutex
	running   bool
	onRemoved []func(sessionID string)
}

// NewSweeper creates a sweeper running on the cron spec, e.g. "@every 1h"
func NewSweeper(store SessionStore, ttl time.Duration, spec string, logger *logrus.Logger) *Sweeper {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
		logger.SetLevel(logrus.InfoLevel)
	}

	return &Sweeper{
		store:  store,
		ttl:    ttl,
		spec:   spec,
		logger: logger,
		cron:   cron.New(),
		now:    time.Now,
	}
}

// Start registers the sweep job and starts the cron runner
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce() }); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.logger.WithField("spec", s.spec).Info("Session sweeper started")
	return nil
}

// OnRemove registers fn to be called with the id of every swept session. Register before
// Start.
func (s *Sweeper) OnRemove(fn func(sessionID string)) {
	s.mu.Lock()
	s.onRemoved = append(s.onRemoved, fn)
	s.mu.Unlock()
}

// RunOnce deletes expired sessions now. Overlapping runs are skipped.
func (s *Sweeper) RunOnce() int64 {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Debug("Skipping session sweep, previous run still in progress")
		return 0
	}
	s.running = true
	hooks := s.onRemoved
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	cutoff := s.now().Add(-s.ttl)
	removed, err := s.store.DeleteExpiredSessions(cutoff)
	if err != nil {
		s.logger.WithError(err).Error("Session sweep failed")
		return 0
	}
	for _, id := range removed {
		for _, fn := range hooks {
			fn(id)
		}
	}
	s.logger.WithFields(logrus.Fields{
		"removed": len(removed),
		"cutoff":  cutoff.Format(time.RFC3339),
	}).Info("Session sweep completed")
	return int64(len(removed))
}

// Stop stops the cron runner and waits for a running sweep to finish
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
