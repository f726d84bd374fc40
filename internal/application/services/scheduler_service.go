package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/threaddit/backend/pkg/logger"
)

// SchedulerService runs periodic maintenance jobs
type SchedulerService struct {
	cron     *cron.Cron
	auth     *AuthService
	schedule string
	mu       sync.Mutex
	running  bool
}

// NewSchedulerService creates a scheduler that purges sessions on schedule
func NewSchedulerService(schedule string, auth *AuthService) *SchedulerService {
	return &SchedulerService{
		cron:     cron.New(),
		auth:     auth,
		schedule: schedule,
	}
}

// Start registers the jobs and begins the cron loop
func (s *SchedulerService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.purgeSessions); err != nil {
		return fmt.Errorf("invalid session purge schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	s.running = true

	logger.Default().Infof("⏰ Scheduler started (session purge: %s)", s.schedule)
	return nil
}

// Stop halts the cron loop and waits for a running job to finish
func (s *SchedulerService) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	logger.Default().Info("⏰ Scheduler stopped")
}

func (s *SchedulerService) purgeSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.auth.PurgeExpired(ctx)
	if err != nil {
		logger.Default().WithError(err).Error("❌ Session purge failed")
		return
	}
	if n > 0 {
		logger.Default().Infof("🧹 Purged %d expired sessions", n)
	}
}
