package services

import (
	"context"
	"time"

	"madhav-couriers/internal/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CronService runs scheduled maintenance jobs
type CronService struct {
	cron *cron.Cron
	auth *AuthService
	log  *zap.Logger
}

// NewCronService creates a cron service that sweeps expired lockouts on schedule
func NewCronService(auth *AuthService, schedule string) (*CronService, error) {
	s := &CronService{
		cron: cron.New(),
		auth: auth,
		log:  logger.Named("cron"),
	}
	if _, err := s.cron.AddFunc(schedule, s.releaseExpiredLocks); err != nil {
		return nil, err
	}
	return s, nil
}

// Start launches the scheduler
func (s *CronService) Start() {
	s.cron.Start()
	s.log.Info("🚀 CronService started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop waits for running jobs to finish or ctx to expire
func (s *CronService) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
	s.log.Info("🛑 CronService stopped")
}

func (s *CronService) releaseExpiredLocks() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := s.auth.ReleaseExpiredLocks(ctx); err != nil {
		s.log.Error("❌ lockout sweep failed", zap.Error(err))
	}
}
