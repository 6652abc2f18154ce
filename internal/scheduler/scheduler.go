package scheduler

import (
	"context"

	"circl/backend/internal/config"
	"circl/backend/internal/logger"
	"circl/backend/internal/service"

	"github.com/robfig/cron/v3"
)

// Scheduler owns the background cron jobs. Currently a single daily job that
// derives reach-out notifications from weak connection strength.
type Scheduler struct {
	cron                *cron.Cron
	notificationService *service.NotificationService
	cronSpec            string
}

func NewScheduler(notificationService *service.NotificationService, features config.FeatureFlags) *Scheduler {
	return &Scheduler{
		cron:                cron.New(cron.WithSeconds()),
		notificationService: notificationService,
		cronSpec:            features.NotificationCronSpec,
	}
}

func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.cronSpec, func() {
		logger.Info().Msg("running scheduled reach-out notification job")
		if err := s.notificationService.GenerateReachOutNotifications(context.Background()); err != nil {
			logger.Error().Err(err).Msg("scheduled reach-out notification job failed")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logger.Info().Str("cron_spec", s.cronSpec).Msg("scheduler started")
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	logger.Info().Msg("scheduler stopped")
}

// RunNotificationJobNow triggers the reach-out notification job immediately.
// Useful for manual runs and smoke tests.
func (s *Scheduler) RunNotificationJobNow() error {
	return s.notificationService.GenerateReachOutNotifications(context.Background())
}
