package scheduler

import (
	"context"
	"time"

	"tutor_insights_bot/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type DigestScheduler struct {
	cronEngine           *cron.Cron
	digestService        *app.DigestService
	logger               *logrus.Entry
	cronSpecWeeklyDigest string
}

func NewDigestScheduler(
	digestService *app.DigestService,
	logger *logrus.Entry,
	cronSpecWeeklyDigest string, // e.g., "0 9 * * 1" (9:00 AM every Monday)
) *DigestScheduler {
	return &DigestScheduler{
		cronEngine:           cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		digestService:        digestService,
		logger:               logger,
		cronSpecWeeklyDigest: cronSpecWeeklyDigest,
	}
}

func (s *DigestScheduler) Start() {
	s.logger.Info("Starting digest scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpecWeeklyDigest, func() {
		s.logger.Info("Cron job triggered for weekly digest.")
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		if err := s.digestService.SendWeeklyDigest(ctx); err != nil {
			s.logger.WithError(err).Error("Error during weekly digest sending")
		}
	})
	if err != nil {
		s.logger.WithError(err).Fatal("Could not add weekly digest cron job")
	}

	s.cronEngine.Start()
	s.logger.Info("Digest scheduler started with jobs.")
}

func (s *DigestScheduler) Stop() {
	s.logger.Info("Stopping digest scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Info("Digest scheduler gracefully stopped.")
}
