// internal/app/digest_service.go
package app

import (
	"context"
	"fmt"
	"time"

	"tutor_insights_bot/internal/domain/insights"
	"tutor_insights_bot/internal/domain/lesson"
	"tutor_insights_bot/internal/domain/student"
	domainTelegram "tutor_insights_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

// DigestService pushes a scheduled weekly earnings digest to a configured
// chat. It runs the same truth queries as the interactive pipeline; nothing
// here computes numbers of its own.
type DigestService struct {
	lessonRepo     lesson.Repository
	studentRepo    student.Repository
	telegramClient domainTelegram.Client
	logger         *logrus.Entry
	digestChatID   int64
	userID         int64 // the tutor whose records the digest covers
}

func NewDigestService(
	lr lesson.Repository,
	sr student.Repository,
	tc domainTelegram.Client,
	logger *logrus.Entry,
	digestChatID int64,
	userID int64,
) *DigestService {
	return &DigestService{
		lessonRepo:     lr,
		studentRepo:    sr,
		telegramClient: tc,
		logger:         logger,
		digestChatID:   digestChatID,
		userID:         userID,
	}
}

// SendWeeklyDigest computes the trailing 7-day totals and sends them.
func (s *DigestService) SendWeeklyDigest(ctx context.Context) error {
	if s.digestChatID == 0 {
		s.logger.Debug("Digest chat not configured; skipping weekly digest")
		return nil
	}

	lessons, err := s.lessonRepo.ListByUser(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("failed to load lessons for digest: %w", err)
	}
	students, err := s.studentRepo.ListByUser(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("failed to load students for digest: %w", err)
	}

	today := time.Now()
	ds := &insights.Dataset{Lessons: lessons, Students: students, Today: today}
	plan := &insights.QueryPlan{
		Intent:    insights.IntentEarningsInPeriod,
		TimeRange: insights.RollingDaysRange(today, 7),
		TruthKey:  "earnings_in_period",
		Slots:     map[string]float64{},
	}
	result := insights.Run(plan.TruthKey, ds, plan)
	if report := insights.Verify(plan, result); !report.Passed {
		s.logger.WithField("errors", report.Errors).Warn("Digest result failed verification; not sending")
		return nil
	}

	text := "Weekly digest (" + plan.TimeRange.Label + "):\n" + insights.Format(result)
	if err := s.telegramClient.SendMessage(s.digestChatID, text, nil); err != nil {
		return fmt.Errorf("failed to send weekly digest: %w", err)
	}
	s.logger.Info("Weekly digest sent")
	return nil
}
