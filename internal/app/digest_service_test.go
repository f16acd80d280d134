package app

import (
	"context"
	"testing"
	"time"

	"gopkg.in/telebot.v3"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorderTelegramClient struct {
	chatIDs []int64
	texts   []string
}

func (c *recorderTelegramClient) SendMessage(chatID int64, text string, _ *telebot.SendOptions) error {
	c.chatIDs = append(c.chatIDs, chatID)
	c.texts = append(c.texts, text)
	return nil
}

func TestSendWeeklyDigest(t *testing.T) {
	lr, sr := fixtureRepos()
	// One completed lesson inside the trailing week so the digest has a total.
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	lr.lessons = append(lr.lessons, mkLesson(99, 1, yesterday, 60, 6000, true))

	rec := &recorderTelegramClient{}
	svc := NewDigestService(lr, sr, rec, testLogger(), 42, 1)

	err := svc.SendWeeklyDigest(context.Background())
	require.NoError(t, err)

	require.Len(t, rec.texts, 1)
	assert.Equal(t, int64(42), rec.chatIDs[0])
	assert.Contains(t, rec.texts[0], "Weekly digest (last 7 days):")
	assert.Contains(t, rec.texts[0], "$60.00")
}

func TestSendWeeklyDigestSkipsWhenUnconfigured(t *testing.T) {
	lr, sr := fixtureRepos()
	rec := &recorderTelegramClient{}
	svc := NewDigestService(lr, sr, rec, testLogger(), 0, 1)

	err := svc.SendWeeklyDigest(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rec.texts)
}
