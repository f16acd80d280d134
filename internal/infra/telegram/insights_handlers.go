// internal/infra/telegram/insights_handlers.go
package telegram

import (
	"context"
	"sync"

	"tutor_insights_bot/internal/app"
	"tutor_insights_bot/internal/domain/insights"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// conversationStore holds each chat's prior-turn context. The pipeline itself
// is stateless; this is the caller-side state the clarification protocol
// needs, keyed by chat so parallel conversations never mix.
type conversationStore struct {
	mu    sync.Mutex
	prior map[int64]*insights.PriorContext
}

func newConversationStore() *conversationStore {
	return &conversationStore{prior: make(map[int64]*insights.PriorContext)}
}

func (c *conversationStore) get(chatID int64) *insights.PriorContext {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prior[chatID]
}

func (c *conversationStore) set(chatID int64, next *insights.PriorContext) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prior[chatID] = next
}

// RegisterInsightsHandlers wires every plain text message into the question
// pipeline. The sender's Telegram ID doubles as the tenant scoping the data.
func RegisterInsightsHandlers(
	ctx context.Context,
	b *telebot.Bot,
	insightsService *app.InsightsService,
	baseLogger *logrus.Entry,
	debug insights.DebugOptions,
) {
	store := newConversationStore()
	handlerLogger := baseLogger.WithField("handler_group", "insights")

	b.Handle(telebot.OnText, func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := handlerLogger.WithField("sender_id", senderID)
		logCtx.WithField("question", c.Text()).Debug("Processing question")

		resp, err := insightsService.AskQuestion(ctx, app.AskRequest{
			UserID:   senderID,
			Question: c.Text(),
			Prior:    store.get(senderID),
			Debug:    debug,
		})
		if err != nil {
			logCtx.WithError(err).Error("Failed to answer question")
			return c.Send("Something went wrong while loading your records. Please try again.")
		}

		store.set(senderID, resp.Next)

		if resp.NeedsClarification {
			return c.Send(resp.Text)
		}
		footer := "\n\n_" + resp.Metadata.RangeLabel + " · " + resp.Metadata.Aggregation + "_"
		return c.Send(resp.Text+footer, &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	})
}
