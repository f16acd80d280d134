// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"strings"

	"tutor_insights_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func RegisterBotCommands(
	b *telebot.Bot,
	cfg *config.AppConfig, // For AdminTelegramID
	baseLogger *logrus.Entry, // For contextual logging
) {
	startHelpLogger := baseLogger.WithField("handler_group", "start_help")

	b.Handle("/start", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := startHelpLogger.WithField("command", "/start").WithField("sender_id", senderID)
		logCtx.Info("Processing /start command")

		if senderID == cfg.AdminTelegramID {
			logCtx.Info("User identified as Admin")
		}
		greeting := "Hi " + c.Sender().FirstName + "! Ask me anything about your studio's earnings and lessons.\n\n" +
			"For example: \"How much did I earn last month?\", \"Who pays the most per hour?\", " +
			"\"What if I raise rates by $10/hour?\". Use /help for more."
		return c.Send(greeting)
	})

	b.Handle("/help", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := startHelpLogger.WithField("command", "/help").WithField("sender_id", senderID)
		logCtx.Info("Processing /help command")

		var helpText strings.Builder
		helpText.WriteString("I answer questions about your tutoring records with real numbers, never guesses.\n\n")
		helpText.WriteString("Things you can ask:\n")
		helpText.WriteString("• Totals: \"How much did I earn in January 2026?\"\n")
		helpText.WriteString("• Rankings: \"Top 3 students by earnings this year\"\n")
		helpText.WriteString("• Rates: \"What's my average hourly rate?\"\n")
		helpText.WriteString("• Attendance: \"Who missed the most lessons in 2025?\"\n")
		helpText.WriteString("• What-ifs: \"What if I take 2 weeks off?\"\n")
		helpText.WriteString("• Goals: \"Am I on track for $80k this year?\"\n\n")
		helpText.WriteString("If I need more detail (a student name, a year, an amount) I'll ask one follow-up question; just answer it and I'll pick up where we left off.")
		return c.Send(helpText.String())
	})
}
