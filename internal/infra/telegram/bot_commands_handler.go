// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"context"

	"reminder_assistant_bot/internal/app"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterBotCommands routes every text message, commands included, through the dispatcher.
// Commands are matched by the dispatcher so that unknown ones still get a reply.
func RegisterBotCommands(ctx context.Context, b *telebot.Bot, dispatcher *app.Dispatcher, baseLogger *logrus.Entry) {
	commandsLogger := baseLogger.WithField("handler_group", "commands")

	b.Handle(telebot.OnText, func(c telebot.Context) error {
		s := c.Sender()
		if s == nil {
			// Reminders belong to a user; anonymous posts have no owner.
			commandsLogger.Debug("Ignoring text message without a sender")
			return nil
		}
		sender := app.Sender{ID: s.ID, FirstName: s.FirstName}
		logCtx := commandsLogger.WithField("sender_id", sender.ID)

		reply, err := dispatcher.HandleCommand(ctx, sender, c.Text())
		if err != nil {
			logCtx.WithError(err).Error("Failed to handle text message")
			return c.Send(app.MsgInternalError)
		}
		return c.Send(reply.Text, sendOptions(reply.Buttons))
	})
}
