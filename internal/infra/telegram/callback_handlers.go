// internal/infra/telegram/callback_handlers.go
package telegram

import (
	"context"

	"reminder_assistant_bot/internal/app"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterCallbackHandlers handles reminder button presses. Every callback is
// acknowledged, even when it cannot be processed.
func RegisterCallbackHandlers(ctx context.Context, b *telebot.Bot, dispatcher *app.Dispatcher, baseLogger *logrus.Entry) {
	callbackLogger := baseLogger.WithField("handler_group", "callbacks")

	b.Handle(telebot.OnCallback, func(c telebot.Context) error {
		data := c.Callback().Data
		logCtx := callbackLogger.WithField("callback_data", data)

		reply, err := dispatcher.HandleCallback(ctx, data)
		if err != nil {
			logCtx.WithError(err).Error("Failed to handle callback")
			if respErr := c.Respond(&telebot.CallbackResponse{Text: app.MsgInternalError}); respErr != nil {
				logCtx.WithError(respErr).Warn("Failed to acknowledge callback")
			}
			return nil
		}

		if err := c.Respond(&telebot.CallbackResponse{Text: reply.Ack}); err != nil {
			logCtx.WithError(err).Warn("Failed to acknowledge callback")
		}
		if reply.Text == "" {
			return nil
		}
		logCtx.WithField("outcome", reply.Outcome).Debug("Sending callback reply")
		return c.Send(reply.Text, sendOptions(reply.Buttons))
	})
}
