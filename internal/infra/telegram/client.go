// internal/infra/telegram/client.go
package telegram

import (
	domainTelegram "reminder_assistant_bot/internal/domain/telegram"

	"gopkg.in/telebot.v3"
)

// TelebotAdapter implements domainTelegram.Client using gopkg.in/telebot.v3.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// SendMessage sends text to a private chat, with buttons laid out on one row.
func (tba *TelebotAdapter) SendMessage(recipientChatID int64, text string, buttons []domainTelegram.Button) error {
	recipient := &telebot.User{ID: recipientChatID} // Owners are addressed in their private chat
	_, err := tba.bot.Send(recipient, text, sendOptions(buttons))
	return err
}

func sendOptions(buttons []domainTelegram.Button) *telebot.SendOptions {
	opts := &telebot.SendOptions{}
	if markup := inlineMarkup(buttons); markup != nil {
		opts.ReplyMarkup = markup
	}
	return opts
}

// inlineMarkup keeps callback data verbatim: buttons carry no Unique, so telebot
// does not prefix the payload.
func inlineMarkup(buttons []domainTelegram.Button) *telebot.ReplyMarkup {
	if len(buttons) == 0 {
		return nil
	}
	row := make([]telebot.InlineButton, 0, len(buttons))
	for _, btn := range buttons {
		row = append(row, telebot.InlineButton{Text: btn.Text, Data: btn.Data})
	}
	return &telebot.ReplyMarkup{InlineKeyboard: [][]telebot.InlineButton{row}}
}
