package telegram

// Button is an inline affordance attached to an outbound message.
// Data is delivered back verbatim as callback data when pressed.
type Button struct {
	Text string
	Data string
}

// Client defines an interface for sending messages via a Telegram bot.
// This helps in decoupling the application logic from the specific bot library.
type Client interface {
	// SendMessage sends text to a chat; buttons, when present, are laid out in one row.
	SendMessage(recipientChatID int64, text string, buttons []Button) error
}
