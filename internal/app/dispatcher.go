// internal/app/dispatcher.go
package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"reminder_assistant_bot/internal/domain/reminder"
	"reminder_assistant_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

// Outcome classifies how an inbound event was handled.
type Outcome string

const (
	OutcomeApplied      Outcome = "applied"
	OutcomeNotFound     Outcome = "not_found"
	OutcomeMalformed    Outcome = "malformed"
	OutcomeUnsupported  Outcome = "unsupported_action"
	OutcomeCommand      Outcome = "command"
	OutcomeUnrecognized Outcome = "unrecognized"
)

// Reply is what the transport must deliver for one inbound event.
type Reply struct {
	Outcome Outcome
	// Text is the chat message to send; empty means no message.
	Text    string
	Buttons []telegram.Button
	// Ack is the callback acknowledgment text. Callbacks are always acknowledged, "" acks silently.
	Ack string
	// Reminder is the reminder the event touched, if any.
	Reminder *reminder.Reminder
}

// Sender identifies who issued a text command.
type Sender struct {
	ID        int64
	FirstName string
}

// callbackActions maps callback tags to lifecycle actions. "done" is the tag of older buttons.
var callbackActions = map[string]reminder.Action{
	"complete": reminder.ActionComplete,
	"done":     reminder.ActionComplete,
	"snooze":   reminder.ActionSnooze,
	"ignore":   reminder.ActionIgnore,
}

// Dispatcher maps inbound callbacks and commands onto lifecycle operations.
type Dispatcher struct {
	lifecycle         *Lifecycle
	reminders         reminder.Repository
	perf              *PerformanceAggregator
	tone              *ToneEngine
	newReminderOffset time.Duration
	logger            *logrus.Entry
}

func NewDispatcher(
	lifecycle *Lifecycle,
	reminders reminder.Repository,
	perf *PerformanceAggregator,
	tone *ToneEngine,
	newReminderOffset time.Duration,
	logger *logrus.Entry,
) *Dispatcher {
	return &Dispatcher{
		lifecycle:         lifecycle,
		reminders:         reminders,
		perf:              perf,
		tone:              tone,
		newReminderOffset: newReminderOffset,
		logger:            logger,
	}
}

// ReminderButtons builds the complete/snooze/ignore affordances for a reminder.
func ReminderButtons(id int64, snoozeDelay time.Duration) []telegram.Button {
	return []telegram.Button{
		{Text: "✅ Hecho", Data: fmt.Sprintf("%s:%d", reminder.ActionComplete, id)},
		{Text: fmt.Sprintf("⏳ +%dm", int(snoozeDelay.Minutes())), Data: fmt.Sprintf("%s:%d", reminder.ActionSnooze, id)},
		{Text: "⏭️ Ignorar", Data: fmt.Sprintf("%s:%d", reminder.ActionIgnore, id)},
	}
}

// ParseCallbackData splits "<tag>:<id>".
func ParseCallbackData(data string) (tag string, id int64, err error) {
	tag, rawID, ok := strings.Cut(strings.TrimSpace(data), ":")
	if !ok || tag == "" {
		return "", 0, fmt.Errorf("invalid callback data format: %q", data)
	}
	id, err = strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return "", 0, fmt.Errorf("invalid reminder id %q in callback", rawID)
	}
	return tag, id, nil
}

// HandleCallback processes a button press. The returned error is non-nil only for
// persistence failures; the callback must still be acknowledged in that case.
func (d *Dispatcher) HandleCallback(ctx context.Context, data string) (*Reply, error) {
	logCtx := d.logger.WithField("callback_data", data)

	tag, id, err := ParseCallbackData(data)
	if err != nil {
		logCtx.WithError(err).Warn("Malformed callback payload")
		return &Reply{Outcome: OutcomeMalformed}, nil
	}

	action, ok := callbackActions[tag]
	if !ok {
		logCtx.WithField("tag", tag).Warn("Unsupported callback action")
		return &Reply{Outcome: OutcomeUnsupported, Ack: MsgUnsupportedAction}, nil
	}

	t, err := d.lifecycle.Apply(ctx, id, action)
	if err != nil {
		if errors.Is(err, reminder.ErrNotFound) {
			return &Reply{Outcome: OutcomeNotFound, Ack: MsgReminderNotFound}, nil
		}
		return nil, err
	}

	reply := &Reply{Outcome: OutcomeApplied, Reminder: t.Reminder}
	switch action {
	case reminder.ActionComplete:
		tone := d.tone.ComputeTone(ctx, t.Performance.StreakCount, t.Performance.FailureCount, t.Reminder.Text)
		reply.Text = fmt.Sprintf("✅ ¡Excelente! He marcado '%s' como completado.\n\n%s", t.Reminder.Text, tone)
	case reminder.ActionSnooze:
		reply.Text = fmt.Sprintf("⏳ Entendido. Te lo recordaré en %d minutos.", int(d.lifecycle.SnoozeDelay().Minutes()))
	case reminder.ActionIgnore:
		reply.Text = "⏭️ Ok, lo saltaremos por ahora."
	}
	return reply, nil
}

// HandleCommand processes a text message from sender.
func (d *Dispatcher) HandleCommand(ctx context.Context, sender Sender, text string) (*Reply, error) {
	command, args := splitCommand(text)
	logCtx := d.logger.WithFields(logrus.Fields{"command": command, "sender_id": sender.ID})

	switch command {
	case "/start":
		logCtx.Info("Processing /start command")
		return &Reply{Outcome: OutcomeCommand, Text: startText(sender.FirstName)}, nil
	case "/help":
		logCtx.Info("Processing /help command")
		return &Reply{Outcome: OutcomeCommand, Text: MsgHelp}, nil
	case "/reminders":
		logCtx.Info("Processing /reminders command")
		return d.listReminders(ctx, sender.ID)
	case "/add":
		logCtx.Info("Processing /add command")
		return d.addReminder(ctx, sender.ID, args)
	default:
		logCtx.Debug("Unrecognized input")
		return &Reply{Outcome: OutcomeUnrecognized, Text: MsgUnrecognized}, nil
	}
}

func (d *Dispatcher) listReminders(ctx context.Context, ownerID int64) (*Reply, error) {
	pending, err := d.reminders.ListPendingByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending reminders for %d: %w", ownerID, err)
	}
	if len(pending) == 0 {
		return &Reply{Outcome: OutcomeCommand, Text: MsgNoPending}, nil
	}

	var b strings.Builder
	b.WriteString("Tus recordatorios pendientes:\n")
	for _, r := range pending {
		fmt.Fprintf(&b, "- %s (%s)\n", r.Text, r.ScheduledAt.Format("2006-01-02 15:04"))
	}
	return &Reply{Outcome: OutcomeCommand, Text: b.String()}, nil
}

func (d *Dispatcher) addReminder(ctx context.Context, ownerID int64, text string) (*Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return &Reply{Outcome: OutcomeCommand, Text: MsgAddUsage}, nil
	}

	perf, err := d.perf.Snapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	tone := d.tone.ComputeTone(ctx, perf.StreakCount, perf.FailureCount, text)

	r, err := d.lifecycle.Create(ctx, ownerID, text, d.lifecycle.now().Add(d.newReminderOffset),
		reminder.Metadata{reminder.MetaInitialTone: tone})
	if err != nil {
		return nil, err
	}

	return &Reply{
		Outcome:  OutcomeCommand,
		Text:     fmt.Sprintf("¡Listo! Recordatorio agregado: %s\n\n%s", r.Text, tone),
		Buttons:  ReminderButtons(r.ID, d.lifecycle.SnoozeDelay()),
		Reminder: r,
	}, nil
}

// splitCommand returns the leading "/command" (without any @botname suffix) and the rest.
func splitCommand(text string) (command, args string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	command, args = text, ""
	if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
		command, args = text[:i], strings.TrimSpace(text[i:])
	}
	if at := strings.IndexByte(command, '@'); at >= 0 {
		command = command[:at]
	}
	return command, args
}
