package app

import (
	"context"
	"fmt"
	"testing"
	"time"

	"reminder_assistant_bot/internal/domain/reminder"
	"reminder_assistant_bot/internal/domain/telegram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSender = Sender{ID: ownerID, FirstName: "Ana"}

func TestParseCallbackData(t *testing.T) {
	tag, id, err := ParseCallbackData("complete:17")
	require.NoError(t, err)
	assert.Equal(t, "complete", tag)
	assert.Equal(t, int64(17), id)

	for _, bad := range []string{"", "complete", "complete:", ":17", "complete:abc", "complete:-3", "complete:0", "snooze:1:2"} {
		_, _, err := ParseCallbackData(bad)
		assert.Error(t, err, bad)
	}
}

func TestReminderButtons(t *testing.T) {
	buttons := ReminderButtons(9, 20*time.Minute)
	assert.Equal(t, []telegram.Button{
		{Text: "✅ Hecho", Data: "complete:9"},
		{Text: "⏳ +20m", Data: "snooze:9"},
		{Text: "⏭️ Ignorar", Data: "ignore:9"},
	}, buttons)
}

func TestAddCommandRoundTrip(t *testing.T) {
	env := newTestEnv(t, failingProvider())

	reply, err := env.dispatcher.HandleCommand(context.Background(), testSender, "/add Buy milk")
	require.NoError(t, err)

	require.Equal(t, 1, env.store.ReminderCount())
	require.NotNil(t, reply.Reminder)
	r, err := env.store.GetByID(context.Background(), reply.Reminder.ID)
	require.NoError(t, err)

	assert.Equal(t, "Buy milk", r.Text)
	assert.Equal(t, ownerID, r.OwnerID)
	assert.Equal(t, reminder.StatusPending, r.Status)
	assert.False(t, r.Completed)
	assert.Equal(t, testNow.Add(time.Hour), r.ScheduledAt)
	assert.Equal(t, ToneNeutral, r.InitialTone())

	assert.Equal(t, OutcomeCommand, reply.Outcome)
	assert.Equal(t, "¡Listo! Recordatorio agregado: Buy milk\n\n"+ToneNeutral, reply.Text)
	require.Len(t, reply.Buttons, 3)
	assert.Equal(t, fmt.Sprintf("complete:%d", r.ID), reply.Buttons[0].Data)
	assert.Equal(t, fmt.Sprintf("snooze:%d", r.ID), reply.Buttons[1].Data)
	assert.Equal(t, fmt.Sprintf("ignore:%d", r.ID), reply.Buttons[2].Data)
}

func TestAddCommandWithoutText(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, text := range []string{"/add", "/add    "} {
		reply, err := env.dispatcher.HandleCommand(context.Background(), testSender, text)
		require.NoError(t, err)
		assert.Equal(t, MsgAddUsage, reply.Text)
		assert.Empty(t, reply.Buttons)
	}
	assert.Zero(t, env.store.ReminderCount())
}

func TestAddCommandStoresGeneratedTone(t *testing.T) {
	env := newTestEnv(t, &fakeProvider{out: "¡Vamos por esa leche!"})

	reply, err := env.dispatcher.HandleCommand(context.Background(), testSender, "/add@tonalli_bot Buy milk")
	require.NoError(t, err)
	require.NotNil(t, reply.Reminder)
	assert.Equal(t, "¡Vamos por esa leche!", reply.Reminder.InitialTone())
	assert.Equal(t, "Buy milk", reply.Reminder.Text)
}

func TestStartAndHelpCommands(t *testing.T) {
	env := newTestEnv(t, nil)

	reply, err := env.dispatcher.HandleCommand(context.Background(), testSender, "/start")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Hola Ana!")

	reply, err = env.dispatcher.HandleCommand(context.Background(), Sender{ID: 1}, "/start")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Hola User!")

	reply, err = env.dispatcher.HandleCommand(context.Background(), testSender, "/help")
	require.NoError(t, err)
	assert.Equal(t, MsgHelp, reply.Text)
}

func TestRemindersCommand(t *testing.T) {
	env := newTestEnv(t, nil)

	reply, err := env.dispatcher.HandleCommand(context.Background(), testSender, "/reminders")
	require.NoError(t, err)
	assert.Equal(t, MsgNoPending, reply.Text)

	seedReminder(t, env, "Agua", time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC))
	done := seedReminder(t, env, "Correr", testNow)
	_, err = env.lifecycle.Apply(context.Background(), done.ID, reminder.ActionComplete)
	require.NoError(t, err)
	_, err = env.lifecycle.Create(context.Background(), 777, "Ajeno", testNow, nil)
	require.NoError(t, err)

	reply, err = env.dispatcher.HandleCommand(context.Background(), testSender, "/reminders")
	require.NoError(t, err)
	assert.Equal(t, "Tus recordatorios pendientes:\n- Agua (2026-03-10 11:00)\n", reply.Text)
}

func TestUnrecognizedInput(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, text := range []string{"hola", "/unknown", ""} {
		reply, err := env.dispatcher.HandleCommand(context.Background(), testSender, text)
		require.NoError(t, err)
		assert.Equal(t, OutcomeUnrecognized, reply.Outcome)
		assert.Equal(t, MsgUnrecognized, reply.Text)
	}
}

func TestCallbackComplete(t *testing.T) {
	for _, tag := range []string{"complete", "done"} {
		t.Run(tag, func(t *testing.T) {
			env := newTestEnv(t, failingProvider())
			r := seedReminder(t, env, "Leer", testNow)

			reply, err := env.dispatcher.HandleCallback(context.Background(), fmt.Sprintf("%s:%d", tag, r.ID))
			require.NoError(t, err)

			assert.Equal(t, OutcomeApplied, reply.Outcome)
			assert.Equal(t, "✅ ¡Excelente! He marcado 'Leer' como completado.\n\n"+ToneNeutral, reply.Text)
			assert.Empty(t, reply.Ack)
			assert.Len(t, env.store.Activities(), 1)
		})
	}
}

func TestCallbackCompleteEnergeticAfterStreak(t *testing.T) {
	env := newTestEnv(t, failingProvider())

	var reply *Reply
	for i := 0; i < 5; i++ {
		r := seedReminder(t, env, "x", testNow)
		var err error
		reply, err = env.dispatcher.HandleCallback(context.Background(), fmt.Sprintf("complete:%d", r.ID))
		require.NoError(t, err)
		if i < 3 {
			assert.Contains(t, reply.Text, ToneNeutral)
		}
	}
	assert.Contains(t, reply.Text, ToneEnergetic)
}

func TestCallbackSnoozeAndIgnore(t *testing.T) {
	env := newTestEnv(t, nil)
	r := seedReminder(t, env, "x", testNow)

	reply, err := env.dispatcher.HandleCallback(context.Background(), fmt.Sprintf("snooze:%d", r.ID))
	require.NoError(t, err)
	assert.Equal(t, "⏳ Entendido. Te lo recordaré en 20 minutos.", reply.Text)
	assert.Equal(t, reminder.StatusSnoozed, reply.Reminder.Status)

	reply, err = env.dispatcher.HandleCallback(context.Background(), fmt.Sprintf("ignore:%d", r.ID))
	require.NoError(t, err)
	assert.Equal(t, "⏭️ Ok, lo saltaremos por ahora.", reply.Text)
	assert.Equal(t, reminder.StatusIgnored, reply.Reminder.Status)
}

func TestCallbackUnknownReminder(t *testing.T) {
	env := newTestEnv(t, nil)

	reply, err := env.dispatcher.HandleCallback(context.Background(), "complete:999")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotFound, reply.Outcome)
	assert.Equal(t, MsgReminderNotFound, reply.Ack)
	assert.Empty(t, reply.Text)
	assert.Zero(t, env.store.ReminderCount())
	assert.Empty(t, env.store.Activities())
}

func TestCallbackMalformedAndUnsupported(t *testing.T) {
	env := newTestEnv(t, nil)
	r := seedReminder(t, env, "x", testNow)

	reply, err := env.dispatcher.HandleCallback(context.Background(), "garbage")
	require.NoError(t, err)
	assert.Equal(t, OutcomeMalformed, reply.Outcome)
	assert.Empty(t, reply.Ack)
	assert.Empty(t, reply.Text)

	reply, err = env.dispatcher.HandleCallback(context.Background(), fmt.Sprintf("archive:%d", r.ID))
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnsupported, reply.Outcome)
	assert.Equal(t, MsgUnsupportedAction, reply.Ack)

	stored, err := env.store.GetByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, reminder.StatusPending, stored.Status)
}
