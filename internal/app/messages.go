package app

import "fmt"

const (
	MsgReminderNotFound  = "Recordatorio no encontrado."
	MsgUnsupportedAction = "Acción no soportada."
	MsgNoPending         = "No tienes recordatorios pendientes."
	MsgAddUsage          = "Por favor proporciona el texto del recordatorio. Uso: /add <texto>"
	MsgUnrecognized      = "Comando no reconocido. Usa /help para ver los comandos disponibles."
	MsgInternalError     = "Ocurrió un error. Por favor, intenta más tarde."

	MsgHelp = "Comandos disponibles:\n" +
		"/start - Iniciar el bot\n" +
		"/reminders - Ver recordatorios pendientes\n" +
		"/add <texto> - Agregar un nuevo recordatorio\n" +
		"/help - Ver esta ayuda"
)

func startText(name string) string {
	if name == "" {
		name = "User"
	}
	return fmt.Sprintf("Hola %s! Soy Tonalli AI. Mi objetivo es ayudarte a mantener tus hábitos.\n"+
		"Comandos:\n"+
		"/reminders - Ver tus recordatorios\n"+
		"/add <texto> - Agregar recordatorio\n"+
		"/help - Ver ayuda", name)
}
