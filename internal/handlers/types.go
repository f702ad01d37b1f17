package handlers

import (
	"context"
	"log"

	"participium/internal/database"
	telegoapi "participium/pkg/telegoapi"

	"github.com/mymmrac/telego"
)

// CommandFunc executes one bot command.
type CommandFunc func(context.Context, telegoapi.BotAPI, telego.Message) error

// Command represents a bot command, mapping the command string to its description and handler function.
type Command struct {
	Command     string      // The command string (e.g., "start").
	Description string      // i18n key of the description shown in /help and the command menu.
	Handler     CommandFunc // The function to execute when the command is received.
}

// MessageHandler handles bot commands and routes callback queries to the report wizard.
type MessageHandler struct {
	commands []Command

	actionLogger database.UserActionLogger
	tracker      database.TelegramUserTracker
	wizard       WizardInterface
	linker       LinkVerifier
}

// NewMessageHandler creates and initializes a new MessageHandler instance.
func NewMessageHandler(
	actionLogger database.UserActionLogger,
	tracker database.TelegramUserTracker,
	wizard WizardInterface,
	linker LinkVerifier,
) *MessageHandler {
	if actionLogger == nil || tracker == nil {
		log.Fatal("MessageHandler: activity logger dependencies are nil")
	}
	if wizard == nil {
		log.Fatal("MessageHandler: wizard dependency is nil")
	}
	if linker == nil {
		log.Fatal("MessageHandler: link verifier dependency is nil")
	}
	h := &MessageHandler{
		actionLogger: actionLogger,
		tracker:      tracker,
		wizard:       wizard,
		linker:       linker,
	}
	h.commands = []Command{
		{Command: "start", Description: "CmdStartDesc", Handler: h.HandleStart},
		{Command: "help", Description: "CmdHelpDesc", Handler: h.HandleHelp},
		{Command: "newreport", Description: "CmdNewReportDesc", Handler: h.HandleNewReport},
		{Command: "link", Description: "CmdLinkDesc", Handler: h.HandleLink},
		{Command: "cancel", Description: "CmdCancelDesc", Handler: h.HandleCancel},
	}
	return h
}

// GetCommandHandler retrieves the handler function associated with a specific command string (e.g., "start").
// It returns nil if the command is not found.
func (h *MessageHandler) GetCommandHandler(command string) CommandFunc {
	for _, cmd := range h.commands {
		if cmd.Command == command {
			return cmd.Handler
		}
	}
	return nil
}

// ActionLogger provides access to the user action logger dependency.
func (h *MessageHandler) ActionLogger() database.UserActionLogger {
	return h.actionLogger
}
