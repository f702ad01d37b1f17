package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"participium/internal/linking"
	"participium/internal/locales"
	telegoapi "participium/pkg/telegoapi"

	"github.com/mymmrac/telego"
)

// HandleStart handles the /start command.
// It sets up the bot commands, records the activity and sends the welcome message.
func (h *MessageHandler) HandleStart(ctx context.Context, bot telegoapi.BotAPI, message telego.Message) error {
	localizer := h.getLocalizer(message.From)
	if err := h.SetupCommands(ctx, bot); err != nil {
		return h.sendError(ctx, bot, message.Chat.ID, localizer, fmt.Errorf("failed to set up commands: %w", err))
	}

	h.RecordUserActivity(ctx, message.From, ActionCommandStart, map[string]interface{}{
		"chat_id": message.Chat.ID,
	})

	return h.sendSuccess(ctx, bot, message.Chat.ID, locales.GetMessage(localizer, "MsgStart", nil, nil))
}

// HandleHelp lists the available commands.
func (h *MessageHandler) HandleHelp(ctx context.Context, bot telegoapi.BotAPI, message telego.Message) error {
	localizer := h.getLocalizer(message.From)

	var helpText strings.Builder
	helpText.WriteString(locales.GetMessage(localizer, "MsgHelpHeader", nil, nil) + "\n")
	for _, cmd := range h.commands {
		helpText.WriteString(fmt.Sprintf("/%s - %s\n", cmd.Command, locales.GetMessage(localizer, cmd.Description, nil, nil)))
	}

	h.RecordUserActivity(ctx, message.From, ActionCommandHelp, map[string]interface{}{
		"chat_id": message.Chat.ID,
	})

	return h.sendSuccess(ctx, bot, message.Chat.ID, helpText.String())
}

// HandleNewReport starts the report wizard.
func (h *MessageHandler) HandleNewReport(ctx context.Context, bot telegoapi.BotAPI, message telego.Message) error {
	h.RecordUserActivity(ctx, message.From, ActionCommandNewReport, map[string]interface{}{
		"chat_id": message.Chat.ID,
	})
	if err := h.wizard.HandleNewReport(ctx, message); err != nil {
		return h.sendError(ctx, bot, message.Chat.ID, h.getLocalizer(message.From), err)
	}
	return nil
}

// HandleCancel drops the report in progress.
func (h *MessageHandler) HandleCancel(ctx context.Context, bot telegoapi.BotAPI, message telego.Message) error {
	h.RecordUserActivity(ctx, message.From, ActionCommandCancel, map[string]interface{}{
		"chat_id":     message.Chat.ID,
		"had_session": h.wizard.HasSession(message.Chat.ID),
	})
	return h.wizard.HandleCancel(ctx, message)
}

// HandleLink handles /link <code>, binding the sender's username to a platform account.
func (h *MessageHandler) HandleLink(ctx context.Context, bot telegoapi.BotAPI, message telego.Message) error {
	chatID := message.Chat.ID
	localizer := h.getLocalizer(message.From)

	if message.From == nil || message.From.Username == "" {
		return h.sendSuccess(ctx, bot, chatID, locales.GetMessage(localizer, "MsgLinkUsernameRequired", nil, nil))
	}
	userID := message.From.ID

	args := strings.Fields(message.Text)
	if len(args) != 2 {
		return h.sendSuccess(ctx, bot, chatID, locales.GetMessage(localizer, "MsgLinkUsage", nil, nil))
	}
	code := args[1]
	if !linking.ValidCode(code) {
		log.Printf("[Cmd:link User:%d] Malformed code", userID)
		return h.sendSuccess(ctx, bot, chatID, locales.GetMessage(localizer, "MsgLinkInvalidCode", nil, nil))
	}

	accountID, err := h.linker.Verify(ctx, code, message.From.Username)
	h.RecordUserActivity(ctx, message.From, ActionCommandLink, map[string]interface{}{
		"chat_id": chatID,
		"success": err == nil,
	})
	if err != nil {
		if !errors.Is(err, linking.ErrLinkFailed) {
			log.Printf("[Cmd:link User:%d] Unexpected error: %v", userID, err)
		}
		return h.sendSuccess(ctx, bot, chatID, locales.GetMessage(localizer, "MsgLinkFailed", nil, nil))
	}

	log.Printf("[Cmd:link User:%d] Linked @%s to account %s", userID, message.From.Username, accountID)
	return h.sendSuccess(ctx, bot, chatID, locales.GetMessage(localizer, "MsgLinkSuccess", nil, nil))
}

// SetupCommands registers the bot's commands with Telegram, with descriptions in the default language.
func (h *MessageHandler) SetupCommands(ctx context.Context, bot telegoapi.BotAPI) error {
	if len(h.commands) == 0 {
		log.Println("No commands defined in handler, skipping SetMyCommands.")
		return nil
	}

	localizer := locales.NewLocalizer(locales.DefaultLanguage)
	commands := make([]telego.BotCommand, 0, len(h.commands))
	for _, cmd := range h.commands {
		commands = append(commands, telego.BotCommand{
			Command:     cmd.Command,
			Description: locales.GetMessage(localizer, cmd.Description, nil, nil),
		})
	}

	if err := bot.SetMyCommands(ctx, &telego.SetMyCommandsParams{Commands: commands}); err != nil {
		return fmt.Errorf("failed to set bot commands: %w", err)
	}
	log.Printf("Successfully set %d bot commands.", len(commands))
	return nil
}
