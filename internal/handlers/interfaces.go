package handlers

import (
	"context"

	telegoapi "participium/pkg/telegoapi"

	"github.com/mymmrac/telego"
)

// WizardInterface defines the report wizard operations used by MessageHandler and the bot loop.
type WizardInterface interface {
	HasSession(chatID int64) bool
	HandleNewReport(ctx context.Context, message telego.Message) error
	HandleCancel(ctx context.Context, message telego.Message) error
	HandleMessage(ctx context.Context, message telego.Message) (processed bool, err error)
	HandleCallbackQuery(ctx context.Context, query telego.CallbackQuery) (processed bool, err error)
}

// LinkVerifier redeems Telegram link codes.
type LinkVerifier interface {
	Verify(ctx context.Context, code, telegramUsername string) (string, error)
}

// HandlerProvider is what the bot loop needs from MessageHandler.
type HandlerProvider interface {
	GetCommandHandler(command string) CommandFunc
	HandleCallbackQuery(ctx context.Context, bot telegoapi.BotAPI, query telego.CallbackQuery) error
	SetupCommands(ctx context.Context, bot telegoapi.BotAPI) error
}
