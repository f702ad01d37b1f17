package handlers

import (
	"context"
	"log"

	"participium/internal/locales"
	telegoapi "participium/pkg/telegoapi"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/nicksnyder/go-i18n/v2/i18n"
)

// sendSuccess sends a plain reply to the user.
func (h *MessageHandler) sendSuccess(ctx context.Context, bot telegoapi.BotAPI, chatID int64, text string) error {
	_, err := bot.SendMessage(ctx, tu.Message(tu.ID(chatID), text))
	if err != nil {
		log.Printf("Error sending message to chat %d: %v", chatID, err)
	}
	return nil
}

// sendError sends a generic error message to the user.
// Logs and returns the original error so the caller can report it.
func (h *MessageHandler) sendError(ctx context.Context, bot telegoapi.BotAPI, chatID int64, localizer *i18n.Localizer, originalErr error) error {
	log.Printf("Error for user in chat %d: %v", chatID, originalErr)

	errMsg := locales.GetMessage(localizer, "MsgErrorGeneral", nil, nil)
	if _, sendErr := bot.SendMessage(ctx, tu.Message(tu.ID(chatID), errMsg)); sendErr != nil {
		log.Printf("Error sending generic error message to chat %d: %v", chatID, sendErr)
	}
	return originalErr
}

// getLocalizer picks the user's language, falling back to the default one.
func (h *MessageHandler) getLocalizer(user *telego.User) *i18n.Localizer {
	lang := locales.DefaultLanguage
	if user != nil && user.LanguageCode != "" {
		lang = user.LanguageCode
	}
	return locales.NewLocalizer(lang)
}

// RecordUserActivity combines updating the Telegram account record and logging the action.
func (h *MessageHandler) RecordUserActivity(ctx context.Context, user *telego.User, action string, details map[string]interface{}) {
	if user == nil {
		log.Printf("Attempted to record activity for nil user, action: %s", action)
		return
	}

	if err := h.tracker.UpdateTelegramUser(ctx, user.ID, user.Username, user.FirstName, user.LastName, action); err != nil {
		log.Printf("Error updating Telegram user %d (%s) during action %s: %v", user.ID, user.Username, action, err)
		// Continue to log the action even if the update fails
	}

	if err := h.actionLogger.LogUserAction(ctx, user.ID, action, details); err != nil {
		log.Printf("Error logging action %s for user %d (%s): %v", action, user.ID, user.Username, err)
	}
}

// HandleCallbackQuery acknowledges the query and delegates it to the wizard.
func (h *MessageHandler) HandleCallbackQuery(ctx context.Context, bot telegoapi.BotAPI, query telego.CallbackQuery) error {
	// Acknowledge immediately to stop the loading spinner
	if err := bot.AnswerCallbackQuery(ctx, &telego.AnswerCallbackQueryParams{CallbackQueryID: query.ID}); err != nil {
		log.Printf("Error answering callback query %s: %v", query.ID, err)
	}

	processed, err := h.wizard.HandleCallbackQuery(ctx, query)
	if err != nil {
		log.Printf("Error processing callback query %s via wizard: %v", query.ID, err)
		return err
	}
	if !processed {
		log.Printf("Callback query %s not processed by any manager. Data: %s", query.ID, query.Data)
		return nil
	}

	h.RecordUserActivity(ctx, &query.From, ActionWizardCallback, map[string]interface{}{
		"data": query.Data,
	})
	return nil
}
