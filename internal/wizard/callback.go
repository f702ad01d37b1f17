package wizard

import (
	"context"
	"log"
	"strconv"
	"strings"

	"participium/internal/domain"
	"participium/internal/locales"
	"participium/internal/sessions"

	"github.com/mymmrac/telego"
	"github.com/nicksnyder/go-i18n/v2/i18n"
)

// Callback data sent by the wizard keyboards.
const (
	CallbackCategoryPrefix = "cat_"
	CallbackDone           = "done"
	CallbackAnonymousYes   = "anon_yes"
	CallbackAnonymousNo    = "anon_no"
	CallbackConfirmYes     = "confirm_yes"
	CallbackConfirmNo      = "confirm_no"
	CallbackRestart        = "restart"
)

func isWizardCallback(data string) bool {
	switch data {
	case CallbackDone, CallbackAnonymousYes, CallbackAnonymousNo, CallbackConfirmYes, CallbackConfirmNo, CallbackRestart:
		return true
	}
	return strings.HasPrefix(data, CallbackCategoryPrefix)
}

// HandleCallbackQuery handles button presses of the wizard keyboards.
// Returns true if the callback belongs to the wizard, false otherwise.
// The caller answers the query; presses that do not match the current step are ignored.
func (m *Manager) HandleCallbackQuery(ctx context.Context, query telego.CallbackQuery) (processed bool, err error) {
	if !isWizardCallback(query.Data) {
		return false, nil
	}
	chatID := query.From.ID
	if query.Message != nil {
		chatID = query.Message.GetChat().ID
	}

	tx := m.sessions.Lock(chatID)
	defer tx.Unlock()
	s := tx.Session()
	if s == nil {
		log.Printf("[Wizard Chat:%d] Callback %q without session", chatID, query.Data)
		return true, nil
	}
	localizer := localizerFor(&query.From)

	switch {
	case strings.HasPrefix(query.Data, CallbackCategoryPrefix):
		if s.Step != sessions.StepWaitingCategory {
			return true, nil
		}
		return true, m.selectCategory(ctx, tx, s, strings.TrimPrefix(query.Data, CallbackCategoryPrefix), localizer)
	case query.Data == CallbackDone:
		if s.Step != sessions.StepWaitingPhotos {
			return true, nil
		}
		return true, m.finishPhotos(ctx, tx, s, localizer)
	case query.Data == CallbackAnonymousYes || query.Data == CallbackAnonymousNo:
		if s.Step != sessions.StepWaitingAnonymous {
			return true, nil
		}
		s.Draft.IsAnonymous = query.Data == CallbackAnonymousYes
		s.Step = sessions.StepWaitingConfirmation
		tx.Put(s)
		return true, m.sendMarkdown(ctx, chatID, summary(s.Draft, localizer), confirmKeyboard(localizer))
	}

	if s.Step != sessions.StepWaitingConfirmation {
		return true, nil
	}
	switch query.Data {
	case CallbackConfirmYes:
		return true, m.submit(ctx, tx, s, localizer)
	case CallbackConfirmNo:
		tx.Delete()
		log.Printf("[Wizard Chat:%d] Report cancelled at confirmation", chatID)
		return true, m.send(ctx, chatID, locales.GetMessage(localizer, "MsgReportCancelled", nil, nil), nil)
	case CallbackRestart:
		s.Restart()
		tx.Put(s)
		log.Printf("[Wizard Chat:%d] Report restarted", chatID)
		return true, m.send(ctx, chatID, locales.GetMessage(localizer, "MsgReportAskLocation", nil, nil), nil)
	}
	return true, nil
}

func (m *Manager) selectCategory(ctx context.Context, tx *sessions.Tx, s *sessions.Session, index string, localizer *i18n.Localizer) error {
	i, err := strconv.Atoi(index)
	if err != nil {
		log.Printf("[Wizard Chat:%d] Invalid category index %q", s.ChatID, index)
		return nil
	}
	category, ok := domain.CategoryAt(i)
	if !ok {
		log.Printf("[Wizard Chat:%d] Category index %d out of range", s.ChatID, i)
		return nil
	}
	s.Draft.Category = category
	s.Step = sessions.StepWaitingPhotos
	tx.Put(s)
	data := map[string]interface{}{"Max": m.limits.Max}
	return m.send(ctx, s.ChatID, locales.GetMessage(localizer, "MsgReportAskPhotos", data, nil), doneKeyboard(localizer))
}

func (m *Manager) submit(ctx context.Context, tx *sessions.Tx, s *sessions.Session, localizer *i18n.Localizer) error {
	report, err := m.reports.CreateReport(ctx, s.UserID, s.Draft.ToDomain(), m.limits)
	if err != nil {
		// The session stays at confirmation so the user can retry.
		log.Printf("[Wizard Chat:%d] Error creating report for user %s: %v", s.ChatID, s.UserID, err)
		tx.Put(s)
		return m.send(ctx, s.ChatID, submitErrorMessage(err, localizer), retryKeyboard(localizer))
	}
	tx.Delete()
	log.Printf("[Wizard Chat:%d] Report %s created for user %s", s.ChatID, report.ID, s.UserID)
	data := map[string]interface{}{"ID": report.ID}
	return m.send(ctx, s.ChatID, locales.GetMessage(localizer, "MsgReportCreated", data, nil), nil)
}

// submitErrorMessage maps a creation failure to a user-facing message.
func submitErrorMessage(err error, localizer *i18n.Localizer) string {
	id := "MsgReportErrorGeneric"
	switch domain.KindOf(err) {
	case domain.KindUnauthorized:
		id = "MsgReportErrorNotAuthorized"
	case domain.KindInsufficientRights:
		id = "MsgReportErrorInsufficientRights"
	case domain.KindBadRequest:
		switch domain.ReasonOf(err) {
		case domain.ReasonInvalidLocation:
			id = "MsgReportErrorInvalidLocation"
		case domain.ReasonInvalidCoordinates:
			id = "MsgReportErrorInvalidCoordinates"
		case domain.ReasonOutOfBounds:
			id = "MsgReportOutOfBounds"
		case domain.ReasonPhotoCount:
			id = "MsgReportErrorPhotoCount"
		case domain.ReasonUnsupportedFormat:
			id = "MsgReportErrorUnsupportedFormat"
		case domain.ReasonInvalidPhoto:
			id = "MsgReportErrorInvalidPhoto"
		case domain.ReasonInvalidText:
			id = "MsgReportErrorInvalidText"
		}
	}
	return locales.GetMessage(localizer, id, nil, nil)
}
