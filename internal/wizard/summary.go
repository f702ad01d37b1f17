package wizard

import (
	"fmt"
	"strconv"

	"participium/internal/domain"
	"participium/internal/locales"
	"participium/internal/sessions"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/nicksnyder/go-i18n/v2/i18n"
)

// summary renders the MarkdownV2 recap shown before confirmation.
func summary(d sessions.Draft, localizer *i18n.Localizer) string {
	location := ""
	if d.Location != nil {
		location = fmt.Sprintf("%.6f, %.6f", d.Location.Latitude, d.Location.Longitude)
	}
	address := d.Address
	if address == "" {
		address = locales.GetMessage(localizer, "MsgReportNotAvailable", nil, nil)
	}
	anonymous := locales.GetMessage(localizer, "ButtonNo", nil, nil)
	if d.IsAnonymous {
		anonymous = locales.GetMessage(localizer, "ButtonYes", nil, nil)
	}
	data := map[string]interface{}{
		"Location":    escapeMarkdownV2(location),
		"Address":     escapeMarkdownV2(address),
		"Title":       escapeMarkdownV2(d.Title),
		"Description": escapeMarkdownV2(d.Description),
		"Category":    escapeMarkdownV2(string(d.Category)),
		"Photos":      strconv.Itoa(len(d.Photos)),
		"Anonymous":   escapeMarkdownV2(anonymous),
	}
	return locales.GetMessage(localizer, "MsgReportSummary", data, nil)
}

func categoryKeyboard() *telego.InlineKeyboardMarkup {
	categories := domain.Categories()
	rows := make([][]telego.InlineKeyboardButton, 0, len(categories))
	for i, c := range categories {
		rows = append(rows, tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(string(c)).WithCallbackData(CallbackCategoryPrefix+strconv.Itoa(i)),
		))
	}
	return tu.InlineKeyboard(rows...)
}

func doneKeyboard(localizer *i18n.Localizer) *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(tu.InlineKeyboardRow(
		tu.InlineKeyboardButton(locales.GetMessage(localizer, "ButtonDone", nil, nil)).WithCallbackData(CallbackDone),
	))
}

func anonymousKeyboard(localizer *i18n.Localizer) *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(tu.InlineKeyboardRow(
		tu.InlineKeyboardButton(locales.GetMessage(localizer, "ButtonYes", nil, nil)).WithCallbackData(CallbackAnonymousYes),
		tu.InlineKeyboardButton(locales.GetMessage(localizer, "ButtonNo", nil, nil)).WithCallbackData(CallbackAnonymousNo),
	))
}

func confirmKeyboard(localizer *i18n.Localizer) *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(tu.InlineKeyboardRow(
		tu.InlineKeyboardButton(locales.GetMessage(localizer, "ButtonConfirm", nil, nil)).WithCallbackData(CallbackConfirmYes),
		tu.InlineKeyboardButton(locales.GetMessage(localizer, "ButtonCancel", nil, nil)).WithCallbackData(CallbackConfirmNo),
	))
}

func retryKeyboard(localizer *i18n.Localizer) *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(locales.GetMessage(localizer, "ButtonRetry", nil, nil)).WithCallbackData(CallbackConfirmYes),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(locales.GetMessage(localizer, "ButtonRestart", nil, nil)).WithCallbackData(CallbackRestart),
			tu.InlineKeyboardButton(locales.GetMessage(localizer, "ButtonCancel", nil, nil)).WithCallbackData(CallbackConfirmNo),
		),
	)
}
