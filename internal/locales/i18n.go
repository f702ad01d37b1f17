// Package locales holds the bot's English and Italian message catalogs.
package locales

import (
	"embed"
	"encoding/json"
	"log"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// DefaultLanguage is used when a Telegram user has no language code.
const DefaultLanguage = "en"

//go:embed *.json
var localeFS embed.FS

var (
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
)

// Init loads every embedded catalog. An unparsable defaultLangCode falls back to English.
func Init(defaultLangCode string) {
	var err error
	defaultLanguage, err = language.Parse(defaultLangCode)
	if err != nil {
		log.Printf("[Locales] Invalid default language %q: %v, using English", defaultLangCode, err)
		defaultLanguage = language.English
	}

	bundle = i18n.NewBundle(defaultLanguage)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir(".")
	if err != nil {
		log.Fatalf("[Locales] Failed to read embedded catalogs: %v", err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if _, err := bundle.LoadMessageFileFS(localeFS, entry.Name()); err != nil {
			log.Printf("[Locales] Skipping catalog %s: %v", entry.Name(), err)
			continue
		}
		loaded++
	}
	if loaded == 0 {
		log.Fatalf("[Locales] No message catalogs loaded")
	}
	log.Printf("[Locales] Loaded %d catalog(s), default language %s", loaded, defaultLanguage)
}

// GetDefaultLanguageTag returns the configured default language tag.
func GetDefaultLanguageTag() language.Tag {
	if bundle == nil {
		log.Panicln("locales: GetDefaultLanguageTag called before Init")
	}
	return defaultLanguage
}

// NewLocalizer creates a localizer for the given language tags or Accept-Language values.
func NewLocalizer(langPrefs ...string) *i18n.Localizer {
	if bundle == nil {
		log.Panicln("locales: NewLocalizer called before Init")
	}
	return i18n.NewLocalizer(bundle, langPrefs...)
}

// GetMessage renders msgID for localizer.
// A message missing from the user's catalog is taken from the English one,
// and a message missing from both comes back as its ID.
func GetMessage(localizer *i18n.Localizer, msgID string, templateData map[string]interface{}, pluralCount *int) string {
	config := &i18n.LocalizeConfig{
		MessageID:    msgID,
		TemplateData: templateData,
	}
	if pluralCount != nil {
		config.PluralCount = *pluralCount
	}

	msg, err := localizer.Localize(config)
	if err == nil {
		return msg
	}
	log.Printf("[Locales] Failed to localize %s: %v", msgID, err)

	msg, err = i18n.NewLocalizer(bundle, language.English.String()).Localize(config)
	if err != nil {
		log.Printf("[Locales] %s is missing from the English catalog too", msgID)
		return msgID
	}
	return msg
}
