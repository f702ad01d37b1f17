package bot

import (
	"strings"

	"participium/internal/locales"

	"github.com/mymmrac/telego"
)

// parseCommand extracts the command name from "/name@botname args".
// ok is false when text is not a command.
func parseCommand(text string) (command string, ok bool) {
	if len(text) < 2 || !strings.HasPrefix(text, "/") {
		return "", false
	}
	head, _, _ := strings.Cut(text[1:], " ")
	head, _, _ = strings.Cut(head, "\n")
	command, _, _ = strings.Cut(head, "@")
	if command == "" {
		return "", false
	}
	return strings.ToLower(command), true
}

// languageOf returns the sender's language code, or the default one.
func languageOf(user *telego.User) string {
	if user != nil && user.LanguageCode != "" {
		return user.LanguageCode
	}
	return locales.DefaultLanguage
}
