package wizard

import (
	"strings"
)

// markdownV2Reserved lists the characters Telegram MarkdownV2 requires to be escaped.
const markdownV2Reserved = "_*[]()~`>#+-=|{}.!\\"

// escapeMarkdownV2 escapes user text for a MarkdownV2 message.
func escapeMarkdownV2(s string) string {
	var result strings.Builder
	result.Grow(len(s) + len(s)/4)
	for _, r := range s {
		if strings.ContainsRune(markdownV2Reserved, r) {
			result.WriteByte('\\')
		}
		result.WriteRune(r)
	}
	return result.String()
}
