package util

import (
	"html"
	"regexp"
	"strings"

	"github.com/forPelevin/gomoji"
	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

var lineBreak = regexp.MustCompile(`(?i)<\s*/?\s*br\s*/?\s*>`)

var emphasis = strings.NewReplacer("**", "", "__", "", "~~", "")

func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// StripMarkup drops any HTML tags left in a cell, decodes entities and
// removes markdown emphasis markers.
func StripMarkup(s string) string {
	if strings.ContainsAny(s, "<&") {
		s = lineBreak.ReplaceAllString(s, " ")
		s = html.UnescapeString(strict.Sanitize(s))
	}
	return CleanText(emphasis.Replace(s))
}

// StripEmoji removes every emoji sequence (flags, ZWJ sequences and
// variation-selector forms included) and trims the result.
func StripEmoji(s string) string {
	return strings.TrimSpace(gomoji.RemoveEmojis(s))
}
