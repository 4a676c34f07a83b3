package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripEmoji(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ascii untouched", "Software Engineer Intern", "Software Engineer Intern"},
		{"trims", "  Data Intern  ", "Data Intern"},
		{"pictograph", "🔥 ML Intern", "ML Intern"},
		{"trailing symbols", "SWE Intern ⭐️", "SWE Intern"},
		{"inner emoji keeps spacing", "Backend 🛂 Intern", "Backend  Intern"},
		{"flag", "Intern 🇺🇸", "Intern"},
		{"zwj sequence", "👩‍💻 Platform Intern", "Platform Intern"},
		{"dingbat", "✅ QA Intern", "QA Intern"},
		{"only emoji", "🎓🔒", ""},
		{"empty", "", ""},
		{"non-latin text kept", "Ingénieur Stagiaire — Été", "Ingénieur Stagiaire — Été"},
		{"continuation arrow kept", "↳", "↳"},
		{"digits and symbols kept", "C++ / C# Intern 2026", "C++ / C# Intern 2026"},
		{"copyright", "Acme©️ Intern", "Acme Intern"},
		{"registered", "Globex®️ Intern", "Globex Intern"},
		{"double exclamation", "Hiring‼️ SWE", "Hiring SWE"},
		{"trade mark", "Initech™️ Intern", "Initech Intern"},
		{"left right arrow", "↔️ Rotational Intern", "Rotational Intern"},
		{"return arrow", "ML Intern ↩️", "ML Intern"},
		{"keycap", "1️⃣ Data Intern", "Data Intern"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripEmoji(tt.in))
		})
	}
}

func TestStripEmoji_Idempotent(t *testing.T) {
	for _, s := range []string{"SWE Intern", "🔥 ML Intern 🎓", "  a  b  "} {
		once := StripEmoji(s)
		assert.Equal(t, once, StripEmoji(once), s)
	}
}

func TestStripMarkup(t *testing.T) {
	assert.Equal(t, "Acme", StripMarkup("<strong>Acme</strong>"))
	assert.Equal(t, "AT&T", StripMarkup("AT&amp;T"))
	assert.Equal(t, "Acme Corp", StripMarkup("**Acme**  Corp"))
	assert.Equal(t, "NYC Remote", StripMarkup("NYC<br>Remote"))
	assert.Equal(t, "plain", StripMarkup(" plain "))
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a b c", CleanText("a  b\n\tc "))
}
