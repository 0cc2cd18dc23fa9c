// Package prompt builds the persona preamble that steers the generative-language API.
//
// The preamble is a user turn describing the assistant followed by a model turn that
// acknowledges it. It exists only inside a proxy request: it is never stored, never
// rendered, and is stripped whenever it shows up in a history coming from elsewhere.
package prompt

import (
	"fmt"
	"strings"

	"elderease/internal/model"
)

const (
	// PersonaMarker starts every persona turn.
	PersonaMarker = "You are ElderEase, an AI assistant for elderly people in India."
	// AckMarker starts every acknowledgment turn. It stays English in both locales so
	// histories saved under either language can be filtered by the same marker.
	AckMarker = "Understood. I will provide simple, step-by-step tech assistance"
)

const personaTemplate = PersonaMarker + `
Answer in %s language.
Keep responses simple, step-by-step, and use emojis.
Focus on tech help for seniors.
If the user asks something completely unrelated to tech help for seniors, gently redirect them to tech assistance or suggest they contact a human for other needs.
Example: If user asks "What is the capital of France?", respond with something like "That's an interesting question! My main purpose is to help seniors with technology. Can I help you with WhatsApp or phone problems instead? 📱"`

const ackTemplate = AckMarker + " for seniors in India, responding in %s with emojis, and redirecting non-tech questions. How can I help?"

// SystemPair returns the persona and acknowledgment turns for the locale.
func SystemPair(locale model.Locale) model.History {
	return model.History{
		model.UserTurn(personaText(locale)),
		model.ModelTurn(fmt.Sprintf(ackTemplate, locale.Name())),
	}
}

// IsSystemTurn reports whether t is part of a system-instruction pair. A user turn
// counts only when it is exactly the persona text of a supported locale.
func IsSystemTurn(t model.Turn) bool {
	if t.Role == model.RoleModel {
		return strings.Contains(t.Text, AckMarker)
	}
	text := strings.TrimSpace(t.Text)
	if !strings.HasPrefix(text, PersonaMarker) {
		return false
	}
	for _, locale := range []model.Locale{model.LocaleEnglish, model.LocaleHindi} {
		if text == personaText(locale) {
			return true
		}
	}
	return false
}

func personaText(locale model.Locale) string {
	return fmt.Sprintf(personaTemplate, locale.Name())
}

// Strip returns h without any system-instruction turns. The input is not modified.
func Strip(h model.History) model.History {
	out := make(model.History, 0, len(h))
	for _, t := range h {
		if IsSystemTurn(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Compose prefixes h with exactly one system pair for locale.
func Compose(locale model.Locale, h model.History) model.History {
	clean := Strip(h)
	out := make(model.History, 0, len(clean)+2)
	out = append(out, SystemPair(locale)...)
	return append(out, clean...)
}
