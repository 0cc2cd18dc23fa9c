// Package catalog holds every user-facing phrase in English and Hindi.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"elderease/internal/model"

	"gopkg.in/yaml.v3"
)

// Key names a phrase.
type Key string

// Conversation phrases.
const (
	Welcome            Key = "welcome"
	ReadyStatus        Key = "readyStatus"
	ThinkingStatus     Key = "thinkingStatus"
	ResponseSentStatus Key = "responseSentStatus"
	ListeningStatus    Key = "listeningStatus"
	VoiceNotAvailable  Key = "voiceNotAvailable"
	NoInputWarning     Key = "noInputWarning"
	APIError           Key = "apiError"
	DefaultFallback    Key = "defaultFallback"
	WhatsApp           Key = "whatsapp"
	UPI                Key = "upi"
	PhoneIssues        Key = "phone_issues"
	Photo              Key = "photo"
	Emergency          Key = "emergency"
	Clean              Key = "clean"
)

// UI chrome phrases.
const (
	TypingIndicator     Key = "typingIndicator"
	InputPlaceholder    Key = "inputPlaceholder"
	QuickHelpTitle      Key = "quickHelpTitle"
	LanguageToggle      Key = "languageToggle"
	ThemeDark           Key = "themeDark"
	ThemeLight          Key = "themeLight"
	MicPermissionDenied Key = "micPermissionDenied"
	SpeechError         Key = "speechError"
)

// Phrase is one text in both locales.
type Phrase struct {
	EN string `yaml:"en"`
	HI string `yaml:"hi"`
}

// In returns the variant for locale.
func (p Phrase) In(locale model.Locale) string {
	if locale == model.LocaleHindi {
		return p.HI
	}
	return p.EN
}

// QuickAction is a canned question offered as a shortcut.
type QuickAction struct {
	Question string `yaml:"question"`
	Labels   Phrase `yaml:"label"`
}

// Label is the button text for locale.
func (q QuickAction) Label(locale model.Locale) string {
	return q.Labels.In(locale)
}

//go:embed phrases.yaml
var phrasesYAML []byte

type document struct {
	Phrases      map[Key]Phrase `yaml:"phrases"`
	QuickActions []QuickAction  `yaml:"quick_actions"`
}

var (
	phrases      map[Key]Phrase
	quickActions []QuickAction
)

func init() {
	doc, err := parse(phrasesYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: %v", err))
	}
	phrases = doc.Phrases
	quickActions = doc.QuickActions
}

func parse(data []byte) (*document, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse phrases: %w", err)
	}
	for key, p := range doc.Phrases {
		if strings.TrimSpace(p.EN) == "" || strings.TrimSpace(p.HI) == "" {
			return nil, fmt.Errorf("phrase %q is missing a locale variant", key)
		}
	}
	for i, q := range doc.QuickActions {
		if q.Question == "" || q.Labels.EN == "" || q.Labels.HI == "" {
			return nil, fmt.Errorf("quick action %d is incomplete", i)
		}
	}
	return &doc, nil
}

// Lookup returns the text for key in locale.
func Lookup(key Key, locale model.Locale) (string, bool) {
	p, ok := phrases[key]
	if !ok {
		return "", false
	}
	return p.In(locale), true
}

// Text is Lookup for keys known at compile time. It panics on an unknown key.
func Text(key Key, locale model.Locale) string {
	s, ok := Lookup(key, locale)
	if !ok {
		panic(fmt.Sprintf("catalog: unknown phrase %q", key))
	}
	return s
}

// Keys lists every phrase key in sorted order.
func Keys() []Key {
	keys := make([]Key, 0, len(phrases))
	for k := range phrases {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// WelcomeText splits the welcome phrase into its greeting line and the instructions below it.
func WelcomeText(locale model.Locale) (greeting, instructions string) {
	text := Text(Welcome, locale)
	greeting, instructions, _ = strings.Cut(text, "\n")
	return strings.TrimSpace(greeting), strings.TrimSpace(instructions)
}

// QuickActions returns the quick actions in display order.
func QuickActions() []QuickAction {
	out := make([]QuickAction, len(quickActions))
	copy(out, quickActions)
	return out
}

// Chrome is the set of UI labels for one locale.
type Chrome struct {
	Locale           model.Locale
	TypingIndicator  string
	InputPlaceholder string
	QuickHelpTitle   string
	LanguageToggle   string
	ThemeDark        string
	ThemeLight       string
	QuickActions     []string
}

// ChromeFor returns the UI labels for locale.
func ChromeFor(locale model.Locale) Chrome {
	labels := make([]string, 0, len(quickActions))
	for _, q := range quickActions {
		labels = append(labels, q.Label(locale))
	}
	return Chrome{
		Locale:           locale,
		TypingIndicator:  Text(TypingIndicator, locale),
		InputPlaceholder: Text(InputPlaceholder, locale),
		QuickHelpTitle:   Text(QuickHelpTitle, locale),
		LanguageToggle:   Text(LanguageToggle, locale),
		ThemeDark:        Text(ThemeDark, locale),
		ThemeLight:       Text(ThemeLight, locale),
		QuickActions:     labels,
	}
}
