package model

// Locale is the active display and response language.
type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleHindi   Locale = "hi"
)

// ParseLocale maps a request value to a supported locale. Anything that is not Hindi is
// treated as English.
func ParseLocale(s string) Locale {
	if Locale(s) == LocaleHindi {
		return LocaleHindi
	}
	return LocaleEnglish
}

// Toggle returns the other supported locale.
func (l Locale) Toggle() Locale {
	if l == LocaleHindi {
		return LocaleEnglish
	}
	return LocaleHindi
}

// SpeechTag is the BCP-47 tag used by speech engines for the locale.
func (l Locale) SpeechTag() string {
	if l == LocaleHindi {
		return "hi-IN"
	}
	return "en-US"
}

// Name is the English name of the language, used in prompts.
func (l Locale) Name() string {
	if l == LocaleHindi {
		return "Hindi"
	}
	return "English"
}
