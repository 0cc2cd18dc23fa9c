// Package widget drives the chat UI: conversation state, the controller reacting to
// user actions, and the speech bridge. Rendering, transport, speech engines and local
// storage are ports so the same controller serves any front end.
package widget

import (
	"context"
	"errors"

	"elderease/internal/catalog"
	"elderease/internal/model"
)

// Speech errors reported through Transcript.Err.
var (
	ErrPermissionDenied  = errors.New("microphone permission denied")
	ErrNoSpeech          = errors.New("no speech detected")
	ErrSpeechUnavailable = errors.New("speech recognition not available")
)

// Renderer draws the UI. Methods may be called from background goroutines
// (status timers, voice capture), so implementations must be safe for concurrent use.
type Renderer interface {
	RenderTurn(turn model.Turn)
	ShowTyping(text string)
	HideTyping()
	SetStatus(text string)
	ClearMessages()
	ShowWelcome(greeting, instructions string)
	ApplyChrome(chrome catalog.Chrome)
	ApplyTheme(theme Theme)
	SetRecording(on bool)
	Alert(text string)
}

// Backend is the chat API as seen from the client.
type Backend interface {
	Chat(ctx context.Context, req model.ChatRequest) (string, error)
	Save(ctx context.Context, userID string, history model.History) error
	Load(ctx context.Context, userID string) (model.History, error)
	Clear(ctx context.Context, userID string) error
}

// Transcript is the outcome of one capture: either Text or Err.
type Transcript struct {
	Text string
	Err  error
}

// Recognizer turns speech into text.
type Recognizer interface {
	// Capture listens in the language tag lang. The channel yields at most one
	// Transcript and is then closed. Cancelling ctx ends the capture.
	Capture(ctx context.Context, lang string) <-chan Transcript
}

// Utterance is one piece of text to speak.
type Utterance struct {
	Text  string
	Lang  string
	Rate  float64
	Pitch float64
}

// Synthesizer turns text into speech.
type Synthesizer interface {
	// Speak starts speaking u and returns without waiting for it to finish.
	Speak(ctx context.Context, u Utterance) error
	// Cancel stops whatever is being spoken.
	Cancel()
}

// LocalStore is the small key/value store kept on the user's device.
// Get returns "" for a missing key.
type LocalStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Theme is the colour scheme of the UI.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme treats anything other than "dark" as light.
func ParseTheme(s string) Theme {
	if Theme(s) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
