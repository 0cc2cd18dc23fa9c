package widget

import (
	"context"

	"elderease/internal/model"
	"elderease/pkg/log"
)

// Utterance settings tuned for elderly listeners.
const (
	SpeechRate  = 0.8
	SpeechPitch = 1.1
)

// SpeechBridge ties a recognizer and a synthesizer to the active locale.
// Either side may be nil.
type SpeechBridge struct {
	recognizer  Recognizer
	synthesizer Synthesizer
}

// NewSpeechBridge creates a SpeechBridge.
func NewSpeechBridge(recognizer Recognizer, synthesizer Synthesizer) *SpeechBridge {
	return &SpeechBridge{recognizer: recognizer, synthesizer: synthesizer}
}

// CanListen reports whether speech input is available.
func (b *SpeechBridge) CanListen() bool {
	return b.recognizer != nil
}

// Listen starts one capture in locale. Without a recognizer the returned channel
// yields ErrSpeechUnavailable.
func (b *SpeechBridge) Listen(ctx context.Context, locale model.Locale) <-chan Transcript {
	if b.recognizer == nil {
		ch := make(chan Transcript, 1)
		ch <- Transcript{Err: ErrSpeechUnavailable}
		close(ch)
		return ch
	}
	return b.recognizer.Capture(ctx, locale.SpeechTag())
}

// Speak reads text aloud in locale, cutting off anything still being spoken.
// Failures are logged; speech is never essential.
func (b *SpeechBridge) Speak(ctx context.Context, text string, locale model.Locale) {
	if b.synthesizer == nil || text == "" {
		return
	}
	b.synthesizer.Cancel()
	err := b.synthesizer.Speak(ctx, Utterance{
		Text:  text,
		Lang:  locale.SpeechTag(),
		Rate:  SpeechRate,
		Pitch: SpeechPitch,
	})
	if err != nil {
		log.Warnf("speech synthesis failed: %v", err)
	}
}

// Stop cancels any ongoing speech.
func (b *SpeechBridge) Stop() {
	if b.synthesizer != nil {
		b.synthesizer.Cancel()
	}
}
