package widget

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"elderease/internal/apiclient"
	"elderease/internal/catalog"
	"elderease/internal/intent"
	"elderease/internal/model"
	"elderease/pkg/log"
)

// DefaultStatusRevertDelay is how long a transient status stays before "ready" returns.
const DefaultStatusRevertDelay = 3 * time.Second

// Options configures a Controller. Backend, Renderer and Store are required.
type Options struct {
	Backend     Backend
	Renderer    Renderer
	Store       LocalStore
	Recognizer  Recognizer
	Synthesizer Synthesizer
	Locale      model.Locale
	// StatusRevertDelay defaults to DefaultStatusRevertDelay.
	StatusRevertDelay time.Duration
}

// Session is the per-window state of the widget.
type Session struct {
	UserID    string
	Locale    model.Locale
	Theme     Theme
	Recording bool
}

// Controller reacts to user actions and keeps the UI, the conversation and the
// backend in step.
type Controller struct {
	backend  Backend
	renderer Renderer
	store    LocalStore
	speech   *SpeechBridge
	state    *State

	revertDelay time.Duration

	mu            sync.Mutex
	session       Session
	cancelCapture context.CancelFunc
	revertTimer   *time.Timer

	wg sync.WaitGroup
}

// NewController creates a Controller and makes sure the user has an identifier.
func NewController(opts Options) (*Controller, error) {
	if opts.Backend == nil || opts.Renderer == nil || opts.Store == nil {
		return nil, errors.New("widget: backend, renderer and store are required")
	}
	userID, err := EnsureUserID(opts.Store, time.Now())
	if err != nil {
		return nil, err
	}
	delay := opts.StatusRevertDelay
	if delay <= 0 {
		delay = DefaultStatusRevertDelay
	}
	locale := opts.Locale
	if locale == "" {
		locale = model.LocaleEnglish
	}

	c := &Controller{
		backend:     opts.Backend,
		renderer:    opts.Renderer,
		store:       opts.Store,
		speech:      NewSpeechBridge(opts.Recognizer, opts.Synthesizer),
		revertDelay: delay,
		session:     Session{UserID: userID, Locale: locale, Theme: ThemeLight},
	}
	c.state = NewState(opts.Renderer.RenderTurn)
	return c, nil
}

// Session returns a snapshot of the session.
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// History returns the conversation on screen.
func (c *Controller) History() model.History {
	return c.state.History()
}

func (c *Controller) locale() model.Locale {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Locale
}

func (c *Controller) text(key catalog.Key) string {
	return catalog.Text(key, c.locale())
}

// Start restores the theme, draws the chrome and shows the saved conversation.
func (c *Controller) Start(ctx context.Context) {
	saved, err := c.store.Get(ThemeKey)
	if err != nil {
		log.Warnf("read theme preference: %v", err)
	}
	theme := ParseTheme(saved)

	c.mu.Lock()
	c.session.Theme = theme
	locale := c.session.Locale
	c.mu.Unlock()

	c.renderer.ApplyTheme(theme)
	c.renderer.ApplyChrome(catalog.ChromeFor(locale))
	c.loadAndDisplay(ctx)
}

// Submit sends text as the user's next message.
func (c *Controller) Submit(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	c.mu.Lock()
	locale := c.session.Locale
	userID := c.session.UserID
	c.mu.Unlock()

	if text == "" {
		warning := catalog.Text(catalog.NoInputWarning, locale)
		c.flashStatus(warning)
		c.speech.Speak(ctx, warning, locale)
		return
	}

	// the assistant gets the conversation as it was before this message
	prior := c.state.Persistable()
	userTurn := model.UserTurn(text)
	userIdx := c.state.Append(userTurn)

	c.renderer.ShowTyping(catalog.Text(catalog.TypingIndicator, locale))
	c.setStatus(catalog.Text(catalog.ThinkingStatus, locale))

	reply, err := c.backend.Chat(ctx, model.ChatRequest{
		Message:  text,
		History:  prior,
		Language: string(locale),
		UserID:   userID,
	})
	c.renderer.HideTyping()

	switch {
	case err == nil:
		c.state.Append(model.ModelTurn(reply))
		if err := c.backend.Save(ctx, userID, c.state.Persistable()); err != nil {
			log.Warnw("save chat history failed", "userId", userID, "error", err)
		}
	case errors.Is(err, apiclient.ErrUnreachable):
		log.Warnw("backend unreachable, answering locally", "error", err)
		reply = intent.Reply(text, locale)
		c.appendLocalExchange(userIdx, userTurn, reply)
	default:
		log.Errorw("backend returned an error", "userId", userID, "error", err)
		reply = catalog.Text(catalog.APIError, locale)
		c.appendLocalExchange(userIdx, userTurn, reply)
	}

	c.speech.Speak(ctx, reply, locale)
	c.flashStatus(catalog.Text(catalog.ResponseSentStatus, locale))
}

// appendLocalExchange shows a reply that did not come from the assistant. Neither it nor
// the question it answers is saved or sent as context later.
func (c *Controller) appendLocalExchange(userIdx int, userTurn model.Turn, reply string) {
	c.state.MarkLocal(userIdx, userTurn)
	c.state.Append(model.Turn{Role: model.RoleModel, Text: reply, Local: true})
}

// QuickAction submits the canned question at index i.
func (c *Controller) QuickAction(ctx context.Context, i int) error {
	actions := catalog.QuickActions()
	if i < 0 || i >= len(actions) {
		return fmt.Errorf("quick action %d out of range [0,%d)", i, len(actions))
	}
	c.Submit(ctx, actions[i].Question)
	return nil
}

// ToggleVoice starts a capture, or ends the running one.
func (c *Controller) ToggleVoice(ctx context.Context) {
	if !c.speech.CanListen() {
		c.renderer.Alert(c.text(catalog.VoiceNotAvailable))
		return
	}

	c.mu.Lock()
	if c.session.Recording {
		cancel := c.cancelCapture
		c.mu.Unlock()
		if cancel != nil {
			cancel()
		}
		return
	}
	captureCtx, cancel := context.WithCancel(ctx)
	c.session.Recording = true
	c.cancelCapture = cancel
	locale := c.session.Locale
	c.mu.Unlock()

	c.renderer.SetRecording(true)
	c.setStatus(catalog.Text(catalog.ListeningStatus, locale))

	transcripts := c.speech.Listen(captureCtx, locale)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()
		t, ok := <-transcripts
		c.endRecording()
		if !ok {
			return
		}
		c.handleTranscript(ctx, t)
	}()
}

func (c *Controller) endRecording() {
	c.mu.Lock()
	c.session.Recording = false
	c.cancelCapture = nil
	locale := c.session.Locale
	c.mu.Unlock()

	c.renderer.SetRecording(false)
	c.setStatus(catalog.Text(catalog.ReadyStatus, locale))
}

func (c *Controller) handleTranscript(ctx context.Context, t Transcript) {
	switch {
	case t.Err == nil:
		if strings.TrimSpace(t.Text) != "" {
			c.Submit(ctx, t.Text)
		}
	case errors.Is(t.Err, ErrPermissionDenied):
		c.renderer.Alert(c.text(catalog.MicPermissionDenied))
	case errors.Is(t.Err, ErrNoSpeech):
		log.Warnf("no speech detected")
	case errors.Is(t.Err, context.Canceled):
		// stopped by the user
	default:
		log.Errorw("speech recognition error", "error", t.Err)
		c.renderer.Alert(fmt.Sprintf(c.text(catalog.SpeechError), t.Err))
	}
}

// ToggleLanguage switches locale and redraws the saved conversation. Earlier messages
// are shown as they were written; nothing is translated.
func (c *Controller) ToggleLanguage(ctx context.Context) {
	c.mu.Lock()
	c.session.Locale = c.session.Locale.Toggle()
	locale := c.session.Locale
	c.mu.Unlock()

	c.renderer.ClearMessages()
	c.renderer.ApplyChrome(catalog.ChromeFor(locale))
	c.setStatus(catalog.Text(catalog.ReadyStatus, locale))
	c.loadAndDisplay(ctx)
}

// Clear wipes the conversation on screen, locally and in the backend.
func (c *Controller) Clear(ctx context.Context) {
	c.mu.Lock()
	locale := c.session.Locale
	userID := c.session.UserID
	c.mu.Unlock()

	c.renderer.ClearMessages()
	c.state.Reset()
	if err := c.backend.Clear(ctx, userID); err != nil {
		log.Warnw("clear chat history failed", "userId", userID, "error", err)
	}

	greeting, instructions := catalog.WelcomeText(locale)
	c.renderer.ShowWelcome(greeting, instructions)
	c.setStatus(catalog.Text(catalog.ReadyStatus, locale))
	c.speech.Speak(ctx, greeting, locale)
}

// ToggleTheme flips between light and dark and remembers the choice on this device.
func (c *Controller) ToggleTheme() Theme {
	c.mu.Lock()
	c.session.Theme = c.session.Theme.Toggle()
	theme := c.session.Theme
	c.mu.Unlock()

	if err := c.store.Set(ThemeKey, string(theme)); err != nil {
		log.Warnf("save theme preference: %v", err)
	}
	c.renderer.ApplyTheme(theme)
	return theme
}

// loadAndDisplay replaces the conversation with the saved one and draws it in one go.
func (c *Controller) loadAndDisplay(ctx context.Context) {
	c.mu.Lock()
	locale := c.session.Locale
	userID := c.session.UserID
	c.mu.Unlock()

	c.renderer.ClearMessages()
	history, err := c.backend.Load(ctx, userID)
	if err != nil {
		log.Warnw("load chat history failed", "userId", userID, "error", err)
		history = nil
	}
	c.state.Replace(history)

	shown := c.state.History()
	if len(shown) == 0 {
		greeting, instructions := catalog.WelcomeText(locale)
		c.renderer.ShowWelcome(greeting, instructions)
		c.speech.Speak(ctx, greeting, locale)
	} else {
		for _, t := range shown {
			c.renderer.RenderTurn(t)
		}
	}
	c.setStatus(catalog.Text(catalog.ReadyStatus, locale))
}

// setStatus shows a status that stays until replaced.
func (c *Controller) setStatus(text string) {
	c.mu.Lock()
	if c.revertTimer != nil {
		c.revertTimer.Stop()
		c.revertTimer = nil
	}
	c.mu.Unlock()
	c.renderer.SetStatus(text)
}

// flashStatus shows a status that falls back to "ready" after the revert delay,
// unless a capture is running by then.
func (c *Controller) flashStatus(text string) {
	c.renderer.SetStatus(text)

	c.mu.Lock()
	if c.revertTimer != nil {
		c.revertTimer.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(c.revertDelay, func() {
		c.mu.Lock()
		if c.revertTimer != timer || c.session.Recording {
			c.mu.Unlock()
			return
		}
		c.revertTimer = nil
		locale := c.session.Locale
		c.mu.Unlock()
		c.renderer.SetStatus(catalog.Text(catalog.ReadyStatus, locale))
	})
	c.revertTimer = timer
	c.mu.Unlock()
}

// Close ends any capture and speech and waits for background work.
func (c *Controller) Close() {
	c.mu.Lock()
	cancel := c.cancelCapture
	if c.revertTimer != nil {
		c.revertTimer.Stop()
		c.revertTimer = nil
	}
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	c.speech.Stop()
	c.wg.Wait()
}
