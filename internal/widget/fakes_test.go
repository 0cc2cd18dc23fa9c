package widget

import (
	"context"
	"errors"
	"sync"

	"elderease/internal/catalog"
	"elderease/internal/model"
)

type fakeRenderer struct {
	mu        sync.Mutex
	turns     model.History
	statuses  []string
	alerts    []string
	welcomes  []string
	chrome    []catalog.Chrome
	themes    []Theme
	recording []bool
	typing    bool
	clears    int
}

func (r *fakeRenderer) RenderTurn(t model.Turn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.turns = append(r.turns, t)
}

func (r *fakeRenderer) ShowTyping(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.typing = true
}

func (r *fakeRenderer) HideTyping() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.typing = false
}

func (r *fakeRenderer) SetStatus(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, text)
}

func (r *fakeRenderer) ClearMessages() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.turns = nil
	r.welcomes = nil
	r.clears++
}

func (r *fakeRenderer) ShowWelcome(greeting, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.welcomes = append(r.welcomes, greeting)
}

func (r *fakeRenderer) ApplyChrome(c catalog.Chrome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chrome = append(r.chrome, c)
}

func (r *fakeRenderer) ApplyTheme(t Theme) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.themes = append(r.themes, t)
}

func (r *fakeRenderer) SetRecording(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recording = append(r.recording, on)
}

func (r *fakeRenderer) Alert(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, text)
}

type renderSnapshot struct {
	turns     model.History
	statuses  []string
	alerts    []string
	welcomes  []string
	chrome    []catalog.Chrome
	themes    []Theme
	recording []bool
	typing    bool
	clears    int
}

func (r *fakeRenderer) snapshot() renderSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return renderSnapshot{
		turns:     append(model.History(nil), r.turns...),
		statuses:  append([]string(nil), r.statuses...),
		alerts:    append([]string(nil), r.alerts...),
		welcomes:  append([]string(nil), r.welcomes...),
		chrome:    append([]catalog.Chrome(nil), r.chrome...),
		themes:    append([]Theme(nil), r.themes...),
		recording: append([]bool(nil), r.recording...),
		typing:    r.typing,
		clears:    r.clears,
	}
}

func (r *fakeRenderer) lastStatus() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.statuses) == 0 {
		return ""
	}
	return r.statuses[len(r.statuses)-1]
}

// fakeBackend keeps saved histories in memory, the way the real service does.
type fakeBackend struct {
	mu        sync.Mutex
	docs      map[string]model.History
	chatReply string
	chatErr   error
	saveErr   error
	clearErr  error
	requests  []model.ChatRequest
	saves     int
	clears    int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{docs: map[string]model.History{}, chatReply: "📱 Open WhatsApp"}
}

func (b *fakeBackend) Chat(_ context.Context, req model.ChatRequest) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	req.History = append(model.History(nil), req.History...)
	b.requests = append(b.requests, req)
	if b.chatErr != nil {
		return "", b.chatErr
	}
	return b.chatReply, nil
}

func (b *fakeBackend) Save(_ context.Context, userID string, history model.History) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.saves++
	if b.saveErr != nil {
		return b.saveErr
	}
	b.docs[userID] = append(model.History(nil), history...)
	return nil
}

func (b *fakeBackend) Load(_ context.Context, userID string) (model.History, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append(model.History{}, b.docs[userID]...), nil
}

func (b *fakeBackend) Clear(_ context.Context, userID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clears++
	if b.clearErr != nil {
		return b.clearErr
	}
	delete(b.docs, userID)
	return nil
}

type memStore struct {
	mu     sync.Mutex
	values map[string]string
	err    error
}

func newMemStore() *memStore { return &memStore{values: map[string]string{}} }

func (s *memStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	return s.values[key], nil
}

func (s *memStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.values[key] = value
	return nil
}

// fakeRecognizer hands out the channel the test feeds.
type fakeRecognizer struct {
	mu    sync.Mutex
	langs []string
	ch    chan Transcript
}

func (r *fakeRecognizer) Capture(ctx context.Context, lang string) <-chan Transcript {
	r.mu.Lock()
	r.langs = append(r.langs, lang)
	r.ch = make(chan Transcript, 1)
	in := r.ch
	r.mu.Unlock()

	out := make(chan Transcript, 1)
	go func() {
		defer close(out)
		select {
		case t := <-in:
			out <- t
		case <-ctx.Done():
		}
	}()
	return out
}

func (r *fakeRecognizer) send(t Transcript) {
	r.mu.Lock()
	ch := r.ch
	r.mu.Unlock()
	ch <- t
}

type fakeSynthesizer struct {
	mu      sync.Mutex
	spoken  []Utterance
	cancels int
	err     error
}

func (s *fakeSynthesizer) Speak(_ context.Context, u Utterance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spoken = append(s.spoken, u)
	return s.err
}

func (s *fakeSynthesizer) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancels++
}

func (s *fakeSynthesizer) utterances() []Utterance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Utterance(nil), s.spoken...)
}

var errBoom = errors.New("boom")
