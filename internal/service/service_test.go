package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"elderease/internal/model"
	"elderease/internal/prompt"
	"elderease/pkg/llm"
)

type fakeLLM struct {
	mu      sync.Mutex
	calls   int
	history model.History
	message string
	params  llm.GenerationParams
	reply   string
	err     error
}

func (f *fakeLLM) Chat(_ context.Context, history model.History, message string, gen llm.GenerationParams) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.history = history
	f.message = message
	f.params = gen
	return f.reply, f.err
}

type memoryRepo struct {
	mu   sync.Mutex
	docs map[string]model.History
	err  error
}

func newMemoryRepo() *memoryRepo { return &memoryRepo{docs: map[string]model.History{}} }

func (r *memoryRepo) Save(_ context.Context, userID string, history model.History) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.docs[userID] = append(model.History(nil), history...)
	return nil
}

func (r *memoryRepo) Load(_ context.Context, userID string) (model.History, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return r.docs[userID], nil
}

func (r *memoryRepo) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	delete(r.docs, userID)
	return nil
}

func TestChatService_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  model.ChatRequest
		want error
	}{
		{name: "empty message", req: model.ChatRequest{Message: "", UserID: "u"}, want: ErrEmptyMessage},
		{name: "blank message", req: model.ChatRequest{Message: "   ", UserID: "u"}, want: ErrEmptyMessage},
		{name: "missing user", req: model.ChatRequest{Message: "hi"}, want: ErrMissingUserID},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fake := &fakeLLM{reply: "never"}
			svc := NewChatService(fake, llm.GenerationParams{}, 0)
			if _, err := svc.Reply(context.Background(), tt.req); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if fake.calls != 0 {
				t.Fatalf("upstream called %d times on an invalid request", fake.calls)
			}
		})
	}
}

func TestChatService_Reply(t *testing.T) {
	t.Parallel()

	fake := &fakeLLM{reply: "📱 Open WhatsApp"}
	params := llm.GenerationParams{Temperature: 0.7, TopP: 0.95, TopK: 60, MaxTokens: 500}
	svc := NewChatService(fake, params, 0)

	history := append(prompt.SystemPair(model.LocaleEnglish), model.UserTurn("hello"), model.ModelTurn("hi"))
	reply, err := svc.Reply(context.Background(), model.ChatRequest{
		Message:  "how do I use WhatsApp?",
		History:  history,
		Language: "hi",
		UserID:   "user_1",
	})
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if reply != "📱 Open WhatsApp" {
		t.Fatalf("reply = %q", reply)
	}
	if fake.calls != 1 || fake.message != "how do I use WhatsApp?" || fake.params != params {
		t.Fatalf("unexpected upstream call: %+v", fake)
	}

	systemTurns := 0
	for _, turn := range fake.history {
		if prompt.IsSystemTurn(turn) {
			systemTurns++
		}
	}
	if systemTurns != 2 {
		t.Fatalf("forwarded %d system turns, want exactly one pair", systemTurns)
	}
	if fake.history[0].Text != prompt.SystemPair(model.LocaleHindi)[0].Text {
		t.Fatalf("pair not built for the request locale")
	}
	if len(fake.history) != 4 {
		t.Fatalf("forwarded history = %+v", fake.history)
	}
}

func TestChatService_CapsHistory(t *testing.T) {
	t.Parallel()

	fake := &fakeLLM{reply: "ok"}
	svc := NewChatService(fake, llm.GenerationParams{}, 2)
	history := model.History{model.UserTurn("1"), model.ModelTurn("2"), model.UserTurn("3"), model.ModelTurn("4")}
	if _, err := svc.Reply(context.Background(), model.ChatRequest{Message: "5", History: history, UserID: "u"}); err != nil {
		t.Fatalf("reply: %v", err)
	}
	if len(fake.history) != 4 || fake.history[2].Text != "3" {
		t.Fatalf("forwarded history = %+v", fake.history)
	}
}

func TestChatService_UpstreamError(t *testing.T) {
	t.Parallel()

	upstream := errors.New("quota exceeded")
	svc := NewChatService(&fakeLLM{err: upstream}, llm.GenerationParams{}, 0)
	_, err := svc.Reply(context.Background(), model.ChatRequest{Message: "hi", UserID: "u"})
	if !errors.Is(err, upstream) {
		t.Fatalf("err = %v, want wrapped upstream error", err)
	}
}

func TestHistoryService_RoundTrip(t *testing.T) {
	t.Parallel()

	svc := NewHistoryService(newMemoryRepo(), 50)
	ctx := context.Background()
	history := model.History{model.UserTurn("photo?"), model.ModelTurn("📸 tap the clip")}

	if err := svc.Save(ctx, "u", history); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := svc.Load(ctx, "u")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != len(history) {
		t.Fatalf("load = %+v", got)
	}
	for i := range history {
		if got[i] != history[i] {
			t.Fatalf("turn %d = %+v, want %+v", i, got[i], history[i])
		}
	}
}

func TestHistoryService_SaveStripsAndCaps(t *testing.T) {
	t.Parallel()

	repo := newMemoryRepo()
	svc := NewHistoryService(repo, 2)
	history := append(prompt.SystemPair(model.LocaleEnglish),
		model.UserTurn("a"), model.ModelTurn("b"),
		model.Turn{Role: model.RoleModel, Text: "fallback", Local: true},
		model.UserTurn("c"), model.ModelTurn("d"),
	)
	if err := svc.Save(context.Background(), "u", history); err != nil {
		t.Fatalf("save: %v", err)
	}
	stored := repo.docs["u"]
	if len(stored) != 2 || stored[0].Text != "c" || stored[1].Text != "d" {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestHistoryService_LoadUnknownAndClear(t *testing.T) {
	t.Parallel()

	svc := NewHistoryService(newMemoryRepo(), 0)
	ctx := context.Background()

	got, err := svc.Load(ctx, "nobody")
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("load unknown = %#v, %v", got, err)
	}

	if err := svc.Save(ctx, "u", model.History{model.UserTurn("x")}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := svc.Clear(ctx, "u"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := svc.Clear(ctx, "u"); err != nil {
		t.Fatalf("second clear: %v", err)
	}
	got, err = svc.Load(ctx, "u")
	if err != nil || len(got) != 0 {
		t.Fatalf("load after clear = %+v, %v", got, err)
	}
}

func TestHistoryService_StorageFault(t *testing.T) {
	t.Parallel()

	repo := newMemoryRepo()
	repo.err = errors.New("unavailable")
	svc := NewHistoryService(repo, 0)
	ctx := context.Background()

	if err := svc.Save(ctx, "u", nil); err == nil {
		t.Fatalf("save should fail")
	}
	if _, err := svc.Load(ctx, "u"); err == nil {
		t.Fatalf("load should fail")
	}
	if err := svc.Clear(ctx, "u"); err == nil {
		t.Fatalf("clear should fail")
	}
	if err := svc.Save(ctx, "", nil); !errors.Is(err, ErrMissingUserID) {
		t.Fatalf("empty id: %v", err)
	}
}
