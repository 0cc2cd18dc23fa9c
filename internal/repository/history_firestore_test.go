package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"elderease/internal/model"

	"cloud.google.com/go/firestore"
)

// Runs against the Firestore emulator only.
func newEmulatorRepo(t *testing.T) HistoryRepository {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "elderease-test")
	if err != nil {
		t.Fatalf("firestore client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return NewFirestoreHistoryRepository(client, fmt.Sprintf("chats_%d", time.Now().UnixNano()))
}

func TestFirestoreHistoryRepository(t *testing.T) {
	repo := newEmulatorRepo(t)
	ctx := context.Background()

	empty, err := repo.Load(ctx, "missing")
	if err != nil {
		t.Fatalf("load missing: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty history, got %#v", empty)
	}

	if err := repo.Save(ctx, "user_1", sampleHistory()); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.Load(ctx, "user_1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 || got[0].Role != model.RoleUser || got[1].Role != model.RoleModel {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	if err := repo.Delete(ctx, "user_1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, "user_1"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	got, err = repo.Load(ctx, "user_1")
	if err != nil || len(got) != 0 {
		t.Fatalf("load after delete = %v, %v", got, err)
	}
}
