package localstore

import (
	"testing"
)

func TestStore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if v, err := s.Get("elderEaseUserId"); err != nil || v != "" {
		t.Fatalf("missing key = %q, %v", v, err)
	}
	if err := s.Set("elderEaseUserId", "user_1_abc"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set("theme", "dark"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// values survive a restart
	s, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if v, _ := s.Get("elderEaseUserId"); v != "user_1_abc" {
		t.Fatalf("user id = %q", v)
	}
	if v, _ := s.Get("theme"); v != "dark" {
		t.Fatalf("theme = %q", v)
	}
}
