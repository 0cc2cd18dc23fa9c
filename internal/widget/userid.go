package widget

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Local store keys.
const (
	UserIDKey = "elderEaseUserId"
	ThemeKey  = "theme"
)

// NewUserID returns an identifier of the form user_<unix-millis>_<9 random chars>.
func NewUserID(now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("user_%d_%s", now.UnixMilli(), random)
}

// EnsureUserID returns the identifier kept in store, creating and storing one on first use.
func EnsureUserID(store LocalStore, now time.Time) (string, error) {
	id, err := store.Get(UserIDKey)
	if err != nil {
		return "", fmt.Errorf("read user id: %w", err)
	}
	if id != "" {
		return id, nil
	}
	id = NewUserID(now)
	if err := store.Set(UserIDKey, id); err != nil {
		return "", fmt.Errorf("store user id: %w", err)
	}
	return id, nil
}
