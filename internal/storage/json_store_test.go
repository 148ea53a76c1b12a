package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/julianstephens/neurogrowth/internal/models"
)

func setupJSONStore(t *testing.T) *JSONStore {
	t.Helper()
	store := NewJSONStore(filepath.Join(t.TempDir(), "state", "neurogrowth.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	return store
}

func TestJSONStoreKeyValue(t *testing.T) {
	store := setupJSONStore(t)

	if _, err := store.Get("token"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() on empty store error = %v, want ErrNotFound", err)
	}

	if err := store.Set("token", "abc"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := store.Set("user", `{"id":1}`); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	reloaded := NewJSONStore(store.GetConfigPath())
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	got, err := reloaded.Get("token")
	if err != nil || got != "abc" {
		t.Errorf("Get(token) = %q, %v; want abc", got, err)
	}

	keys, err := reloaded.Keys()
	if err != nil {
		t.Fatalf("Keys() failed: %v", err)
	}
	if len(keys) != 2 || keys[0] != "token" || keys[1] != "user" {
		t.Errorf("Keys() = %v, want [token user]", keys)
	}

	if err := reloaded.Delete("token"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := reloaded.Get("token"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
	}
	if err := reloaded.Delete("missing"); err != nil {
		t.Errorf("Delete() of missing key should be a no-op, got %v", err)
	}
}

func TestJSONStoreLoadUninitialized(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "missing.json"))
	if err := store.Load(); err == nil {
		t.Error("Load() on missing file should fail")
	}
}

func TestJSONStoreChatHistory(t *testing.T) {
	store := setupJSONStore(t)

	for i, content := range []string{"hi", "hello", "how am I doing?", "great"} {
		role := models.ChatRoleUser
		if i%2 == 1 {
			role = models.ChatRoleAssistant
		}
		if _, err := store.AppendChatMessage(models.ChatMessage{StudentID: 1, Role: role, Content: content}); err != nil {
			t.Fatalf("AppendChatMessage() failed: %v", err)
		}
	}
	if _, err := store.AppendChatMessage(models.ChatMessage{StudentID: 2, Role: models.ChatRoleUser, Content: "other"}); err != nil {
		t.Fatalf("AppendChatMessage() failed: %v", err)
	}

	history, err := store.GetChatHistory(1, 2)
	if err != nil {
		t.Fatalf("GetChatHistory() failed: %v", err)
	}
	if len(history) != 2 || history[0].Content != "how am I doing?" || history[1].Content != "great" {
		t.Errorf("GetChatHistory(1, 2) = %+v", history)
	}

	all, _ := store.GetChatHistory(1, 0)
	if len(all) != 4 {
		t.Errorf("expected 4 messages, got %d", len(all))
	}

	if err := store.ClearChatHistory(1); err != nil {
		t.Fatalf("ClearChatHistory() failed: %v", err)
	}
	all, _ = store.GetChatHistory(1, 0)
	if len(all) != 0 {
		t.Errorf("expected empty history after clear, got %d", len(all))
	}
	other, _ := store.GetChatHistory(2, 0)
	if len(other) != 1 {
		t.Errorf("clear must not touch other students, got %d", len(other))
	}
}
