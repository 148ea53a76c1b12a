package assistant

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/neurogrowth/internal/models"
	"github.com/julianstephens/neurogrowth/internal/screen"
	"github.com/julianstephens/neurogrowth/internal/storage"
)

type fakeChatter struct {
	calls int
	err   error
}

func (f *fakeChatter) Chat(_ context.Context, _ int, message string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "echo: " + message, nil
}

func newStore(t *testing.T) *storage.JSONStore {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "state.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return store
}

func loaded(t *testing.T, m Model) Model {
	t.Helper()
	m, _ = m.Update(m.Load()())
	if m.ctrl.State() != screen.Ready {
		t.Fatalf("state = %v, want Ready", m.ctrl.State())
	}
	return m
}

func TestSend_StoresExchange(t *testing.T) {
	store := newStore(t)
	chatter := &fakeChatter{}
	m := loaded(t, New(chatter, store, 5))

	m, cmd := m.Send("How do I study graphs?")
	if cmd == nil {
		t.Fatal("expected command")
	}
	if _, again := m.Send("again"); again != nil {
		t.Error("expected second send to be gated while in flight")
	}
	m, _ = m.Update(cmd())

	msgs := m.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != models.ChatRoleUser || msgs[1].Role != models.ChatRoleAssistant {
		t.Errorf("unexpected roles %q, %q", msgs[0].Role, msgs[1].Role)
	}
	if msgs[1].Content != "echo: How do I study graphs?" {
		t.Errorf("unexpected reply %q", msgs[1].Content)
	}

	stored, err := store.GetChatHistory(5, HistoryLimit)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 2 {
		t.Errorf("expected 2 stored messages, got %d", len(stored))
	}

	// a fresh screen restores the conversation
	reopened := loaded(t, New(chatter, store, 5))
	if len(reopened.Messages()) != 2 {
		t.Errorf("expected restored history, got %d messages", len(reopened.Messages()))
	}
}

func TestSend_FailureKeepsPrompt(t *testing.T) {
	store := newStore(t)
	m := loaded(t, New(&fakeChatter{err: errors.New("boom")}, store, 5))

	m, cmd := m.Send("hello")
	m, _ = m.Update(cmd())

	if len(m.Messages()) != 0 {
		t.Errorf("expected no messages after failure, got %d", len(m.Messages()))
	}
	if m.input.Value() != "hello" {
		t.Errorf("expected prompt to be restored, got %q", m.input.Value())
	}
	if m.ctrl.Notice() == nil {
		t.Error("expected failure notice")
	}
	m.SetSize(80, 20)
	if !strings.Contains(m.View(), "Sorry") {
		t.Error("expected error reply in view")
	}
}

func TestSend_EmptyIgnored(t *testing.T) {
	chatter := &fakeChatter{}
	m := loaded(t, New(chatter, newStore(t), 5))
	if _, cmd := m.Send("   "); cmd != nil {
		t.Error("expected no command for empty message")
	}
}

func TestClear(t *testing.T) {
	store := newStore(t)
	m := loaded(t, New(&fakeChatter{}, store, 5))
	m, cmd := m.Send("hello")
	m, _ = m.Update(cmd())

	m, _ = m.Clear()
	if len(m.Messages()) != 0 {
		t.Errorf("expected cleared messages, got %d", len(m.Messages()))
	}
	stored, _ := store.GetChatHistory(5, HistoryLimit)
	if len(stored) != 0 {
		t.Errorf("expected cleared store, got %d", len(stored))
	}
}

type failingClear struct {
	*storage.JSONStore
}

func (failingClear) ClearChatHistory(int) error {
	return errors.New("disk is read-only")
}

func TestClear_FailureIsShown(t *testing.T) {
	store := newStore(t)
	m := loaded(t, New(&fakeChatter{}, failingClear{store}, 5))
	m.SetSize(80, 20)
	m, cmd := m.Send("hello")
	m, _ = m.Update(cmd())

	m, _ = m.Clear()
	if m.ClearErr() == nil {
		t.Fatal("expected the clear failure to be kept")
	}
	if len(m.Messages()) != 2 {
		t.Errorf("messages should be kept after a failed clear, got %d", len(m.Messages()))
	}
	if !strings.Contains(m.View(), "Could not clear history") {
		t.Errorf("expected the failure in view:\n%s", m.View())
	}

	m, cmd = m.Send("again")
	if cmd == nil {
		t.Fatal("expected command")
	}
	m, _ = m.Update(cmd())
	if m.ClearErr() != nil {
		t.Error("expected the failure to be dismissed by the next exchange")
	}
}
