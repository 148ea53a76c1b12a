package tui

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/neurogrowth/internal/api"
	"github.com/julianstephens/neurogrowth/internal/constants"
	"github.com/julianstephens/neurogrowth/internal/dashboard"
	"github.com/julianstephens/neurogrowth/internal/models"
	"github.com/julianstephens/neurogrowth/internal/session"
	"github.com/julianstephens/neurogrowth/internal/storage"
)

func newDeps(t *testing.T, handler http.Handler) Deps {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "state.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	sess := session.New(store, session.Options{})
	client := api.New(api.Config{BaseURL: srv.URL}, sess)
	return Deps{
		Session:   sess,
		Client:    client,
		Dashboard: dashboard.New(dashboard.FromClient(client)),
		History:   store,
	}
}

func unauthorized() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Could not validate credentials"}`))
	})
}

func student() models.User {
	return models.User{ID: 3, Name: "Asha Rao", Email: "asha@example.com", Role: constants.RoleStudent}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return out, cmd
}

func TestNewModel_LoggedOut(t *testing.T) {
	m := NewModel(newDeps(t, unauthorized()))
	if m.State() != constants.StateLogin {
		t.Errorf("state = %v, want login", m.State())
	}
	if _, ok := m.User(); ok {
		t.Error("expected no user")
	}
}

func TestNewModel_RoleRouting(t *testing.T) {
	tests := []struct {
		name string
		user models.User
		want constants.SessionState
		tabs int
	}{
		{"student", student(), constants.StateOverview, len(constants.StudentTabs)},
		{"admin", models.User{ID: 1, Name: "Root", Role: constants.RoleAdmin}, constants.StateAdminStudents, len(constants.AdminTabs)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newDeps(t, unauthorized())
			if err := deps.Session.SetSession("tok", tt.user); err != nil {
				t.Fatalf("SetSession failed: %v", err)
			}
			m := NewModel(deps)
			if m.State() != tt.want {
				t.Errorf("state = %v, want %v", m.State(), tt.want)
			}
			if len(m.tabs) != tt.tabs {
				t.Errorf("tabs = %d, want %d", len(m.tabs), tt.tabs)
			}
		})
	}
}

func TestUnauthorizedRoutesToLogin(t *testing.T) {
	deps := newDeps(t, unauthorized())
	if err := deps.Session.SetSession("expired", student()); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}
	m := NewModel(deps)

	msg := m.overviewModel.Load()()
	m, _ = update(t, m, msg)

	if m.State() != constants.StateLogin {
		t.Fatalf("state = %v, want login", m.State())
	}
	if _, ok := deps.Session.GetSession(); ok {
		t.Error("expected session to be cleared")
	}
	if m.banner != ExpiredMessage {
		t.Errorf("banner = %q", m.banner)
	}

	// the reload from a fresh store must also be logged out
	if err := deps.Session.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if deps.Session.Token() != "" {
		t.Error("expected token to be removed from storage")
	}
}

func TestLogin(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm failed: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("password") != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Incorrect email or password"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"bearer","user":{"id":3,"name":"Asha Rao","email":"asha@example.com","role":"student"}}`))
	})
	deps := newDeps(t, mux)

	t.Run("bad password", func(t *testing.T) {
		m := NewModel(deps)
		m.auth.fields.Email = "asha@example.com"
		m.auth.fields.Password = "wrong"

		m, _ = update(t, m, m.authenticate()())
		if m.State() != constants.StateLogin {
			t.Fatalf("state = %v, want login", m.State())
		}
		if m.auth.err != "Incorrect email or password" {
			t.Errorf("err = %q", m.auth.err)
		}
		if m.auth.fields.Email != "asha@example.com" {
			t.Error("expected email to be kept")
		}
	})

	t.Run("success", func(t *testing.T) {
		m := NewModel(deps)
		m.auth.fields.Email = "asha@example.com"
		m.auth.fields.Password = "secret1"

		m, cmd := update(t, m, m.authenticate()())
		if m.State() != constants.StateOverview {
			t.Fatalf("state = %v, want overview", m.State())
		}
		if cmd == nil {
			t.Error("expected screens to start loading")
		}
		sess, ok := deps.Session.GetSession()
		if !ok || sess.Token != "tok" || sess.User.ID != 3 {
			t.Errorf("session = %+v, %v", sess, ok)
		}
	})
}

func TestTabsWrap(t *testing.T) {
	deps := newDeps(t, unauthorized())
	if err := deps.Session.SetSession("tok", student()); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}
	m := NewModel(deps)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.State() != constants.StateSimulator {
		t.Errorf("state = %v, want simulator", m.State())
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.State() != constants.StateOverview {
		t.Errorf("state = %v, want overview", m.State())
	}
}

func TestQuitIgnoredWhileTyping(t *testing.T) {
	deps := newDeps(t, unauthorized())
	if err := deps.Session.SetSession("tok", student()); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}
	m := NewModel(deps)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.State() != constants.StateDailyLog {
		t.Fatalf("state = %v, want daily log", m.State())
	}
	m, _ = update(t, m, runes("q"))
	if m.quitting {
		t.Error("q should be typed into the form, not quit")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	_, cmd := update(t, m, runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestLogout(t *testing.T) {
	deps := newDeps(t, unauthorized())
	if err := deps.Session.SetSession("tok", student()); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}
	m := NewModel(deps)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	if m.State() != constants.StateLogin {
		t.Errorf("state = %v, want login", m.State())
	}
	if _, ok := deps.Session.GetSession(); ok {
		t.Error("expected session to be cleared")
	}
	if m.banner != "" {
		t.Errorf("banner = %q, want none", m.banner)
	}
}
