// Package clitest builds command contexts against a fake backend for tests.
package clitest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/julianstephens/neurogrowth/internal/cli"
	"github.com/julianstephens/neurogrowth/internal/config"
	"github.com/julianstephens/neurogrowth/internal/constants"
	"github.com/julianstephens/neurogrowth/internal/models"
	"github.com/julianstephens/neurogrowth/internal/storage"
)

// New returns a context backed by a JSON state store in a temp dir and a
// backend served by handler. Command output is captured in the buffer.
func New(t testing.TB, handler http.Handler) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	cfg := config.Default()
	cfg.State = filepath.Join(dir, "state.json")
	cfg.Dir = dir
	cfg.APIURL = srv.URL

	store := storage.NewJSONStore(cfg.State)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	ctx := cli.NewContext(cfg, store)
	if err := ctx.Open(); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	var out bytes.Buffer
	ctx.Out = &out
	return ctx, &out
}

// Login stores a session for user
func Login(t testing.TB, ctx *cli.Context, user models.User) {
	t.Helper()
	if err := ctx.Session.SetSession("test-token", user); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}
}

func Student() models.User {
	gpa := 8.5
	return models.User{
		ID:         3,
		Name:       "Asha Rao",
		Email:      "asha@example.com",
		Role:       constants.RoleStudent,
		CareerGoal: "ML Engineer",
		TargetGPA:  &gpa,
	}
}

func Admin() models.User {
	return models.User{ID: 1, Name: "Admin", Email: "admin@example.com", Role: constants.RoleAdmin}
}

// JSON writes v with the given status
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Detail writes a backend error body
func Detail(w http.ResponseWriter, status int, detail string) {
	JSON(w, status, map[string]string{"detail": detail})
}
