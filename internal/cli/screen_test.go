package cli

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/julianstephens/neurogrowth/internal/api"
	"github.com/julianstephens/neurogrowth/internal/constants"
	"github.com/julianstephens/neurogrowth/internal/models"
)

func TestFetch(t *testing.T) {
	ctx := newContext(t)

	got, err := Fetch(ctx, func(context.Context) ([]int, error) { return []int{1, 2}, nil })
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Fetch() = %v", got)
	}

	notFound := &api.Error{Status: http.StatusNotFound}
	if _, err := Fetch(ctx, func(context.Context) (int, error) { return 0, notFound }); !errors.Is(err, notFound) {
		t.Errorf("Fetch() error = %v, want the 404", err)
	}
}

func TestFetch_UnauthorizedClearsSession(t *testing.T) {
	ctx := newContext(t)
	if err := ctx.Session.SetSession("token", models.User{ID: 3, Role: constants.RoleStudent}); err != nil {
		t.Fatal(err)
	}

	_, err := Fetch(ctx, func(context.Context) (models.Prediction, error) {
		return models.Prediction{}, &api.Error{Status: http.StatusUnauthorized}
	})
	if !errors.Is(err, ErrSessionExpired) {
		t.Errorf("Fetch() error = %v, want ErrSessionExpired", err)
	}
	if _, ok := ctx.Session.GetSession(); ok {
		t.Error("session should be cleared after a 401")
	}
}

func TestSubmit(t *testing.T) {
	ctx := newContext(t)
	calls := 0

	got, err := Submit(ctx, func(context.Context) (string, error) {
		calls++
		return "saved", nil
	})
	if err != nil || got != "saved" {
		t.Errorf("Submit() = %q, %v", got, err)
	}

	failure := &api.Error{Status: http.StatusUnprocessableEntity, Detail: "study_hours too high"}
	got, err = Submit(ctx, func(context.Context) (string, error) {
		calls++
		return "ignored", failure
	})
	if !errors.Is(err, failure) {
		t.Errorf("Submit() error = %v, want the validation error", err)
	}
	if got != "" {
		t.Errorf("a failed submission should return the zero value, got %q", got)
	}
	if calls != 2 {
		t.Errorf("action calls = %d, want 2", calls)
	}
}
