package overview

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/julianstephens/neurogrowth/internal/dashboard"
	"github.com/julianstephens/neurogrowth/internal/models"
	"github.com/julianstephens/neurogrowth/internal/screen"
)

type fakeLoader struct {
	result dashboard.Partial
	err    error
	calls  int
}

func (f *fakeLoader) Refresh(_ context.Context, _ int) (dashboard.Partial, error) {
	f.calls++
	return f.result, f.err
}

func sample() models.Dashboard {
	return models.Dashboard{
		Student: models.User{ID: 2, Name: "Meera Iyer", CareerGoal: "Data Scientist"},
		Streak:  4,
		Prediction: &models.Prediction{
			PredictedScore:    72,
			BurnoutRisk:       0.2,
			FeatureImportance: map[string]float64{"study_hours": 0.5},
		},
	}
}

func TestLoad(t *testing.T) {
	loader := &fakeLoader{result: dashboard.Partial{Base: sample()}}
	m := New(loader, 2)
	m.SetSize(100, 40)

	m, _ = m.Update(m.Load()())
	if m.State() != screen.Ready {
		t.Fatalf("state = %v, want Ready", m.State())
	}
	view := m.View()
	for _, want := range []string{"Welcome back, Meera!", "4 days", "Feature Importance"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestLoad_AugmentationWarning(t *testing.T) {
	loader := &fakeLoader{result: dashboard.Partial{Base: sample(), AugmentationErr: errors.New("model offline")}}
	m := New(loader, 2)
	m.SetSize(100, 40)

	m, _ = m.Update(m.Load()())
	if m.State() != screen.Ready {
		t.Fatalf("state = %v, want Ready", m.State())
	}
	if !strings.Contains(m.View(), "Could not refresh prediction") {
		t.Error("expected augmentation warning")
	}
}

func TestLoad_Failure(t *testing.T) {
	loader := &fakeLoader{err: errors.New("boom")}
	m := New(loader, 2)

	m, _ = m.Update(m.Load()())
	if m.State() != screen.Error {
		t.Fatalf("state = %v, want Error", m.State())
	}
	if !strings.Contains(m.View(), "Press r to retry.") {
		t.Error("expected retry hint")
	}
}

func TestLoad_StaleIgnored(t *testing.T) {
	loader := &fakeLoader{result: dashboard.Partial{Base: sample()}}
	m := New(loader, 2)

	stale := m.Load()()
	fresh := m.Load()()
	m, _ = m.Update(stale)
	if m.State() != screen.Loading {
		t.Fatalf("state = %v, stale result should be ignored", m.State())
	}
	m, _ = m.Update(fresh)
	if m.State() != screen.Ready {
		t.Errorf("state = %v, want Ready", m.State())
	}
}

func TestUnmountIgnoresResult(t *testing.T) {
	loader := &fakeLoader{result: dashboard.Partial{Base: sample()}}
	m := New(loader, 2)
	cmd := m.Load()
	m.Unmount()

	m, _ = m.Update(cmd())
	if m.State() == screen.Ready {
		t.Error("result applied after unmount")
	}
}
