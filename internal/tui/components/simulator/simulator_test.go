package simulator

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/neurogrowth/internal/api"
	"github.com/julianstephens/neurogrowth/internal/models"
)

type fakeSimulator struct {
	reqs []api.SimulateRequest
	err  error
}

func (f *fakeSimulator) Simulate(_ context.Context, req api.SimulateRequest) (models.Prediction, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return models.Prediction{}, f.err
	}
	return models.Prediction{
		PredictedScore:      60 + req.Adjustments["study_hours"]*5,
		BurnoutRisk:         0.3,
		ImprovementVelocity: 1,
	}, nil
}

func TestAdjust_ClampsToRange(t *testing.T) {
	m := New(&fakeSimulator{}, 1)

	for i := 0; i < 20; i++ {
		m.Adjust(0, 1)
	}
	if got := m.Adjustments()["study_hours"]; got != 4 {
		t.Errorf("study_hours = %v, want 4", got)
	}
	for i := 0; i < 40; i++ {
		m.Adjust(0, -1)
	}
	if got := m.Adjustments()["study_hours"]; got != -4 {
		t.Errorf("study_hours = %v, want -4", got)
	}

	m.Adjust(2, 1)
	if got := m.Adjustments()["mock_score"]; got != 5 {
		t.Errorf("mock_score = %v, want 5", got)
	}
}

func TestRun_ComputesDeltasAgainstBaseline(t *testing.T) {
	sim := &fakeSimulator{}
	m := New(sim, 9)
	m.SetBaseline(&models.Prediction{PredictedScore: 60, BurnoutRisk: 0.4, ImprovementVelocity: 0.5})
	m.Adjust(0, 2)

	m, cmd := m.Run()
	if cmd == nil {
		t.Fatal("expected command")
	}
	if _, again := m.Run(); again != nil {
		t.Error("expected second run to be gated")
	}
	m, _ = m.Update(cmd())

	if len(sim.reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(sim.reqs))
	}
	if sim.reqs[0].StudentID != 9 || sim.reqs[0].Adjustments["study_hours"] != 1 {
		t.Errorf("unexpected request %+v", sim.reqs[0])
	}

	r := m.Result()
	if r == nil {
		t.Fatal("expected result")
	}
	if r.Outcome.PredictedScore != 65 || r.Outcome.ScoreDelta != 5 {
		t.Errorf("unexpected outcome %+v", r.Outcome)
	}
	if r.Outcome.VelocityDelta != 0.5 {
		t.Errorf("velocity delta = %v, want 0.5", r.Outcome.VelocityDelta)
	}
}

func TestRun_FailureKeepsPreviousResult(t *testing.T) {
	sim := &fakeSimulator{}
	m := New(sim, 9)
	m, cmd := m.Run()
	m, _ = m.Update(cmd())
	first := m.Result()

	sim.err = errors.New("down")
	m, cmd = m.Run()
	m, _ = m.Update(cmd())

	if m.Result() != first {
		t.Error("expected previous result to be kept on failure")
	}
	if m.ctrl.Notice() == nil {
		t.Error("expected failure notice")
	}
}

func TestReset(t *testing.T) {
	m := New(&fakeSimulator{}, 1)
	m.Adjust(1, 3)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("0")})
	for k, v := range m.Adjustments() {
		if v != 0 {
			t.Errorf("%s = %v after reset, want 0", k, v)
		}
	}
}
