package dailylog

import (
	"context"
	"sync"
	"testing"

	"github.com/julianstephens/neurogrowth/internal/api"
	"github.com/julianstephens/neurogrowth/internal/models"
	"github.com/julianstephens/neurogrowth/internal/screen"
)

type call struct {
	studentID int
	log       models.DailyLog
}

type fakeCreator struct {
	mu    sync.Mutex
	calls []call
	err   error
}

func (f *fakeCreator) Create(_ context.Context, studentID int, log models.DailyLog) (models.DailyLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{studentID: studentID, log: log})
	if f.err != nil {
		return models.DailyLog{}, f.err
	}
	log.ID = len(f.calls)
	log.StudentID = studentID
	return log, nil
}

func (f *fakeCreator) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestSubmit_SinglePostWithDefaults(t *testing.T) {
	fake := &fakeCreator{}
	m := New(fake, 7)

	m, cmd := m.Submit()
	if cmd == nil {
		t.Fatal("expected a submit command")
	}
	if !m.Submitting() {
		t.Error("expected submit control to be disabled while in flight")
	}

	// a second submit while in flight must not issue a request
	m, again := m.Submit()
	if again != nil {
		t.Error("expected no command for a second submit")
	}

	msg := cmd()
	if fake.count() != 1 {
		t.Fatalf("expected exactly one POST, got %d", fake.count())
	}

	got := fake.calls[0]
	if got.studentID != 7 {
		t.Errorf("student id = %d, want 7", got.studentID)
	}
	l := got.log
	if l.StudyHours != 4 || l.ProblemsSolved != 10 || l.Confidence != 3 || l.Mood != 3 {
		t.Errorf("unexpected log fields %+v", l)
	}
	if l.MockScore == nil || *l.MockScore != 65 {
		t.Errorf("expected mock score 65, got %v", l.MockScore)
	}

	m, follow := m.Update(msg)
	if m.Submitting() {
		t.Error("expected submit control to be re-enabled after settling")
	}
	if m.status != SavedMessage {
		t.Errorf("status = %q, want %q", m.status, SavedMessage)
	}
	if follow == nil {
		t.Fatal("expected follow-up command")
	}
	if fake.count() != 1 {
		t.Errorf("expected no further requests, got %d", fake.count())
	}
}

func TestSubmit_FailureReenables(t *testing.T) {
	fake := &fakeCreator{err: &api.Error{Status: 422, Detail: "bad"}}
	m := New(fake, 7)
	m.fields.StudyHours = "6"

	m, cmd := m.Submit()
	msg := cmd()
	m, _ = m.Update(msg)

	if m.ctrl.State() != screen.Ready {
		t.Errorf("state = %v, want Ready", m.ctrl.State())
	}
	if m.ctrl.Notice() == nil {
		t.Error("expected failure to be surfaced")
	}
	if m.fields.StudyHours != "6" {
		t.Errorf("expected form values to be kept, got %q", m.fields.StudyHours)
	}

	m, cmd = m.Submit()
	if cmd == nil {
		t.Fatal("expected resubmit to be allowed after failure")
	}
	cmd()
	if fake.count() != 2 {
		t.Errorf("expected 2 requests, got %d", fake.count())
	}
}

func TestSubmit_InvalidInputSendsNothing(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *Fields)
	}{
		{"hours not a number", func(f *Fields) { f.StudyHours = "lots" }},
		{"hours out of range", func(f *Fields) { f.StudyHours = "30" }},
		{"mock score out of range", func(f *Fields) { f.MockScore = "120" }},
		{"bad date", func(f *Fields) { f.Date = "03/01/2024" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeCreator{}
			m := New(fake, 7)
			tt.mutate(m.fields)

			m, cmd := m.Submit()
			if cmd != nil {
				t.Fatal("expected no request for invalid input")
			}
			if m.formErr == "" {
				t.Error("expected form error")
			}
			if m.Submitting() {
				t.Error("gate should stay open")
			}
		})
	}
}

func TestFieldsLog_EmptyMockScore(t *testing.T) {
	f := DefaultFields()
	f.MockScore = " "
	l, err := f.Log()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.MockScore != nil {
		t.Errorf("expected nil mock score, got %v", *l.MockScore)
	}
}

func TestUnmount_IgnoresResult(t *testing.T) {
	fake := &fakeCreator{}
	m := New(fake, 7)

	m, cmd := m.Submit()
	m.Unmount()
	msg := cmd()
	m, follow := m.Update(msg)
	if follow != nil {
		t.Error("expected resolution after unmount to be a no-op")
	}
	if m.status != "" {
		t.Errorf("unexpected status %q", m.status)
	}
}
