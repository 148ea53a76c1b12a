package validation

import (
	"strings"
	"testing"

	"github.com/julianstephens/neurogrowth/internal/models"
)

func ptr(f float64) *float64 { return &f }

func TestDailyLog(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.DailyLog)
		fields []string
	}{
		{name: "defaults are valid", mutate: func(*models.DailyLog) {}},
		{name: "no mock score", mutate: func(l *models.DailyLog) { l.MockScore = nil }},
		{name: "study hours too high", mutate: func(l *models.DailyLog) { l.StudyHours = 25 }, fields: []string{"study_hours"}},
		{name: "negative study hours", mutate: func(l *models.DailyLog) { l.StudyHours = -1 }, fields: []string{"study_hours"}},
		{name: "mock score out of range", mutate: func(l *models.DailyLog) { l.MockScore = ptr(101) }, fields: []string{"mock_score"}},
		{name: "confidence zero", mutate: func(l *models.DailyLog) { l.Confidence = 0 }, fields: []string{"confidence"}},
		{name: "mood six", mutate: func(l *models.DailyLog) { l.Mood = 6 }, fields: []string{"mood"}},
		{name: "unknown skill", mutate: func(l *models.DailyLog) { l.SkillPracticed = "Juggling" }, fields: []string{"skill_practiced"}},
		{name: "bad date", mutate: func(l *models.DailyLog) { l.Date = "03/01/2026" }, fields: []string{"date"}},
		{
			name: "several problems",
			mutate: func(l *models.DailyLog) {
				l.ProblemsSolved = -1
				l.TopicsCompleted = -2
			},
			fields: []string{"topics_completed", "problems_solved"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := models.DefaultDailyLog()
			tt.mutate(&log)

			result := DailyLog(log)
			if len(result.Issues) != len(tt.fields) {
				t.Fatalf("DailyLog() issues = %v, want fields %v", result.Issues, tt.fields)
			}
			for i, field := range tt.fields {
				if result.Issues[i].Field != field {
					t.Errorf("issue %d field = %q, want %q", i, result.Issues[i].Field, field)
				}
			}
			if (result.Err() == nil) != (len(tt.fields) == 0) {
				t.Errorf("Err() = %v", result.Err())
			}
		})
	}
}

func TestAdjustments(t *testing.T) {
	result := Adjustments(models.ZeroAdjustments())
	if result.HasIssues() {
		t.Errorf("zero adjustments should be valid, got %v", result.Issues)
	}

	result = Adjustments(models.Adjustments{"study_hours": 5, "sleep": 1, "mood": -2})
	if len(result.Issues) != 2 {
		t.Fatalf("expected 2 issues, got %v", result.Issues)
	}
	if result.Issues[0].Field != "sleep" || result.Issues[1].Field != "study_hours" {
		t.Errorf("issues should be sorted by field, got %v", result.Issues)
	}
}

func TestRegistration(t *testing.T) {
	tests := []struct {
		name     string
		userName string
		email    string
		password string
		want     int
	}{
		{name: "valid", userName: "Ada", email: "ada@example.com", password: "secret1", want: 0},
		{name: "missing name", userName: " ", email: "ada@example.com", password: "secret1", want: 1},
		{name: "bad email", userName: "Ada", email: "ada", password: "secret1", want: 1},
		{name: "display name email", userName: "Ada", email: "Ada <ada@example.com>", password: "secret1", want: 1},
		{name: "short password", userName: "Ada", email: "ada@example.com", password: "abc", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Registration(tt.userName, tt.email, tt.password)
			if len(result.Issues) != tt.want {
				t.Errorf("Registration() issues = %v, want %d", result.Issues, tt.want)
			}
		})
	}
}

func TestTargetGPA(t *testing.T) {
	if r := TargetGPA(nil); r.HasIssues() {
		t.Error("nil GPA should be valid")
	}
	if r := TargetGPA(ptr(3.5)); r.HasIssues() {
		t.Error("3.5 should be valid")
	}
	if r := TargetGPA(ptr(11)); !r.HasIssues() {
		t.Error("11 should be rejected")
	}
}

func TestFormatReport(t *testing.T) {
	var r Result
	if got := r.FormatReport(); got != "No issues detected." {
		t.Errorf("FormatReport() = %q", got)
	}

	r = DailyLog(models.DailyLog{StudyHours: 30, Confidence: 3, Mood: 3})
	report := r.FormatReport()
	if !strings.Contains(report, "- study_hours: must be between 0 and 24") {
		t.Errorf("FormatReport() = %q", report)
	}
}
