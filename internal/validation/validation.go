package validation

import (
	"fmt"
	"math"
	"net/mail"
	"slices"
	"strings"
	"time"

	"github.com/julianstephens/neurogrowth/internal/constants"
	"github.com/julianstephens/neurogrowth/internal/models"
)

// Issue is one rejected field
type Issue struct {
	Field   string
	Message string
}

func (i Issue) String() string {
	return i.Field + ": " + i.Message
}

// Result collects the issues found in one payload
type Result struct {
	Issues []Issue
}

// HasIssues returns true if anything was rejected
func (r Result) HasIssues() bool {
	return len(r.Issues) > 0
}

func (r *Result) add(field, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Err returns the issues as a single error, or nil
func (r Result) Err() error {
	if !r.HasIssues() {
		return nil
	}
	return &Error{Issues: r.Issues}
}

// FormatReport returns a human-readable list of the issues
func (r Result) FormatReport() string {
	if !r.HasIssues() {
		return "No issues detected."
	}
	var b strings.Builder
	b.WriteString("Invalid input:\n")
	for _, issue := range r.Issues {
		fmt.Fprintf(&b, "- %s\n", issue)
	}
	return b.String()
}

// Error is returned by Result.Err
type Error struct {
	Issues []Issue
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = issue.String()
	}
	return strings.Join(msgs, "; ")
}

// DailyLog checks a log against the ranges the backend enforces
func DailyLog(l models.DailyLog) Result {
	var r Result

	if l.Date != "" {
		if _, err := time.Parse(constants.DateFormat, l.Date); err != nil {
			r.add("date", "must be in YYYY-MM-DD format")
		}
	}
	if math.IsNaN(l.StudyHours) || l.StudyHours < 0 || l.StudyHours > 24 {
		r.add("study_hours", "must be between 0 and 24")
	}
	if l.TopicsCompleted < 0 {
		r.add("topics_completed", "must not be negative")
	}
	if l.ProblemsSolved < 0 {
		r.add("problems_solved", "must not be negative")
	}
	if l.MockScore != nil && (*l.MockScore < 0 || *l.MockScore > 100) {
		r.add("mock_score", "must be between 0 and 100")
	}
	if l.Confidence < 1 || l.Confidence > 5 {
		r.add("confidence", "must be between 1 and 5")
	}
	if l.Mood < 1 || l.Mood > 5 {
		r.add("mood", "must be between 1 and 5")
	}
	if l.SkillPracticed != "" && !slices.Contains(constants.Skills, l.SkillPracticed) {
		r.add("skill_practiced", "must be one of %s", strings.Join(constants.Skills, ", "))
	}

	return r
}

// Adjustments checks simulator inputs against the factor ranges
func Adjustments(adj models.Adjustments) Result {
	var r Result
	for key, value := range adj {
		idx := slices.IndexFunc(models.SimulationFactors, func(f models.SimulationFactor) bool { return f.Key == key })
		if idx < 0 {
			r.add(key, "unknown factor")
			continue
		}
		f := models.SimulationFactors[idx]
		if value < f.Min || value > f.Max {
			r.add(key, "must be between %g and %g", f.Min, f.Max)
		}
	}
	// map iteration order is random
	slices.SortFunc(r.Issues, func(a, b Issue) int { return strings.Compare(a.Field, b.Field) })
	return r
}

// Registration checks the sign-up fields
func Registration(name, email, password string) Result {
	var r Result
	if strings.TrimSpace(name) == "" {
		r.add("name", "is required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		r.add("email", "must be a valid email address")
	}
	if len(password) < 6 {
		r.add("password", "must be at least 6 characters")
	}
	return r
}

// TargetGPA checks an optional target GPA
func TargetGPA(gpa *float64) Result {
	var r Result
	if gpa != nil && (*gpa < 0 || *gpa > 10) {
		r.add("target_gpa", "must be between 0 and 10")
	}
	return r
}
