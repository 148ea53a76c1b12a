package models

// DailyLog is one day of self-reported study activity
type DailyLog struct {
	ID              int      `json:"id,omitempty"`
	StudentID       int      `json:"student_id,omitempty"`
	Date            string   `json:"date,omitempty"` // YYYY-MM-DD format, server defaults to today
	StudyHours      float64  `json:"study_hours"`
	TopicsCompleted int      `json:"topics_completed"`
	ProblemsSolved  int      `json:"problems_solved"`
	MockScore       *float64 `json:"mock_score"`
	Confidence      int      `json:"confidence"` // 1-5
	Mood            int      `json:"mood"`       // 1-5
	RevisionDone    bool     `json:"revision_done"`
	SkillPracticed  string   `json:"skill_practiced,omitempty"`
}

// MockScoreOr returns the mock score or the given default when unset
func (l DailyLog) MockScoreOr(def float64) float64 {
	if l.MockScore == nil {
		return def
	}
	return *l.MockScore
}

// DefaultDailyLog returns the values a new log form starts with
func DefaultDailyLog() DailyLog {
	mock := 65.0
	return DailyLog{
		StudyHours:      4,
		TopicsCompleted: 2,
		ProblemsSolved:  10,
		MockScore:       &mock,
		Confidence:      3,
		Mood:            3,
		SkillPracticed:  "DSA",
	}
}
