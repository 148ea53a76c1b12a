package models

// RoadmapTask is a single time-boxed activity within a roadmap day
type RoadmapTask struct {
	Time string `json:"time"`
	Task string `json:"task"`
	Type string `json:"type"`
}

// RoadmapDay is one day of the 30-day plan
type RoadmapDay struct {
	Day            int           `json:"day"`
	Week           int           `json:"week"`
	FocusArea      string        `json:"focus_area"`
	StudyHours     float64       `json:"study_hours"`
	ProblemsTarget int           `json:"problems_target"`
	Tasks          []RoadmapTask `json:"tasks"`
}

type Milestone struct {
	Week        int    `json:"week"`
	Target      string `json:"target"`
	Focus       string `json:"focus"`
	Deliverable string `json:"deliverable"`
}

type MockTest struct {
	Week            int    `json:"week"`
	Date            string `json:"date"`
	Type            string `json:"type"`
	DurationMinutes int    `json:"duration_minutes"`
	Focus           string `json:"focus"`
}

type SkillGoal struct {
	Skill     string   `json:"skill"`
	Priority  string   `json:"priority"`
	StartWeek int      `json:"start_week"`
	Target    string   `json:"target"`
	Resources []string `json:"resources"`
}

type RevisionCycle struct {
	Subject string `json:"subject"`
	Cycle1  string `json:"cycle_1"`
	Cycle2  string `json:"cycle_2"`
	Cycle3  string `json:"cycle_3"`
	Cycle4  string `json:"cycle_4"`
	Method  string `json:"method"`
}

// Dates returns the scheduled revision dates in order
func (c RevisionCycle) Dates() []string {
	return []string{c.Cycle1, c.Cycle2, c.Cycle3, c.Cycle4}
}

// Roadmap is a generated 30-day study plan. A student has at most one current roadmap.
type Roadmap struct {
	Summary          string          `json:"summary"`
	LearningStyle    string          `json:"learning_style"`
	IntensityLevel   string          `json:"intensity_level"`
	DurationDays     int             `json:"duration_days,omitempty"`
	StartDate        string          `json:"start_date,omitempty"`
	EndDate          string          `json:"end_date,omitempty"`
	DailyPlan        []RoadmapDay    `json:"daily_plan"`
	WeeklyMilestones []Milestone     `json:"weekly_milestones"`
	MockTestSchedule []MockTest      `json:"mock_test_schedule"`
	SkillGrowthPlan  []SkillGoal     `json:"skill_growth_plan"`
	RevisionCycles   []RevisionCycle `json:"revision_cycles"`
}

// Weeks returns the number of distinct weeks covered by the daily plan
func (r Roadmap) Weeks() int {
	max := 0
	for _, d := range r.DailyPlan {
		if d.Week > max {
			max = d.Week
		}
	}
	return max
}

// DaysInWeek returns the daily plan entries that belong to the given week
func (r Roadmap) DaysInWeek(week int) []RoadmapDay {
	var days []RoadmapDay
	for _, d := range r.DailyPlan {
		if d.Week == week {
			days = append(days, d)
		}
	}
	return days
}
