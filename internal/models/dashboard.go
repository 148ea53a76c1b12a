package models

// LearningStyle describes a clustering bucket
type LearningStyle struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// StyleAssignment is the learning-style cluster a student was placed in
type StyleAssignment struct {
	Cluster int           `json:"cluster"`
	Style   LearningStyle `json:"style"`
}

// DashboardStats holds aggregate log statistics
type DashboardStats struct {
	TotalLogs     int     `json:"total_logs"`
	AvgStudyHours float64 `json:"avg_study_hours"`
	AvgMockScore  float64 `json:"avg_mock_score"`
}

// Dashboard is the composite payload shown on the overview screen
type Dashboard struct {
	Student       User             `json:"student"`
	DailyLogs     []DailyLog       `json:"daily_logs"`
	Prediction    *Prediction      `json:"prediction"`
	Roadmap       *Roadmap         `json:"roadmap"`
	LearningStyle *StyleAssignment `json:"learning_style"`
	Streak        int              `json:"streak"`
	Stats         DashboardStats   `json:"stats"`
}

// AvgStudyHours averages study hours over the logs in the payload
func (d Dashboard) AvgStudyHours() float64 {
	if len(d.DailyLogs) == 0 {
		return 0
	}
	var sum float64
	for _, l := range d.DailyLogs {
		sum += l.StudyHours
	}
	return sum / float64(len(d.DailyLogs))
}
