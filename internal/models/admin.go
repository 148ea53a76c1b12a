package models

import "github.com/julianstephens/neurogrowth/internal/constants"

// PredictionSnapshot is the short prediction summary attached to admin student rows
type PredictionSnapshot struct {
	PredictedScore float64 `json:"predicted_score"`
	BurnoutRisk    float64 `json:"burnout_risk"`
}

// StudentSummary is one row of the admin student list
type StudentSummary struct {
	ID               int                 `json:"id"`
	Name             string              `json:"name"`
	Email            string              `json:"email"`
	Role             constants.Role      `json:"role"`
	TargetGPA        *float64            `json:"target_gpa"`
	CareerGoal       string              `json:"career_goal"`
	LogCount         int                 `json:"log_count"`
	LatestPrediction *PredictionSnapshot `json:"latest_prediction"`
}

// ClusterPoint is one student projected onto the first two principal components
type ClusterPoint struct {
	StudentID int           `json:"student_id"`
	Name      string        `json:"name"`
	X         float64       `json:"x"`
	Y         float64       `json:"y"`
	Cluster   int           `json:"cluster"`
	Style     LearningStyle `json:"style"`
}

// Clustering is the admin learning-pattern clustering payload
type Clustering struct {
	ClusterLabels     map[string]int           `json:"cluster_labels"`
	PCAData           []ClusterPoint           `json:"pca_data"`
	ClusterInfo       map[string]LearningStyle `json:"cluster_info"`
	ExplainedVariance []float64                `json:"explained_variance,omitempty"`
}

// RiskEntry is one cell of the burnout risk heatmap
type RiskEntry struct {
	StudentID           int     `json:"student_id"`
	Name                string  `json:"name"`
	BurnoutRisk         float64 `json:"burnout_risk"`
	PredictedScore      float64 `json:"predicted_score"`
	ImprovementVelocity float64 `json:"improvement_velocity"`
}

type DistributionBucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// PerformanceDistribution is the predicted score histogram across students
type PerformanceDistribution struct {
	Distribution  []DistributionBucket `json:"distribution"`
	TotalStudents int                  `json:"total_students"`
	AvgScore      float64              `json:"avg_score"`
}

// RetrainResult is returned after triggering model retraining
type RetrainResult struct {
	Message      string `json:"message"`
	StudentsUsed int    `json:"students_used"`
}

// AdminOverview groups the four admin read payloads
type AdminOverview struct {
	Students     []StudentSummary
	Clustering   Clustering
	Risk         []RiskEntry
	Distribution PerformanceDistribution
}
