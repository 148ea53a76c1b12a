package models

// Prediction is a backend-computed performance forecast for one student
type Prediction struct {
	PredictedScore      float64            `json:"predicted_score"`
	BurnoutRisk         float64            `json:"burnout_risk"` // 0-1
	ImprovementVelocity float64            `json:"improvement_velocity"`
	ConfidenceLower     float64            `json:"confidence_lower"`
	ConfidenceUpper     float64            `json:"confidence_upper"`
	FeatureImportance   map[string]float64 `json:"feature_importance,omitempty"`
	GeneratedAt         string             `json:"generated_at,omitempty"`
}

// ConfidenceInterval returns the lower and upper bound of the predicted score
func (p Prediction) ConfidenceInterval() (float64, float64) {
	return p.ConfidenceLower, p.ConfidenceUpper
}

// Adjustments maps an input factor to a hypothetical per-day delta
type Adjustments map[string]float64

// SimulationResult is a hypothetical prediction and its difference from the baseline
type SimulationResult struct {
	Prediction
	ScoreDelta    float64 `json:"score_delta"`
	BurnoutDelta  float64 `json:"burnout_delta"`
	VelocityDelta float64 `json:"velocity_delta"`
}

// NewSimulationResult computes the deltas of a simulated prediction against a baseline.
// A nil baseline yields zero deltas.
func NewSimulationResult(simulated Prediction, baseline *Prediction) SimulationResult {
	res := SimulationResult{Prediction: simulated}
	if baseline != nil {
		res.ScoreDelta = simulated.PredictedScore - baseline.PredictedScore
		res.BurnoutDelta = simulated.BurnoutRisk - baseline.BurnoutRisk
		res.VelocityDelta = simulated.ImprovementVelocity - baseline.ImprovementVelocity
	}
	return res
}

// SimulationFactor describes one adjustable input of the what-if simulator
type SimulationFactor struct {
	Key   string
	Label string
	Min   float64
	Max   float64
	Step  float64
	Unit  string
}

// SimulationFactors lists the simulator inputs in display order
var SimulationFactors = []SimulationFactor{
	{Key: "study_hours", Label: "Study Hours", Min: -4, Max: 4, Step: 0.5, Unit: "hrs/day"},
	{Key: "problems_solved", Label: "Problems Solved", Min: -10, Max: 20, Step: 1, Unit: "/day"},
	{Key: "mock_score", Label: "Mock Score Base", Min: -20, Max: 20, Step: 5, Unit: "pts"},
	{Key: "confidence", Label: "Confidence", Min: -2, Max: 2, Step: 1, Unit: "level"},
	{Key: "mood", Label: "Mood", Min: -2, Max: 2, Step: 1, Unit: "level"},
}

// ZeroAdjustments returns an adjustment set with every factor at 0
func ZeroAdjustments() Adjustments {
	adj := make(Adjustments, len(SimulationFactors))
	for _, f := range SimulationFactors {
		adj[f.Key] = 0
	}
	return adj
}
