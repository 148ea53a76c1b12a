package dashboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/julianstephens/neurogrowth/internal/api"
	"github.com/julianstephens/neurogrowth/internal/logger"
	"github.com/julianstephens/neurogrowth/internal/models"
)

// Source is the subset of the API client the aggregator needs
type Source interface {
	Dashboard(ctx context.Context, studentID int) (models.Dashboard, error)
	Predict(ctx context.Context, studentID int) (models.Prediction, error)
}

type clientSource struct{ c *api.Client }

func (s clientSource) Dashboard(ctx context.Context, studentID int) (models.Dashboard, error) {
	return s.c.Dashboards.Get(ctx, studentID)
}

func (s clientSource) Predict(ctx context.Context, studentID int) (models.Prediction, error) {
	return s.c.Predictions.Predict(ctx, studentID)
}

// FromClient adapts the API client to a Source
func FromClient(c *api.Client) Source {
	return clientSource{c: c}
}

// Partial is the result of a refresh. Base is always present; the prediction
// augmentation either succeeded (Augmentation) or failed (AugmentationErr).
type Partial struct {
	Base            models.Dashboard
	Augmentation    *models.Prediction
	AugmentationErr error
}

// Complete reports whether the augmentation step succeeded
func (p Partial) Complete() bool {
	return p.AugmentationErr == nil
}

// Aggregator fetches the composite dashboard and merges a fresh prediction into it
type Aggregator struct {
	src Source

	mu      sync.Mutex
	current *models.Dashboard
}

func New(src Source) *Aggregator {
	return &Aggregator{src: src}
}

// Load fetches the dashboard without augmentation and stores it as current
func (a *Aggregator) Load(ctx context.Context, studentID int) (models.Dashboard, error) {
	d, err := a.src.Dashboard(ctx, studentID)
	if err != nil {
		return models.Dashboard{}, fmt.Errorf("load dashboard: %w", err)
	}

	a.mu.Lock()
	a.current = &d
	a.mu.Unlock()
	return d, nil
}

// Refresh fetches the dashboard, then asks for a fresh prediction. A failed
// prediction keeps whatever prediction the dashboard already carried.
func (a *Aggregator) Refresh(ctx context.Context, studentID int) (Partial, error) {
	base, err := a.src.Dashboard(ctx, studentID)
	if err != nil {
		return Partial{}, fmt.Errorf("load dashboard: %w", err)
	}

	result := Partial{Base: base}
	pred, err := a.src.Predict(ctx, studentID)
	if err != nil {
		logger.Warn("Prediction refresh failed, showing cached prediction", "student_id", studentID, "error", err)
		result.AugmentationErr = err
	} else {
		result.Augmentation = &pred
		merged := pred
		result.Base.Prediction = &merged
	}

	a.mu.Lock()
	current := result.Base
	a.current = &current
	a.mu.Unlock()

	return result, nil
}

// Current returns the last dashboard fetched, if any
func (a *Aggregator) Current() (models.Dashboard, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return models.Dashboard{}, false
	}
	return *a.current, true
}

// Reset drops the cached dashboard, e.g. on logout
func (a *Aggregator) Reset() {
	a.mu.Lock()
	a.current = nil
	a.mu.Unlock()
}
