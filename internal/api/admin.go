package api

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/neurogrowth/internal/models"
)

// AdminAPI groups the /admin routes
type AdminAPI struct{ c *Client }

func (a AdminAPI) Students(ctx context.Context) ([]models.StudentSummary, error) {
	return doJSON[[]models.StudentSummary](ctx, a.c, http.MethodGet, "/admin/students", nil, nil)
}

func (a AdminAPI) Clustering(ctx context.Context) (models.Clustering, error) {
	return doJSON[models.Clustering](ctx, a.c, http.MethodGet, "/admin/clustering", nil, nil)
}

func (a AdminAPI) RiskHeatmap(ctx context.Context) ([]models.RiskEntry, error) {
	return doJSON[[]models.RiskEntry](ctx, a.c, http.MethodGet, "/admin/risk-heatmap", nil, nil)
}

func (a AdminAPI) PerformanceDistribution(ctx context.Context) (models.PerformanceDistribution, error) {
	return doJSON[models.PerformanceDistribution](ctx, a.c, http.MethodGet, "/admin/performance-distribution", nil, nil)
}

// Retrain triggers the backend model retraining pipeline
func (a AdminAPI) Retrain(ctx context.Context) (models.RetrainResult, error) {
	return doJSON[models.RetrainResult](ctx, a.c, http.MethodPost, "/admin/retrain", nil, nil)
}

// Overview fetches the four admin read endpoints concurrently. The first
// failure cancels the remaining requests and is returned.
func (a AdminAPI) Overview(ctx context.Context) (models.AdminOverview, error) {
	var out models.AdminOverview
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		students, err := a.Students(gctx)
		out.Students = students
		return err
	})
	g.Go(func() error {
		clustering, err := a.Clustering(gctx)
		out.Clustering = clustering
		return err
	})
	g.Go(func() error {
		risk, err := a.RiskHeatmap(gctx)
		out.Risk = risk
		return err
	})
	g.Go(func() error {
		dist, err := a.PerformanceDistribution(gctx)
		out.Distribution = dist
		return err
	})

	if err := g.Wait(); err != nil {
		return models.AdminOverview{}, err
	}
	return out, nil
}
