package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/neurogrowth/internal/api"
	"github.com/julianstephens/neurogrowth/internal/cli"
	"github.com/julianstephens/neurogrowth/internal/dashboard"
	"github.com/julianstephens/neurogrowth/internal/errors"
	"github.com/julianstephens/neurogrowth/internal/logger"
	"github.com/julianstephens/neurogrowth/internal/models"
	"github.com/julianstephens/neurogrowth/internal/render"
	"github.com/julianstephens/neurogrowth/internal/validation"
)

const chartWidth = 40

func printJSON(ctx *cli.Context, v any) error {
	enc := json.NewEncoder(ctx.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type PredictCmd struct {
	JSON bool `help:"Print the raw prediction as JSON."`
}

func (c *PredictCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.RequireStudent()
	if err != nil {
		return err
	}
	pred, err := cli.Fetch(ctx, func(rctx context.Context) (models.Prediction, error) {
		return ctx.Client.Predictions.Predict(rctx, sess.User.ID)
	})
	if err != nil {
		return err
	}
	if c.JSON {
		return printJSON(ctx, pred)
	}

	ctx.Println(render.PredictionSummary(pred, chartWidth))
	if fi := render.FeatureImportance(pred.FeatureImportance, chartWidth); fi != "" {
		ctx.Println()
		ctx.Println(render.Title("Feature Importance"))
		ctx.Println(fi)
	}
	return nil
}

type SimulateCmd struct {
	Hours      float64 `short:"H" help:"Change in study hours per day (-4 to 4)."`
	Problems   float64 `short:"p" help:"Change in problems solved per day (-10 to 20)."`
	Mock       float64 `short:"m" help:"Change in mock score base (-20 to 20)."`
	Confidence float64 `short:"c" help:"Change in confidence level (-2 to 2)."`
	Mood       float64 `help:"Change in mood level (-2 to 2)."`
}

func (c *SimulateCmd) Adjustments() models.Adjustments {
	adj := models.ZeroAdjustments()
	adj["study_hours"] = c.Hours
	adj["problems_solved"] = c.Problems
	adj["mock_score"] = c.Mock
	adj["confidence"] = c.Confidence
	adj["mood"] = c.Mood
	return adj
}

func (c *SimulateCmd) Validate() error {
	return validation.Adjustments(c.Adjustments()).Err()
}

// Run asks for the current and the hypothetical prediction concurrently. The
// current one is only used for the deltas, so failing to get it is not fatal.
func (c *SimulateCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.RequireStudent()
	if err != nil {
		return err
	}
	adj := c.Adjustments()

	var compared bool
	res, err := cli.Submit(ctx, func(rctx context.Context) (models.SimulationResult, error) {
		var (
			baseline  *models.Prediction
			simulated models.Prediction
		)
		g, gctx := errgroup.WithContext(rctx)
		g.Go(func() error {
			p, err := ctx.Client.Predictions.Predict(gctx, sess.User.ID)
			if err != nil {
				if api.IsUnauthorized(err) {
					return err
				}
				logger.Debug("Baseline prediction unavailable", "error", err)
				return nil
			}
			baseline = &p
			return nil
		})
		g.Go(func() error {
			p, err := ctx.Client.Predictions.Simulate(gctx, api.SimulateRequest{StudentID: sess.User.ID, Adjustments: adj})
			if err != nil {
				return err
			}
			simulated = p
			return nil
		})
		if err := g.Wait(); err != nil {
			return models.SimulationResult{}, err
		}
		compared = baseline != nil
		return models.NewSimulationResult(simulated, baseline), nil
	})
	if err != nil {
		return err
	}

	var changed []string
	for _, f := range models.SimulationFactors {
		if v := adj[f.Key]; v != 0 {
			changed = append(changed, fmt.Sprintf("%s %+g %s", f.Label, v, f.Unit))
		}
	}
	if len(changed) == 0 {
		ctx.Println(render.Muted("No adjustments, simulating your current routine."))
	} else {
		ctx.Println(render.Muted("What if: " + strings.Join(changed, ", ")))
	}
	ctx.Println()
	ctx.Println(render.SimulationSummary(res, chartWidth))
	if !compared {
		ctx.Println(render.Muted("No current prediction to compare against yet."))
	}
	return nil
}

type DashboardCmd struct {
	Refresh bool `short:"r" help:"Also request a fresh prediction."`
	JSON    bool `help:"Print the raw dashboard as JSON."`
}

func (c *DashboardCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.RequireStudent()
	if err != nil {
		return err
	}

	var d models.Dashboard
	var augErr error
	if c.Refresh {
		res, err := cli.Fetch(ctx, func(rctx context.Context) (dashboard.Partial, error) {
			return ctx.Dashboard.Refresh(rctx, sess.User.ID)
		})
		if err != nil {
			return err
		}
		d, augErr = res.Base, res.AugmentationErr
	} else {
		d, err = cli.Fetch(ctx, func(rctx context.Context) (models.Dashboard, error) {
			return ctx.Dashboard.Load(rctx, sess.User.ID)
		})
		if err != nil {
			return err
		}
	}

	if c.JSON {
		return printJSON(ctx, d)
	}

	ctx.Println(render.Title(fmt.Sprintf("Welcome back, %s!", d.Student.FirstName())))
	if d.Student.CareerGoal != "" {
		ctx.Println(render.Muted(d.Student.CareerGoal))
	}
	ctx.Println()
	ctx.Printf("Streak %d days   Logs %d   Avg hours %.1f   Avg mock %.1f\n",
		d.Streak, d.Stats.TotalLogs, d.Stats.AvgStudyHours, d.Stats.AvgMockScore)
	if d.LearningStyle != nil {
		ctx.Printf("Learning style: %s %s\n", d.LearningStyle.Style.Name, render.Muted(d.LearningStyle.Style.Description))
	}
	ctx.Println()

	if d.Prediction != nil {
		ctx.Println(render.PredictionSummary(*d.Prediction, chartWidth))
	} else {
		ctx.Println(render.Muted("No prediction yet. Log a few days to unlock your forecast."))
	}
	if augErr != nil {
		ctx.Println(render.Muted("Could not refresh prediction: " + errors.Describe(augErr)))
	}
	ctx.Println()
	ctx.Println(render.Title("Growth"))
	ctx.Println(render.GrowthChart(d.DailyLogs, chartWidth+20))
	return nil
}
