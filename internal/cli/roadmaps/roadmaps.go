package roadmaps

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/neurogrowth/internal/api"
	"github.com/julianstephens/neurogrowth/internal/cli"
	"github.com/julianstephens/neurogrowth/internal/models"
	"github.com/julianstephens/neurogrowth/internal/render"
	"github.com/julianstephens/neurogrowth/internal/validation"
)

const cardWidth = 60

type ShowCmd struct {
	Week int  `short:"w" help:"Week of the daily plan to show. Shows every week when omitted."`
	All  bool `short:"a" help:"Also show mock tests, skill goals and revision cycles."`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.RequireStudent()
	if err != nil {
		return err
	}
	r, err := cli.Fetch(ctx, func(rctx context.Context) (models.Roadmap, error) {
		return ctx.Client.Roadmaps.Get(rctx, sess.User.ID)
	})
	if err != nil {
		if api.IsNotFound(err) {
			ctx.Println(render.EmptyRoadmapMessage)
			ctx.Println("Run 'neurogrowth roadmap generate' to create one.")
			return nil
		}
		return err
	}
	return c.print(ctx, r)
}

func (c *ShowCmd) print(ctx *cli.Context, r models.Roadmap) error {
	weeks := r.Weeks()
	if c.Week < 0 || c.Week > weeks {
		return fmt.Errorf("week must be between 1 and %d", weeks)
	}

	ctx.Println(render.RoadmapSummary(r))
	ctx.Println()
	if c.Week > 0 {
		ctx.Println(render.RoadmapWeek(r, c.Week, cardWidth))
	} else {
		for w := 1; w <= weeks; w++ {
			ctx.Println(render.RoadmapWeek(r, w, cardWidth))
			ctx.Println()
		}
	}

	if c.All {
		for _, section := range []string{
			render.MockTestSchedule(r.MockTestSchedule),
			render.SkillPlan(r.SkillGrowthPlan),
			render.RevisionSchedule(r.RevisionCycles),
		} {
			if section != "" {
				ctx.Println()
				ctx.Println(section)
			}
		}
	}
	return nil
}

type GenerateCmd struct {
	TargetGPA  string   `name:"target-gpa" help:"Target GPA (0-10). Defaults to the profile value."`
	CareerGoal string   `help:"Career goal. Defaults to the profile value."`
	WeakAreas  []string `name:"weak" help:"Weak areas to focus on (repeatable or comma separated)."`
}

// Request builds the generation request, falling back to the profile for
// anything not given on the command line
func (c *GenerateCmd) Request(user models.User) (api.GenerateRoadmapRequest, error) {
	gpa, err := cli.ParseOptionalFloat("target-gpa", c.TargetGPA)
	if err != nil {
		return api.GenerateRoadmapRequest{}, err
	}
	if gpa == nil {
		gpa = user.TargetGPA
	}
	if err := validation.TargetGPA(gpa).Err(); err != nil {
		return api.GenerateRoadmapRequest{}, err
	}

	goal := strings.TrimSpace(c.CareerGoal)
	if goal == "" {
		goal = user.CareerGoal
	}

	var weak []string
	for _, w := range c.WeakAreas {
		if w = strings.TrimSpace(w); w != "" {
			weak = append(weak, w)
		}
	}
	return api.GenerateRoadmapRequest{
		StudentID:  user.ID,
		WeakAreas:  weak,
		TargetGPA:  gpa,
		CareerGoal: goal,
	}, nil
}

func (c *GenerateCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.RequireStudent()
	if err != nil {
		return err
	}
	req, err := c.Request(sess.User)
	if err != nil {
		return err
	}

	ctx.Println(render.Muted("Generating your roadmap, this can take a moment..."))
	r, err := cli.Submit(ctx, func(rctx context.Context) (models.Roadmap, error) {
		return ctx.Client.Roadmaps.Generate(rctx, req)
	})
	if err != nil {
		return err
	}
	ctx.Println("✓ Roadmap generated")
	ctx.Println()
	ctx.Println(render.RoadmapSummary(r))
	if r.Weeks() > 0 {
		ctx.Println()
		ctx.Println(render.RoadmapWeek(r, 1, cardWidth))
		ctx.Println(render.Muted("Run 'neurogrowth roadmap show' for the full plan."))
	}
	return nil
}
