package admin

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/julianstephens/neurogrowth/internal/cli"
	"github.com/julianstephens/neurogrowth/internal/render"
)

type StudentsCmd struct{}

func (c *StudentsCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireAdmin(); err != nil {
		return err
	}
	students, err := cli.Fetch(ctx, ctx.Client.Admin.Students)
	if err != nil {
		return err
	}
	if len(students) == 0 {
		ctx.Println("No students registered yet.")
		return nil
	}

	w := tabwriter.NewWriter(ctx.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tLOGS\tTARGET GPA\tSCORE\tBURNOUT")
	for _, s := range students {
		score, burnout := "-", "-"
		if p := s.LatestPrediction; p != nil {
			score = fmt.Sprintf("%.1f", p.PredictedScore)
			burnout = render.BurnoutLabel(render.BurnoutBucket(p.BurnoutRisk))
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\t%s\n",
			s.ID, s.Name, s.Email, s.LogCount, cli.FormatOptional(s.TargetGPA, "%.2f"), score, burnout)
	}
	return w.Flush()
}

type ClustersCmd struct {
	Width  int `help:"Scatter plot width." default:"60"`
	Height int `help:"Scatter plot height." default:"20"`
}

func (c *ClustersCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireAdmin(); err != nil {
		return err
	}
	cl, err := cli.Fetch(ctx, ctx.Client.Admin.Clustering)
	if err != nil {
		return err
	}
	if len(cl.PCAData) == 0 {
		ctx.Println("Not enough student data to cluster yet.")
		return nil
	}
	ctx.Println(render.Title("Learning Pattern Clusters"))
	ctx.Println(render.PCAScatter(cl.PCAData, c.Width, c.Height))
	ctx.Println(render.ClusterLegend(cl))
	return nil
}

type RiskCmd struct {
	Columns int  `help:"Heatmap cells per row." default:"6"`
	List    bool `short:"l" help:"List students by burnout risk instead of drawing the heatmap."`
}

func (c *RiskCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireAdmin(); err != nil {
		return err
	}
	entries, err := cli.Fetch(ctx, ctx.Client.Admin.RiskHeatmap)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		ctx.Println("No predictions available yet.")
		return nil
	}

	if !c.List {
		ctx.Println(render.Title("Burnout Risk"))
		ctx.Println(render.RiskHeatmap(entries, c.Columns))
		return nil
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].BurnoutRisk > entries[j].BurnoutRisk
	})
	w := tabwriter.NewWriter(ctx.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tBURNOUT\tLEVEL\tSCORE\tVELOCITY")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%.0f%%\t%s\t%.1f\t%+.2f\n",
			e.StudentID, e.Name, e.BurnoutRisk*100, render.BurnoutLabel(render.BurnoutBucket(e.BurnoutRisk)),
			e.PredictedScore, e.ImprovementVelocity)
	}
	return w.Flush()
}

type DistributionCmd struct{}

func (c *DistributionCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireAdmin(); err != nil {
		return err
	}
	dist, err := cli.Fetch(ctx, ctx.Client.Admin.PerformanceDistribution)
	if err != nil {
		return err
	}
	ctx.Println(render.Title("Performance Distribution"))
	ctx.Println(render.Distribution(dist, 40))
	ctx.Printf("%d students, average predicted score %.1f\n", dist.TotalStudents, dist.AvgScore)
	return nil
}

type RetrainCmd struct{}

func (c *RetrainCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireAdmin(); err != nil {
		return err
	}
	ctx.Println(render.Muted("Retraining models..."))
	res, err := cli.Submit(ctx, ctx.Client.Admin.Retrain)
	if err != nil {
		return err
	}
	msg := res.Message
	if msg == "" {
		msg = "Models retrained"
	}
	ctx.Printf("✓ %s (%d students used)\n", msg, res.StudentsUsed)
	return nil
}
