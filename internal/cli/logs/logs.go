package logs

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/julianstephens/neurogrowth/internal/cli"
	"github.com/julianstephens/neurogrowth/internal/constants"
	"github.com/julianstephens/neurogrowth/internal/models"
	"github.com/julianstephens/neurogrowth/internal/render"
	"github.com/julianstephens/neurogrowth/internal/validation"
)

type LogAddCmd struct {
	Date       string  `short:"d" help:"Log date (YYYY-MM-DD). Defaults to today."`
	Hours      float64 `short:"H" help:"Hours studied." default:"4"`
	Topics     int     `short:"t" help:"Topics completed." default:"2"`
	Problems   int     `short:"p" help:"Problems solved." default:"10"`
	MockScore  string  `short:"m" name:"mock-score" help:"Mock test score (0-100). Leave empty when no mock was taken."`
	Confidence int     `short:"c" help:"Confidence (1-5)." default:"3"`
	Mood       int     `help:"Mood (1-5)." default:"3"`
	Revision   bool    `short:"r" help:"Revision was done."`
	Skill      string  `short:"s" help:"Skill practiced." default:"DSA"`
}

func (c *LogAddCmd) Log() (models.DailyLog, error) {
	mock, err := cli.ParseOptionalFloat("mock-score", c.MockScore)
	if err != nil {
		return models.DailyLog{}, err
	}
	log := models.DailyLog{
		Date:            c.Date,
		StudyHours:      c.Hours,
		TopicsCompleted: c.Topics,
		ProblemsSolved:  c.Problems,
		MockScore:       mock,
		Confidence:      c.Confidence,
		Mood:            c.Mood,
		RevisionDone:    c.Revision,
		SkillPracticed:  c.Skill,
	}
	if log.Date == "" {
		log.Date = time.Now().Format(constants.DateFormat)
	}
	if err := validation.DailyLog(log).Err(); err != nil {
		return models.DailyLog{}, err
	}
	return log, nil
}

func (c *LogAddCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.RequireStudent()
	if err != nil {
		return err
	}
	log, err := c.Log()
	if err != nil {
		return err
	}

	saved, err := cli.Submit(ctx, func(rctx context.Context) (models.DailyLog, error) {
		return ctx.Client.Logs.Create(rctx, sess.User.ID, log)
	})
	if err != nil {
		return err
	}
	ctx.Printf("✓ Log saved for %s (%.1fh, %d problems)\n", saved.Date, saved.StudyHours, saved.ProblemsSolved)
	ctx.Println("Run 'neurogrowth predict' to see your updated forecast.")
	return nil
}

type LogListCmd struct {
	Limit int  `short:"n" help:"Number of logs to show. Defaults to logs_limit from config.yaml."`
	Chart bool `help:"Show the growth chart instead of a table."`
}

func (c *LogListCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.RequireStudent()
	if err != nil {
		return err
	}
	limit := c.Limit
	if limit <= 0 {
		limit = ctx.Config.LogsLimit
	}

	logs, err := cli.Fetch(ctx, func(rctx context.Context) ([]models.DailyLog, error) {
		return ctx.Client.Logs.List(rctx, sess.User.ID, limit)
	})
	if err != nil {
		return err
	}
	if len(logs) == 0 {
		ctx.Println(render.EmptyGrowthMessage)
		return nil
	}
	if c.Chart {
		ctx.Println(render.GrowthChart(logs, 60))
		return nil
	}

	w := tabwriter.NewWriter(ctx.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tHOURS\tTOPICS\tPROBLEMS\tMOCK\tCONF\tMOOD\tREVISION\tSKILL")
	for _, l := range logs {
		revision := "no"
		if l.RevisionDone {
			revision = "yes"
		}
		fmt.Fprintf(w, "%s\t%.1f\t%d\t%d\t%s\t%d\t%d\t%s\t%s\n",
			l.Date, l.StudyHours, l.TopicsCompleted, l.ProblemsSolved,
			cli.FormatOptional(l.MockScore, "%.0f"), l.Confidence, l.Mood, revision, l.SkillPracticed)
	}
	return w.Flush()
}
