package system

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/neurogrowth/internal/cli"
	"github.com/julianstephens/neurogrowth/internal/lock"
	"github.com/julianstephens/neurogrowth/internal/logger"
	"github.com/julianstephens/neurogrowth/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	l, err := lock.Acquire(ctx.Config.Dir)
	if err != nil {
		return err
	}
	defer func() {
		if err := l.Release(); err != nil {
			logger.Warn("Failed to release TUI lock", "error", err)
		}
	}()

	ctx.PerformAutomaticBackup()

	// the TUI owns the terminal, keep debug output in the log file only
	logCfg := logger.FromConfig(ctx.Config)
	logCfg.Quiet = true
	if err := logger.Init(logCfg); err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewModel(tui.Deps{
		Session:   ctx.Session,
		Client:    ctx.Client,
		Dashboard: ctx.Dashboard,
		History:   ctx.Store,
	}), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
