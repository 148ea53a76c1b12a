package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/neurogrowth/internal/cli"
	"github.com/julianstephens/neurogrowth/internal/cli/admin"
	"github.com/julianstephens/neurogrowth/internal/cli/auth"
	"github.com/julianstephens/neurogrowth/internal/cli/backups"
	"github.com/julianstephens/neurogrowth/internal/cli/chat"
	"github.com/julianstephens/neurogrowth/internal/cli/insights"
	"github.com/julianstephens/neurogrowth/internal/cli/logs"
	"github.com/julianstephens/neurogrowth/internal/cli/roadmaps"
	"github.com/julianstephens/neurogrowth/internal/cli/system"
	"github.com/julianstephens/neurogrowth/internal/config"
	"github.com/julianstephens/neurogrowth/internal/constants"
	"github.com/julianstephens/neurogrowth/internal/errors"
	"github.com/julianstephens/neurogrowth/internal/logger"
)

var CLI struct {
	Version    kong.VersionFlag
	Config     string        `help:"State store: a sqlite path, a .json path or a PostgreSQL connection string. PostgreSQL credentials must NOT be embedded; use the OS keyring, environment variables or .pgpass instead."`
	APIURL     string        `name:"api-url" help:"NeuroGrowth backend URL."`
	Timeout    time.Duration `help:"Backend request timeout."`
	UseKeyring bool          `help:"Keep the session token in the OS keyring and read the state store connection string from it."`
	Debug      bool          `help:"Enable debug logging."`

	Init    system.InitCmd    `cmd:"" help:"Initialize neurogrowth storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive TUI." default:"1"`

	Auth struct {
		Login    auth.LoginCmd    `cmd:"" help:"Log in and save the session."`
		Register auth.RegisterCmd `cmd:"" help:"Create an account and log in."`
		Logout   auth.LogoutCmd   `cmd:"" help:"Clear the saved session."`
		Whoami   auth.WhoamiCmd   `cmd:"" help:"Show the logged in user."`
		Profile  auth.ProfileCmd  `cmd:"" help:"Show or update the profile."`
	} `cmd:"" help:"Manage the session."`
	Log struct {
		Add  logs.LogAddCmd  `cmd:"" help:"Record a study day." default:"1"`
		List logs.LogListCmd `cmd:"" help:"List recent study logs."`
	} `cmd:"" help:"Manage daily study logs."`
	Predict   insights.PredictCmd   `cmd:"" help:"Show your performance forecast."`
	Simulate  insights.SimulateCmd  `cmd:"" help:"Simulate a change to your routine."`
	Dashboard insights.DashboardCmd `cmd:"" help:"Show your dashboard."`
	Roadmap   struct {
		Show     roadmaps.ShowCmd     `cmd:"" help:"Show your roadmap." default:"1"`
		Generate roadmaps.GenerateCmd `cmd:"" help:"Generate a new 30-day roadmap."`
	} `cmd:"" help:"Manage your study roadmap."`
	Chat  chat.ChatCmd `cmd:"" help:"Ask the AI learning assistant."`
	Admin struct {
		Students     admin.StudentsCmd     `cmd:"" help:"List students." default:"1"`
		Clusters     admin.ClustersCmd     `cmd:"" help:"Show learning pattern clusters."`
		Risk         admin.RiskCmd         `cmd:"" help:"Show the burnout risk heatmap."`
		Distribution admin.DistributionCmd `cmd:"" help:"Show the predicted score distribution."`
		Retrain      admin.RetrainCmd      `cmd:"" help:"Retrain the prediction models."`
	} `cmd:"" help:"Administrator analytics."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage state store backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Delete a stored credential."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check the OS keyring." default:"1"`
	} `cmd:"" help:"Manage credentials in the OS keyring."`
	Settings struct {
		Show system.ConfigShowCmd `cmd:"" help:"Show the resolved configuration." default:"1"`
		Save system.ConfigSaveCmd `cmd:"" help:"Write the resolved configuration to config.yaml."`
	} `cmd:"" name:"config" help:"Inspect the configuration."`
}

// selfManaged commands open the state store themselves, or do not need it
var selfManaged = []string{"init", "migrate", "doctor", "keyring", "config", "backup"}

func needsOpen(command string) bool {
	name, _, _ := strings.Cut(command, " ")
	for _, s := range selfManaged {
		if name == s {
			return false
		}
	}
	return true
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("NeuroGrowth AI student performance companion"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Resolve(config.Overrides{
		State:      CLI.Config,
		APIURL:     CLI.APIURL,
		Timeout:    CLI.Timeout,
		UseKeyring: CLI.UseKeyring,
		Debug:      CLI.Debug,
	})
	if err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.FromConfig(cfg)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	store, err := cli.OpenStore(cfg)
	if err != nil {
		errors.Fatal(err)
	}
	defer store.Close()

	appCtx := cli.NewContext(cfg, store)
	if needsOpen(ctx.Command()) {
		if err := appCtx.Open(); err != nil {
			store.Close()
			errors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}
