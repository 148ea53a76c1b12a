package system

import (
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/neurogrowth/internal/cli"
	"github.com/julianstephens/neurogrowth/internal/config"
)

// ConfigShowCmd prints the resolved configuration
type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(ctx *cli.Context) error {
	cfg := ctx.Config
	ctx.Printf("state:       %s\n", redact(cfg.State))
	ctx.Printf("config file: %s\n", cfg.Path())
	ctx.Printf("api_url:     %s\n", cfg.APIURL)
	ctx.Printf("timeout:     %s\n", cfg.Timeout)
	ctx.Printf("use_keyring: %t\n", cfg.UseKeyring)
	ctx.Printf("debug:       %t\n", cfg.Debug)
	ctx.Printf("logs_limit:  %d\n", cfg.LogsLimit)
	ctx.Printf("log:         %s, %s (rotate at %d MB, keep %d files for %d days)\n",
		cfg.Log.Level, cfg.Log.File, cfg.Log.MaxSizeMB, cfg.Log.MaxBackups, cfg.Log.MaxAgeDays)
	return nil
}

// ConfigSaveCmd writes the resolved configuration, including command line
// overrides, to config.yaml
type ConfigSaveCmd struct {
	DryRun bool `help:"Print the file instead of writing it."`
}

func (c *ConfigSaveCmd) Run(ctx *cli.Context) error {
	f := ctx.Config.ToFile()
	if c.DryRun {
		data, err := yaml.Marshal(f)
		if err != nil {
			return err
		}
		ctx.Printf("%s", data)
		return nil
	}
	if err := config.SaveFile(ctx.Config.Path(), f); err != nil {
		return err
	}
	ctx.Printf("✓ Saved %s\n", ctx.Config.Path())
	return nil
}
