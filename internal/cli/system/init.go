package system

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/neurogrowth/internal/cli"
	"github.com/julianstephens/neurogrowth/internal/config"
	"github.com/julianstephens/neurogrowth/internal/storage/postgres"
)

type InitCmd struct {
	Force bool `help:"Delete the existing local state store before initializing."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if _, remote := ctx.Store.(*postgres.Store); remote {
			return errors.New("--force is only supported for local state stores")
		}
		path := ctx.Store.GetConfigPath()
		if _, err := os.Stat(path); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing state store: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing state store: %w", err)
			}
			ctx.Printf("Deleted existing state store at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing state store: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized neurogrowth storage at: %s\n", redact(ctx.Store.GetConfigPath()))

	// config.yaml is only written once so later edits are not clobbered
	path := ctx.Config.Path()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := config.SaveFile(path, ctx.Config.ToFile()); err != nil {
			return err
		}
		ctx.Printf("Wrote config file: %s\n", path)
	}
	return nil
}

// redact hides connection strings, which may carry credentials from the keyring
func redact(state string) string {
	if config.IsConnString(state) {
		return maskPassword(state)
	}
	return state
}
