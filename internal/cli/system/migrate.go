package system

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/julianstephens/neurogrowth/internal/cli"
	"github.com/julianstephens/neurogrowth/internal/migration"
	"github.com/julianstephens/neurogrowth/internal/storage/sqlite"
	"github.com/julianstephens/neurogrowth/migrations"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	s, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return errors.New("migrate only supports sqlite state stores, other stores migrate on init")
	}
	if err := s.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	defer s.Close()

	db := s.GetDB()
	if db == nil {
		return errors.New("database connection is nil")
	}
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return err
	}

	runner := migration.NewRunner(db, sub, migration.DriverSQLite)
	count, err := runner.ApplyMigrations(func(msg string) {
		ctx.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		ctx.Println("No migrations to apply. Database is up to date.")
	} else {
		ctx.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
