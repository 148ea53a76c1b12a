package system

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/julianstephens/neurogrowth/internal/backup"
	"github.com/julianstephens/neurogrowth/internal/cli"
	"github.com/julianstephens/neurogrowth/internal/keyring"
	"github.com/julianstephens/neurogrowth/internal/migration"
	"github.com/julianstephens/neurogrowth/internal/storage/sqlite"
	"github.com/julianstephens/neurogrowth/migrations"
)

const healthTimeout = 5 * time.Second

type DoctorCmd struct{}

type check struct {
	name string
	run  func(ctx *cli.Context) error
	// warnOnly checks report a warning instead of failing the run
	warnOnly bool
	// needsStore checks are skipped when the state store is unreachable
	needsStore bool
}

var checks = []check{
	{name: "Schema version", run: checkSchemaVersion, needsStore: true},
	{name: "Migrations complete", run: checkMigrationsComplete, needsStore: true},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "Config file", run: checkConfigFile, warnOnly: true},
	{name: "Keyring", run: checkKeyring, warnOnly: true},
	{name: "Backend reachable", run: checkBackend},
	{name: "Session", run: checkSession, warnOnly: true, needsStore: true},
	{name: "Clock/timezone", run: checkClockTimezone},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	storeReachable := true
	if err := checkStoreReachable(ctx); err != nil {
		ctx.Printf("❌ State store reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
		storeReachable = false
	} else {
		ctx.Printf("✓ State store reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsStore && !storeReachable {
			ctx.Printf("⊘ %s: SKIPPED (state store not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load state store: %w", err)
	}
	if s, ok := ctx.Store.(*sqlite.Store); ok {
		db := s.GetDB()
		if db == nil {
			return errors.New("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

// schemaVersions returns the current and latest schema versions of a sqlite
// store. ok is false for stores without a local schema to inspect.
func schemaVersions(ctx *cli.Context) (current, latest int, ok bool, err error) {
	s, isSQLite := ctx.Store.(*sqlite.Store)
	if !isSQLite {
		return 0, 0, false, nil
	}
	db := s.GetDB()
	if db == nil {
		return 0, 0, true, errors.New("database connection is nil")
	}
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return 0, 0, true, err
	}

	runner := migration.NewRunner(db, sub, migration.DriverSQLite)
	if current, err = runner.GetCurrentVersion(); err != nil {
		return 0, 0, true, fmt.Errorf("failed to get current schema version: %w", err)
	}
	if latest, err = runner.GetLatestVersion(); err != nil {
		return 0, 0, true, fmt.Errorf("failed to get latest schema version: %w", err)
	}
	return current, latest, true, nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, ok, err := schemaVersions(ctx)
	if !ok || err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	current, latest, ok, err := schemaVersions(ctx)
	if !ok || err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	path := ctx.Store.GetConfigPath()
	if !backup.Supported(path) {
		return nil
	}
	backups, err := backup.NewManager(path).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return errors.New("no backups found - consider creating one with 'neurogrowth backup create'")
	}
	return nil
}

func checkConfigFile(ctx *cli.Context) error {
	if _, err := os.Stat(ctx.Config.Path()); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no config file at %s, built-in defaults are in use", ctx.Config.Path())
		}
		return err
	}
	return nil
}

func checkKeyring(ctx *cli.Context) error {
	if !ctx.Config.UseKeyring {
		return nil
	}
	if !keyring.IsAvailable() {
		return errors.New("use_keyring is set but the OS keyring is not available")
	}
	return nil
}

func checkBackend(ctx *cli.Context) error {
	rctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
	defer cancel()
	status, err := ctx.Client.Health(rctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ctx.Client.BaseURL(), err)
	}
	if status.Version != "" {
		ctx.Printf("   %s %s at %s\n", status.App, status.Version, ctx.Client.BaseURL())
	}
	return nil
}

func checkSession(ctx *cli.Context) error {
	if err := ctx.Session.Load(); err != nil {
		return err
	}
	if _, ok := ctx.Session.GetSession(); !ok {
		return errors.New("not logged in")
	}
	claims, err := ctx.Session.Claims()
	if err != nil {
		return err
	}
	if claims.ExpiresAt != nil && time.Now().After(claims.ExpiresAt.Time) {
		return fmt.Errorf("session token expired at %s", claims.ExpiresAt.Time.Local().Format(time.RFC1123))
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if _, offset := now.Zone(); offset == 0 && now.Location() == time.UTC {
		ctx.Printf("   Note: timezone is UTC\n")
	}
	return nil
}
