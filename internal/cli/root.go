package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/julianstephens/neurogrowth/internal/api"
	"github.com/julianstephens/neurogrowth/internal/backup"
	"github.com/julianstephens/neurogrowth/internal/config"
	"github.com/julianstephens/neurogrowth/internal/constants"
	"github.com/julianstephens/neurogrowth/internal/dashboard"
	"github.com/julianstephens/neurogrowth/internal/keyring"
	"github.com/julianstephens/neurogrowth/internal/logger"
	"github.com/julianstephens/neurogrowth/internal/session"
	"github.com/julianstephens/neurogrowth/internal/storage"
	"github.com/julianstephens/neurogrowth/internal/storage/postgres"
	"github.com/julianstephens/neurogrowth/internal/storage/sqlite"
)

// ErrSessionExpired is returned when the backend rejects the stored token
var ErrSessionExpired = errors.New("session expired, run 'neurogrowth auth login' again")

type Context struct {
	Config    config.Config
	Store     storage.Provider
	Session   *session.Store
	Client    *api.Client
	Dashboard *dashboard.Aggregator
	Out       io.Writer
}

// NewContext wires the session, client and dashboard aggregator around store
func NewContext(cfg config.Config, store storage.Provider) *Context {
	sess := session.New(store, session.Options{UseKeyring: cfg.UseKeyring})
	client := api.New(api.Config{BaseURL: cfg.APIURL, Timeout: cfg.Timeout}, sess)
	return &Context{
		Config:    cfg,
		Store:     store,
		Session:   sess,
		Client:    client,
		Dashboard: dashboard.New(dashboard.FromClient(client)),
		Out:       os.Stdout,
	}
}

// Open loads the state store and restores the persisted session
func (c *Context) Open() error {
	if err := c.Store.Load(); err != nil {
		return err
	}
	return c.Session.Load()
}

// PerformAutomaticBackup snapshots a local state store and only logs failures
func (c *Context) PerformAutomaticBackup() {
	if _, remote := c.Store.(*postgres.Store); remote {
		return
	}
	path := c.Store.GetConfigPath()
	if !backup.Supported(path) {
		return
	}
	if _, err := backup.NewManager(path).Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// RequireStudent returns the session of a logged in student
func (c *Context) RequireStudent() (session.Session, error) {
	sess, err := c.Session.Require()
	if err != nil {
		return sess, err
	}
	if sess.User.IsAdmin() {
		return sess, errors.New("this command is only available to students")
	}
	return sess, nil
}

// RequireAdmin returns the session of a logged in admin
func (c *Context) RequireAdmin() (session.Session, error) {
	sess, err := c.Session.Require()
	if err != nil {
		return sess, err
	}
	if !sess.User.IsAdmin() {
		return sess, errors.New("this command requires an admin account")
	}
	return sess, nil
}

// Check clears the session when err is a 401 and reports it as expired
func (c *Context) Check(err error) error {
	if err == nil {
		return nil
	}
	if c.Session.HandleAuthError(err) {
		return ErrSessionExpired
	}
	return err
}

// OpenStore picks the state store implementation for cfg.State. A postgres
// connection string must not embed a password; with UseKeyring the default
// sqlite path is replaced by a connection string kept in the OS keyring.
func OpenStore(cfg config.Config) (storage.Provider, error) {
	state := cfg.State
	if cfg.UseKeyring && isDefaultState(state) {
		connStr, err := keyring.GetConnectionString()
		switch {
		case err == nil:
			logger.Debug("Using connection string from keyring")
			state = connStr
		case !errors.Is(err, keyring.ErrNotFound):
			logger.Warn("Failed to read connection string from keyring", "error", err)
		}
	}

	if config.IsConnString(state) {
		if _, err := postgres.ValidateConnString(state); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, errors.New("PostgreSQL connection strings with embedded credentials are not allowed. " +
					"Store it with 'neurogrowth keyring set', export " + constants.EnvDBConnection + " or use .pgpass")
			}
			return nil, err
		}
		return postgres.New(state), nil
	}
	if strings.HasSuffix(strings.ToLower(state), ".json") {
		return storage.NewJSONStore(state), nil
	}
	return sqlite.NewStore(state), nil
}

func isDefaultState(state string) bool {
	def, err := config.ExpandPath(constants.DefaultConfigPath)
	if err != nil {
		return false
	}
	return state == def
}

// ParseOptionalFloat parses a flag value that may be left empty
func ParseOptionalFloat(name, s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("--%s must be a number", name)
	}
	return &v, nil
}

// FormatOptional renders an optional number, or "-" when unset
func FormatOptional(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}
