package backup

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/neurogrowth/internal/constants"
	"github.com/julianstephens/neurogrowth/internal/logger"
)

const (
	// MaxBackups is the number of snapshots kept after rotation
	MaxBackups = 14
	// DirName is the directory, next to the state file, that holds snapshots
	DirName = "backups"

	filePrefix      = constants.AppName + "-"
	timestampFormat = "20060102-150405"
)

// ErrUnsupported is returned for state stores that are not local files
var ErrUnsupported = errors.New("backups are only available for sqlite and json state stores")

var nameRe = regexp.MustCompile(`^` + regexp.QuoteMeta(filePrefix) + `(\d{8}-\d{6})(?:-(\d+))?(\.[a-z]+)$`)

// Info describes one snapshot on disk
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager snapshots and restores the local state file
type Manager struct {
	statePath string
	dir       string
	ext       string
	now       func() time.Time
}

// NewManager returns a manager for the state file at statePath
func NewManager(statePath string) *Manager {
	ext := strings.ToLower(filepath.Ext(statePath))
	if ext == "" {
		ext = ".db"
	}
	return &Manager{
		statePath: statePath,
		dir:       filepath.Join(filepath.Dir(statePath), DirName),
		ext:       ext,
		now:       time.Now,
	}
}

// Supported reports whether state names a file the manager can snapshot
func Supported(state string) bool {
	return state != "" &&
		!strings.HasPrefix(state, "postgres://") &&
		!strings.HasPrefix(state, "postgresql://") &&
		!strings.Contains(state, "host=")
}

func (m *Manager) Dir() string {
	return m.dir
}

func (m *Manager) isJSON() bool {
	return m.ext == ".json"
}

// Create writes a new snapshot and prunes the oldest beyond MaxBackups
func (m *Manager) Create() (string, error) {
	path, err := m.create()
	if err != nil {
		return "", err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate old backups", "error", err)
	}
	return path, nil
}

func (m *Manager) create() (string, error) {
	if _, err := os.Stat(m.statePath); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("state store does not exist: %s", m.statePath)
		}
		return "", fmt.Errorf("failed to access state store: %w", err)
	}
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path, err := m.nextPath()
	if err != nil {
		return "", err
	}

	if m.isJSON() {
		if err := verifyJSON(m.statePath); err != nil {
			return "", fmt.Errorf("state store appears to be corrupted: %w", err)
		}
		err = copyFile(m.statePath, path)
	} else {
		err = m.snapshotSQLite(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to back up state store: %w", err)
	}
	logger.Info("Backup created", "path", path)
	return path, nil
}

func (m *Manager) nextPath() (string, error) {
	stamp := m.now().Format(timestampFormat)
	path := filepath.Join(m.dir, filePrefix+stamp+m.ext)
	for i := 1; ; i++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
		if i > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		path = filepath.Join(m.dir, fmt.Sprintf("%s%s-%d%s", filePrefix, stamp, i, m.ext))
	}
}

func (m *Manager) snapshotSQLite(dest string) error {
	db, err := sql.Open("sqlite", m.statePath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open state store: %w", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return fmt.Errorf("state store appears to be corrupted: %w", err)
	}
	if _, err := db.Exec("VACUUM INTO ?", dest); err != nil {
		logger.Debug("VACUUM INTO failed, copying file", "error", err)
		return copyFile(m.statePath, dest)
	}
	return nil
}

// List returns the snapshots, newest first
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Info{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	type ordered struct {
		Info
		seq int
	}
	var found []ordered
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := nameRe.FindStringSubmatch(entry.Name())
		if match == nil || match[3] != m.ext {
			continue
		}
		ts, err := time.ParseInLocation(timestampFormat, match[1], time.Local)
		if err != nil {
			continue
		}
		seq := 0
		if match[2] != "" {
			seq, _ = strconv.Atoi(match[2])
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		found = append(found, ordered{
			Info: Info{Path: filepath.Join(m.dir, entry.Name()), Timestamp: ts, Size: info.Size()},
			seq:  seq,
		})
	}

	sort.Slice(found, func(i, j int) bool {
		if !found[i].Timestamp.Equal(found[j].Timestamp) {
			return found[i].Timestamp.After(found[j].Timestamp)
		}
		return found[i].seq > found[j].seq
	})

	out := make([]Info, len(found))
	for i, f := range found {
		out[i] = f.Info
	}
	return out, nil
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// Restore replaces the state file with a snapshot. The current state is
// snapshotted first so a restore can be undone.
func (m *Manager) Restore(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("backup file does not exist: %s", path)
	}
	verify := verifySQLite
	if m.isJSON() {
		verify = verifyJSON
	}
	if err := verify(path); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var previous string
	if _, err := os.Stat(m.statePath); err == nil {
		p, err := m.create()
		if err != nil {
			return "", fmt.Errorf("failed to back up current state before restore: %w", err)
		}
		previous = p
	}

	tmp := m.statePath + ".restore.tmp"
	if err := copyFile(path, tmp); err != nil {
		return "", fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.statePath); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			logger.Warn("Failed to remove temporary file", "path", tmp, "error", rmErr)
		}
		return "", fmt.Errorf("failed to restore state store: %w", err)
	}
	logger.Info("State store restored", "from", path)
	return previous, nil
}

func verifySQLite(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()
	var count int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count)
}

func verifyJSON(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if !json.Valid(data) {
		return errors.New("not a valid JSON document")
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}
