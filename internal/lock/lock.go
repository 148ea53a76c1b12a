package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/neurogrowth/internal/constants"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
	executableFunc  = currentExecutable

	ErrAlreadyRunning = errors.New("another neurogrowth TUI is already running")
)

// Lock is a pid lockfile guarding the interactive session
type Lock struct {
	path string
}

func currentExecutable() string {
	exe, err := os.Executable()
	if err != nil {
		return constants.AppName
	}
	return filepath.Base(exe)
}

// Acquire writes the lockfile in dir. A lockfile left behind by a process that
// is no longer running is replaced.
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	path := filepath.Join(dir, constants.LockfileName)
	if pid, err := holder(path); err == nil {
		return nil, fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, pid)
	}

	content := fmt.Sprintf("%d|%s", getpidFunc(), executableFunc())
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write lockfile: %w", err)
	}
	return &Lock{path: path}, nil
}

// Path returns the lockfile location
func (l *Lock) Path() string {
	return l.path
}

// Release removes the lockfile
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

// holder returns the pid of a live process owning the lockfile
func holder(path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.New("no lockfile")
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 2 {
		return 0, errors.New("lockfile is malformed")
	}

	pid, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, errors.New("invalid process ID in lockfile")
	}
	if pid == getpidFunc() {
		return 0, errors.New("lockfile belongs to this process")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return 0, errors.New("lock holder not running")
	}

	if process.Executable() != parts[1] {
		return 0, fmt.Errorf("process with PID %d is not %s (is %s)", pid, parts[1], process.Executable())
	}

	return pid, nil
}
