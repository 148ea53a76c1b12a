package lock

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/neurogrowth/internal/constants"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int {
	return m.pid
}

func (m *mockProcess) PPid() int {
	return 0
}

func (m *mockProcess) Executable() string {
	return m.executable
}

func stubProcesses(t *testing.T, procs map[int]string) {
	t.Helper()
	oldFind, oldPid, oldExe := findProcessFunc, getpidFunc, executableFunc
	t.Cleanup(func() {
		findProcessFunc, getpidFunc, executableFunc = oldFind, oldPid, oldExe
	})

	getpidFunc = func() int { return 100 }
	executableFunc = func() string { return "neurogrowth" }
	findProcessFunc = func(pid int) (ps.Process, error) {
		exe, ok := procs[pid]
		if !ok {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: exe}, nil
	}
}

func writeLockfile(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, constants.LockfileName), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestAcquireAndRelease(t *testing.T) {
	stubProcesses(t, nil)
	dir := t.TempDir()

	l, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	content, err := os.ReadFile(l.Path())
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "100|neurogrowth" {
		t.Errorf("unexpected lockfile content %q", content)
	}

	if err := l.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if _, err := os.Stat(l.Path()); !os.IsNotExist(err) {
		t.Error("expected lockfile to be removed")
	}
	if err := l.Release(); err != nil {
		t.Errorf("second Release should be a no-op, got %v", err)
	}
}

func TestAcquire_Held(t *testing.T) {
	stubProcesses(t, map[int]string{200: "neurogrowth"})
	dir := t.TempDir()
	writeLockfile(t, dir, "200|neurogrowth")

	_, err := Acquire(dir)
	if !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestAcquire_Stale(t *testing.T) {
	tests := []struct {
		name    string
		procs   map[int]string
		content string
	}{
		{"dead process", nil, "200|neurogrowth"},
		{"pid reused by another program", map[int]string{200: "bash"}, "200|neurogrowth"},
		{"malformed", nil, "garbage"},
		{"bad pid", nil, "abc|neurogrowth"},
		{"own pid", map[int]string{100: "neurogrowth"}, "100|neurogrowth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubProcesses(t, tt.procs)
			dir := t.TempDir()
			writeLockfile(t, dir, tt.content)

			l, err := Acquire(dir)
			if err != nil {
				t.Fatalf("expected stale lock to be replaced, got %v", err)
			}
			defer l.Release()
		})
	}
}
