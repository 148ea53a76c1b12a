package e2e

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// fakeBackend serves the routes the workflow touches
func fakeBackend(t *testing.T) *httptest.Server {
	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	user := map[string]any{"id": 3, "name": "Asha Rao", "email": "asha@example.com", "role": "student"}
	authorized := func(r *http.Request) bool {
		return r.Header.Get("Authorization") == "Bearer e2e-token"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "app": "NeuroGrowth AI", "version": "e2e"})
	})
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostForm.Get("password") != "secret1" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect email or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"access_token": "e2e-token", "token_type": "bearer", "user": user})
	})
	mux.HandleFunc("POST /log-daily", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
			return
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode log failed: %v", err)
		}
		body["id"] = 1
		writeJSON(w, http.StatusOK, body)
	})
	mux.HandleFunc("GET /predict/3", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"predicted_score": 74.2, "burnout_risk": 0.3, "improvement_velocity": 1.1,
			"confidence_lower": 69.0, "confidence_upper": 79.0,
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestEndToEndWorkflow(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get cwd: %v", err)
	}
	binDir := os.Getenv("NEUROGROWTH_BIN_DIR")
	if binDir == "" {
		binDir = filepath.Join(cwd, "..", "..", "bin")
	}
	binDir, _ = filepath.Abs(binDir)
	cliPath := filepath.Join(binDir, "neurogrowth")
	if _, err := os.Stat(cliPath); os.IsNotExist(err) {
		t.Skipf("CLI binary not found at %s, build it first", cliPath)
	}

	srv := fakeBackend(t)
	tempDir := t.TempDir()
	state := filepath.Join(tempDir, "neurogrowth", "neurogrowth.db")

	var env []string
	for _, e := range os.Environ() {
		if !strings.HasPrefix(e, "HOME=") && !strings.HasPrefix(e, "XDG_CONFIG_HOME=") && !strings.HasPrefix(e, "NEUROGROWTH_") {
			env = append(env, e)
		}
	}
	env = append(env,
		fmt.Sprintf("HOME=%s", tempDir),
		fmt.Sprintf("XDG_CONFIG_HOME=%s", tempDir),
	)

	run := func(args ...string) (string, error) {
		full := append([]string{"--config", state, "--api-url", srv.URL}, args...)
		cmd := exec.Command(cliPath, full...)
		cmd.Env = env
		out, err := cmd.CombinedOutput()
		return string(out), err
	}
	mustRun := func(args ...string) string {
		t.Helper()
		out, err := run(args...)
		if err != nil {
			t.Fatalf("neurogrowth %v failed: %v\nOutput: %s", args, err, out)
		}
		return out
	}

	t.Log("Initializing storage...")
	mustRun("init")
	if _, err := os.Stat(filepath.Join(tempDir, "neurogrowth", "config.yaml")); err != nil {
		t.Errorf("init should write config.yaml: %v", err)
	}

	t.Log("Logging in...")
	if out, err := run("auth", "login", "asha@example.com", "-p", "wrong"); err == nil {
		t.Fatalf("login with a bad password should fail:\n%s", out)
	}
	mustRun("auth", "login", "asha@example.com", "-p", "secret1")

	t.Log("Recording a study day...")
	if out := mustRun("log", "add", "--date", "2025-03-12", "--hours", "3", "--problems", "8"); !strings.Contains(out, "Log saved for 2025-03-12") {
		t.Errorf("unexpected log output:\n%s", out)
	}

	if out := mustRun("predict", "--json"); !strings.Contains(out, "74.2") {
		t.Errorf("unexpected prediction:\n%s", out)
	}

	t.Log("Backing up...")
	mustRun("backup", "create")
	if out := mustRun("backup", "list"); !strings.Contains(out, "1 total") {
		t.Errorf("unexpected backup list:\n%s", out)
	}

	if out, err := run("doctor"); err != nil {
		t.Errorf("doctor failed: %v\n%s", err, out)
	}

	t.Log("Logging out...")
	mustRun("auth", "logout")
	if out, err := run("predict"); err == nil || !strings.Contains(out, "not logged in") {
		t.Errorf("predict after logout should require a login, err=%v\n%s", err, out)
	}
}
