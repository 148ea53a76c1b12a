package errors

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/julianstephens/neurogrowth/internal/api"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "simple error",
			err:      errors.New("something went wrong"),
			expected: "Error: something went wrong",
		},
		{
			name:     "wrapped api error",
			err:      fmt.Errorf("load dashboard: %w", &api.Error{Status: http.StatusBadGateway}),
			expected: "Error: Something went wrong on the server. Please try again later.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{
			name:     "transport",
			err:      &api.Error{Method: "GET", Path: "/", Err: errors.New("connection refused")},
			contains: "Cannot reach",
		},
		{
			name:     "unauthorized",
			err:      &api.Error{Status: http.StatusUnauthorized, Detail: "Could not validate credentials"},
			contains: "log in again",
		},
		{
			name: "validation fields verbatim",
			err: &api.Error{Status: http.StatusUnprocessableEntity, FieldErrors: []api.FieldError{
				{Loc: []any{"body", "mood"}, Msg: "ensure this value is less than or equal to 5"},
			}},
			contains: "mood: ensure this value is less than or equal to 5",
		},
		{
			name:     "not found detail",
			err:      &api.Error{Status: http.StatusNotFound, Detail: "No roadmap found. Generate one first."},
			contains: "No roadmap found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Describe(tt.err)
			if !strings.Contains(got, tt.contains) {
				t.Errorf("Describe() = %q, want to contain %q", got, tt.contains)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("invalid value: %d", 42)
	if got != "Error: invalid value: 42" {
		t.Errorf("Formatf() = %q", got)
	}
}

// TestFatal tests the Fatal function using exec helper process
func TestFatal(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL") == "1" {
		Fatal(errors.New("test error"))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal$")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if e, ok := err.(*exec.ExitError); ok && !e.Success() {
		if e.ExitCode() != 1 {
			t.Errorf("Fatal() exit code = %d, want 1", e.ExitCode())
		}
		if !strings.Contains(stderr.String(), "Error: test error") {
			t.Errorf("Fatal() stderr = %q, want to contain %q", stderr.String(), "Error: test error")
		}
	} else {
		t.Errorf("Fatal() did not exit with error: %v", err)
	}
}

func TestFatal_NilError(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL_NIL") == "1" {
		Fatal(nil)
		os.Exit(0)
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal_NilError")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL_NIL=1")

	if err := cmd.Run(); err != nil {
		t.Errorf("Fatal(nil) should not exit, but got error: %v", err)
	}
}
