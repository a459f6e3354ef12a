package errors

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
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
			err:      errors.New("unknown restaurant"),
			expected: "Error: unknown restaurant",
		},
		{
			name:     "hinted error",
			err:      WithHint(errors.New("storage not initialized"), "run 'nutriuni init' first"),
			expected: "Error: storage not initialized\nHint: run 'nutriuni init' first",
		},
		{
			name:     "hint survives wrapping",
			err:      fmt.Errorf("add item: %w", WithHint(errors.New("no such item"), "try 'nutriuni menu search'")),
			expected: "Error: add item: no such item\nHint: try 'nutriuni menu search'",
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

func TestWithHint(t *testing.T) {
	if WithHint(nil, "ignored") != nil {
		t.Error("WithHint(nil) should return nil")
	}

	cause := errors.New("cause")
	err := WithHint(cause, "do this")
	if !errors.Is(err, cause) {
		t.Error("hinted error should unwrap to its cause")
	}
	if Hint(cause) != "" {
		t.Errorf("Hint(plain) = %q, want empty", Hint(cause))
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("invalid date %q", "2024-13-01")
	want := `Error: invalid date "2024-13-01"`
	if got != want {
		t.Errorf("Formatf() = %q, want %q", got, want)
	}
}

// runHelper re-executes the test binary with env set and returns its exit error and stderr.
func runHelper(t *testing.T, test, env string) (*exec.ExitError, string) {
	t.Helper()
	cmd := exec.Command(os.Args[0], "-test.run="+test)
	cmd.Env = append(os.Environ(), env+"=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil, stderr.String()
	}
	e, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("failed to run helper process: %v", err)
	}
	return e, stderr.String()
}

func TestFatal(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL") == "1" {
		Fatal(WithHint(errors.New("test error"), "check the logs"))
		return
	}

	e, stderr := runHelper(t, "TestFatal$", "GO_TEST_FATAL")
	if e == nil || e.ExitCode() != 1 {
		t.Fatalf("Fatal() should exit with code 1, got %v", e)
	}
	if !strings.Contains(stderr, "Error: test error") || !strings.Contains(stderr, "Hint: check the logs") {
		t.Errorf("Fatal() stderr = %q", stderr)
	}
}

func TestFatal_NilError(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL_NIL") == "1" {
		Fatal(nil)
		os.Exit(0)
	}

	if e, _ := runHelper(t, "TestFatal_NilError", "GO_TEST_FATAL_NIL"); e != nil {
		t.Errorf("Fatal(nil) should not exit, but got: %v", e)
	}
}

func TestFatalf(t *testing.T) {
	if os.Getenv("GO_TEST_FATALF") == "1" {
		Fatalf("no log for %s", "2024-03-10")
		return
	}

	e, stderr := runHelper(t, "TestFatalf", "GO_TEST_FATALF")
	if e == nil || e.ExitCode() != 1 {
		t.Fatalf("Fatalf() should exit with code 1, got %v", e)
	}
	if !strings.Contains(stderr, "Error: no log for 2024-03-10") {
		t.Errorf("Fatalf() stderr = %q", stderr)
	}
}
