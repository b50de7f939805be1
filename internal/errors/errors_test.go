package errors

import (
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
			err:      errors.New("something went wrong"),
			expected: "Error: something went wrong",
		},
		{
			name:     "wrapped sentinel",
			err:      fmt.Errorf("habit %q: %w", "reading", ErrHabitNotFound),
			expected: `Error: habit "reading": habit not found`,
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

func TestFormatf(t *testing.T) {
	got := Formatf("failed to load %s", "habits.yaml")
	if got != "Error: failed to load habits.yaml" {
		t.Errorf("Formatf() = %q", got)
	}
}

func TestSentinelsWrap(t *testing.T) {
	err := fmt.Errorf("add habit: %w", ErrInvalidHabit)
	if !errors.Is(err, ErrInvalidHabit) {
		t.Error("expected wrapped error to match ErrInvalidHabit")
	}
	if errors.Is(err, ErrHabitNotFound) {
		t.Error("wrapped ErrInvalidHabit must not match ErrHabitNotFound")
	}
}

func TestFatal(t *testing.T) {
	if os.Getenv("TEST_FATAL") == "1" {
		Fatal(errors.New("test fatal error"))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal")
	cmd.Env = append(os.Environ(), "TEST_FATAL=1")
	out, err := cmd.CombinedOutput()

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 1 {
		t.Fatalf("expected exit code 1, got %v", err)
	}
	if !strings.Contains(string(out), "Error: test fatal error") {
		t.Errorf("expected formatted error on stderr, got %q", out)
	}
}

func TestFatalNilIsNoop(t *testing.T) {
	Fatal(nil)
}
