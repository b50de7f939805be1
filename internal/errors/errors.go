package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/streakly/internal/logger"
)

var (
	// ErrHabitNotFound is returned when a habit id or name is unknown
	ErrHabitNotFound = errors.New("habit not found")
	// ErrInvalidHabit is returned when a create-habit request fails validation
	ErrInvalidHabit = errors.New("invalid habit")
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
