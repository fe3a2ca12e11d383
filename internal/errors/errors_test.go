package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/tracker"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, ""},
		{"simple error", errors.New("database is locked"), "Error: database is locked"},
		{"wrapped error", fmt.Errorf("failed to update task: %w", errors.New("database is locked")), "Error: failed to update task: database is locked"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Format(tt.err); result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatAddsHint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", fmt.Errorf("failed to load goal g1: %w", storage.ErrNotFound), "goal list"},
		{"newer backup", &backup.ImportVersionError{Version: 3, Supported: 1}, "newer version"},
		{"strict transition", fmt.Errorf("%w: completed to skipped", tracker.ErrInvalidTransition), "strict-transitions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(tt.err)
			if !strings.HasPrefix(got, "Error: ") || !strings.Contains(got, "\nHint: ") {
				t.Fatalf("Format() = %q, want an error line and a hint", got)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("Format() = %q, want hint mentioning %q", got, tt.want)
			}
		})
	}
}
