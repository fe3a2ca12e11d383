package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/tracker"
)

// Format formats an error message with a consistent "Error: " prefix and,
// for known failures, a hint on the following line.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += "\nHint: " + hint
	}
	return msg
}

// Hint suggests a next step for errors the user can act on.
func Hint(err error) string {
	switch {
	case errors.Is(err, backup.ErrIncompatibleVersion):
		return "the backup was written by a newer version of habitual; upgrade before importing it"
	case errors.Is(err, tracker.ErrInvalidTransition):
		return "undo the task first, or turn off strict transitions with 'habitual settings --strict-transitions=false'"
	case errors.Is(err, models.ErrConfiguration):
		return "fix the habit's schedule with 'habitual habit edit --frequency ...'"
	case errors.Is(err, storage.ErrNotFound):
		return "list habits with 'habitual habit list' or goals with 'habitual goal list --all'"
	}
	return ""
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
