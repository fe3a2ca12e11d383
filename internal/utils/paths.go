package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/habitual/internal/constants"
)

// ConfigDir returns the directory holding logs and backups for a storage
// location: the directory of a database file, or the user config directory
// for anything that is not a file path.
func ConfigDir(configPath string) (string, error) {
	if strings.ContainsRune(configPath, filepath.Separator) {
		return filepath.Dir(configPath), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	return filepath.Join(dir, constants.AppName), nil
}
