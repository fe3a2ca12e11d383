package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/utils"
)

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
	seq       int
}

// Manager keeps export documents in a backup directory
type Manager struct {
	svc       *Service
	backupDir string
	now       func() time.Time
}

// NewManager creates a manager writing into backupDir
func NewManager(svc *Service, backupDir string) *Manager {
	return &Manager{svc: svc, backupDir: backupDir, now: svc.now}
}

// DefaultDir returns the backup directory for a storage location.
func DefaultDir(configPath string) (string, error) {
	dir, err := utils.ConfigDir(configPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.BackupDirName), nil
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

// CreateBackup writes a new backup and removes the oldest beyond MaxBackups
func (m *Manager) CreateBackup(ctx context.Context) (string, error) {
	return m.createBackup(ctx, false)
}

// skipRotation keeps the pre-restore snapshot from evicting the file being restored
func (m *Manager) createBackup(ctx context.Context, skipRotation bool) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path, err := m.nextPath()
	if err != nil {
		return "", err
	}

	doc, err := m.svc.Export(ctx)
	if err != nil {
		return "", err
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	if err := WriteDocument(f, doc); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("failed to sync backup file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to close backup file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to finalize backup file: %w", err)
	}

	log := logger.For("backup")
	log.Info("Backup created", "path", path)

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			log.Warn("Failed to rotate old backups", "error", err)
		}
	}
	return path, nil
}

// nextPath picks a free file name: minute precision first, then seconds,
// then a counter.
func (m *Manager) nextPath() (string, error) {
	now := m.now()
	name := func(stamp string, counter int) string {
		if counter > 0 {
			stamp = fmt.Sprintf("%s-%d", stamp, counter)
		}
		return filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
	}

	path := name(now.Format("20060102-1504"), 0)
	if !exists(path) {
		return path, nil
	}

	stamp := now.Format("20060102-150405")
	for counter := 0; counter <= 100; counter++ {
		path = name(stamp, counter)
		if !exists(path) {
			return path, nil
		}
	}
	return "", errors.New("failed to generate unique backup filename")
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ListBackups returns all backups, newest first
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if errors.Is(err, os.ErrNotExist) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
			continue
		}

		stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)
		timestamp, seq, ok := parseStamp(stamp)
		if !ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Path:      filepath.Join(m.backupDir, name),
			Timestamp: timestamp,
			Size:      info.Size(),
			seq:       seq,
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		if !backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Timestamp.After(backups[j].Timestamp)
		}
		return backups[i].seq > backups[j].seq
	})
	return backups, nil
}

// parseStamp accepts YYYYMMDD-HHMM, YYYYMMDD-HHMMSS and either with a
// trailing -N counter. The returned sequence orders files sharing a
// timestamp: minute-precision names are always written first.
func parseStamp(stamp string) (time.Time, int, bool) {
	parts := strings.Split(stamp, "-")
	seq := 0
	switch len(parts) {
	case 2:
	case 3:
		n, err := strconv.Atoi(parts[2])
		if err != nil {
			return time.Time{}, 0, false
		}
		seq = n + 1
	default:
		return time.Time{}, 0, false
	}

	base := parts[0] + "-" + parts[1]
	if t, err := time.ParseInLocation("20060102-1504", base, time.Local); err == nil && len(parts) == 2 {
		return t, -1, true
	}
	t, err := time.ParseInLocation("20060102-150405", base, time.Local)
	if err != nil {
		return time.Time{}, 0, false
	}
	return t, seq, true
}

func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	if len(backups) <= constants.MaxBackups {
		return nil
	}
	for _, b := range backups[constants.MaxBackups:] {
		if err := os.Remove(b.Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", b.Path, err)
		}
	}
	return nil
}

// Resolve maps a path or a file name inside the backup directory to a path.
func (m *Manager) Resolve(ref string) (string, error) {
	if exists(ref) {
		return ref, nil
	}
	candidate := filepath.Join(m.backupDir, filepath.Base(ref))
	if exists(candidate) {
		return candidate, nil
	}
	return "", fmt.Errorf("backup file does not exist: %s", ref)
}

// RestoreBackup snapshots the current data, then merges the backup at ref.
// The backup is decoded and version-checked before the snapshot is taken.
func (m *Manager) RestoreBackup(ctx context.Context, ref string) (string, Summary, error) {
	path, err := m.Resolve(ref)
	if err != nil {
		return "", Summary{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", Summary{}, fmt.Errorf("failed to open backup: %w", err)
	}
	doc, err := ReadDocument(f)
	f.Close()
	if err != nil {
		return "", Summary{}, fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}
	if err := doc.check(constants.SchemaVersion); err != nil {
		return "", Summary{}, err
	}

	snapshot, err := m.createBackup(ctx, true)
	if err != nil {
		return "", Summary{}, fmt.Errorf("failed to back up current data before restore: %w", err)
	}

	sum, err := m.svc.Merge(ctx, doc)
	if err != nil {
		return snapshot, Summary{}, err
	}
	return snapshot, sum, nil
}
