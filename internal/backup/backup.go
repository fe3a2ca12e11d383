// Package backup exports the whole store to a JSON document and merges such
// documents back in. Manager keeps a rotating set of document files.
package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
)

// Summary counts the records merged per table.
type Summary struct {
	Habits        int
	Schedules     int
	Tasks         int
	Sessions      int
	Goals         int
	Reflections   int
	Notifications int
	Settings      int
}

func (s Summary) Total() int {
	return s.Habits + s.Schedules + s.Tasks + s.Sessions + s.Goals + s.Reflections + s.Notifications + s.Settings
}

type Service struct {
	store storage.Provider
	now   func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(store storage.Provider, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Export reads every table into a document stamped with the current schema
// version.
func (s *Service) Export(ctx context.Context) (Document, error) {
	doc := Document{
		Version:   constants.SchemaVersion,
		Timestamp: utils.FormatTimestamp(s.now()),
	}

	var err error
	if doc.Data.Habits, err = s.store.GetAllHabits(ctx, true); err != nil {
		return Document{}, err
	}

	schedules, err := s.store.GetAllHabitSchedules(ctx)
	if err != nil {
		return Document{}, err
	}
	for _, sc := range schedules {
		kind, config, err := models.EncodeRecurrence(sc.Rule)
		if err != nil {
			return Document{}, fmt.Errorf("failed to encode schedule %s: %w", sc.ID, err)
		}
		doc.Data.Schedules = append(doc.Data.Schedules, ScheduleRecord{ID: sc.ID, HabitID: sc.HabitID, FrequencyType: kind, FrequencyConfig: config})
	}

	if doc.Data.Tasks, err = s.store.GetTasks(ctx, storage.TaskFilter{}); err != nil {
		return Document{}, err
	}
	if doc.Data.Sessions, err = s.store.GetTimerSessions(ctx, storage.SessionFilter{}); err != nil {
		return Document{}, err
	}

	goals, err := s.store.GetGoals(ctx, "")
	if err != nil {
		return Document{}, err
	}
	for _, g := range goals {
		doc.Data.Goals = append(doc.Data.Goals, g.Goal)
	}

	if doc.Data.Reflections, err = s.store.GetReflectionEntries(ctx); err != nil {
		return Document{}, err
	}
	if doc.Data.Notifications, err = s.store.GetNotificationSchedules(ctx, ""); err != nil {
		return Document{}, err
	}

	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return Document{}, err
	}
	values := models.SettingsToMap(settings)
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		doc.Data.Settings = append(doc.Data.Settings, SettingRecord{Key: key, Value: values[key]})
	}

	return doc, nil
}

// WriteTo exports the store to w.
func (s *Service) WriteTo(ctx context.Context, w io.Writer) error {
	doc, err := s.Export(ctx)
	if err != nil {
		return err
	}
	return WriteDocument(w, doc)
}

// Import decodes a document from r and merges it.
func (s *Service) Import(ctx context.Context, r io.Reader) (Summary, error) {
	doc, err := ReadDocument(r)
	if err != nil {
		return Summary{}, err
	}
	return s.Merge(ctx, doc)
}

// Merge upserts every record of doc by id inside one transaction, parents
// before children. Documents from a newer schema are refused with an
// *ImportVersionError before anything is written. A task or schedule that
// collides with an existing row for the same habit (and date) updates that
// row instead of adding a second one.
func (s *Service) Merge(ctx context.Context, doc Document) (Summary, error) {
	if err := doc.check(constants.SchemaVersion); err != nil {
		return Summary{}, err
	}

	var sum Summary
	err := s.store.WithTx(ctx, func(tx storage.Provider) error {
		for _, h := range doc.Data.Habits {
			if err := tx.SaveHabit(ctx, h); err != nil {
				return err
			}
			sum.Habits++
		}

		for _, rec := range doc.Data.Schedules {
			schedule := models.HabitSchedule{
				ID:      rec.ID,
				HabitID: rec.HabitID,
				Rule:    models.DecodeRecurrence(rec.FrequencyType, rec.FrequencyConfig),
			}
			existing, err := tx.GetHabitSchedule(ctx, rec.HabitID)
			switch {
			case err == nil:
				schedule.ID = existing.ID
			case !errors.Is(err, storage.ErrNotFound):
				return err
			}
			if err := tx.SaveHabitSchedule(ctx, schedule); err != nil {
				return err
			}
			sum.Schedules++
		}

		for _, task := range doc.Data.Tasks {
			existing, err := tx.GetTaskForHabitOnDate(ctx, task.HabitID, task.Date)
			switch {
			case err == nil:
				task.ID = existing.ID
			case !errors.Is(err, storage.ErrNotFound):
				return err
			}
			if err := tx.SaveTask(ctx, task); err != nil {
				return err
			}
			sum.Tasks++
		}

		for _, session := range doc.Data.Sessions {
			if err := tx.SaveTimerSession(ctx, session); err != nil {
				return err
			}
			sum.Sessions++
		}
		for _, goal := range doc.Data.Goals {
			if err := tx.SaveGoal(ctx, goal); err != nil {
				return err
			}
			sum.Goals++
		}
		for _, entry := range doc.Data.Reflections {
			if err := tx.SaveReflectionEntry(ctx, entry); err != nil {
				return err
			}
			sum.Reflections++
		}
		for _, n := range doc.Data.Notifications {
			if err := tx.SaveNotificationSchedule(ctx, n); err != nil {
				return err
			}
			sum.Notifications++
		}

		if len(doc.Data.Settings) > 0 {
			current, err := tx.GetSettings(ctx)
			if err != nil {
				return err
			}
			merged := models.SettingsToMap(current)
			for _, rec := range doc.Data.Settings {
				merged[rec.Key] = rec.Value
			}
			settings, err := models.MapToSettings(merged)
			if err != nil {
				return fmt.Errorf("invalid settings in backup: %w", err)
			}
			if err := tx.SaveSettings(ctx, settings); err != nil {
				return err
			}
			sum.Settings = len(doc.Data.Settings)
		}
		return nil
	})
	if err != nil {
		return Summary{}, fmt.Errorf("failed to import backup: %w", err)
	}

	logger.For("backup").Info("Backup imported", "version", doc.Version, "exported_at", doc.Timestamp, "records", sum.Total())
	return sum, nil
}
