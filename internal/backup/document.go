package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/julianstephens/habitual/internal/models"
)

// ErrIncompatibleVersion is matched by every ImportVersionError.
var ErrIncompatibleVersion = errors.New("incompatible backup version")

// ImportVersionError reports a document written by a newer schema.
type ImportVersionError struct {
	Version   int
	Supported int
}

func (e *ImportVersionError) Error() string {
	return fmt.Sprintf("backup version %d is newer than supported version %d, please upgrade habitual", e.Version, e.Supported)
}

func (e *ImportVersionError) Unwrap() error {
	return ErrIncompatibleVersion
}

// Document is the export format. Table names match the record names used
// by earlier exports so that documents stay interchangeable.
type Document struct {
	Version   int    `json:"version"`
	Timestamp string `json:"timestamp"`
	Data      Tables `json:"data"`
}

type Tables struct {
	Habits        []models.Habit                `json:"Habit"`
	Schedules     []ScheduleRecord              `json:"HabitSchedule"`
	Tasks         []models.TaskInstance         `json:"DailyTaskInstance"`
	Sessions      []models.TimerSession         `json:"TimerSession"`
	Goals         []models.Goal                 `json:"Goal"`
	Reflections   []models.ReflectionEntry      `json:"ReflectionEntry"`
	Notifications []models.NotificationSchedule `json:"NotificationSchedule"`
	Settings      []SettingRecord               `json:"UserSettings"`
}

// ScheduleRecord is a habit schedule in its persisted (type, config) form.
type ScheduleRecord struct {
	ID              string               `json:"id"`
	HabitID         string               `json:"habitId"`
	FrequencyType   models.FrequencyType `json:"frequencyType"`
	FrequencyConfig string               `json:"frequencyConfig"`
}

type SettingRecord struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ReadDocument decodes a document without touching storage.
func ReadDocument(r io.Reader) (Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("failed to decode backup: %w", err)
	}
	return doc, nil
}

// WriteDocument encodes doc as indented JSON.
func WriteDocument(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	return nil
}

// check rejects documents that cannot be merged, before any write happens.
func (d Document) check(supported int) error {
	if d.Version > supported {
		return &ImportVersionError{Version: d.Version, Supported: supported}
	}

	missing := func(table string, i int) error {
		return fmt.Errorf("%s record %d has no id", table, i)
	}
	for i, r := range d.Data.Habits {
		if r.ID == "" {
			return missing("Habit", i)
		}
		if !r.Type.Valid() {
			return fmt.Errorf("habit %s has invalid type %q", r.ID, r.Type)
		}
	}
	for i, r := range d.Data.Schedules {
		if r.ID == "" {
			return missing("HabitSchedule", i)
		}
	}
	for i, r := range d.Data.Tasks {
		if r.ID == "" {
			return missing("DailyTaskInstance", i)
		}
		if !r.Status.Valid() {
			return fmt.Errorf("task %s has invalid status %q", r.ID, r.Status)
		}
	}
	for i, r := range d.Data.Sessions {
		if r.ID == "" {
			return missing("TimerSession", i)
		}
	}
	for i, r := range d.Data.Goals {
		if r.ID == "" {
			return missing("Goal", i)
		}
	}
	for i, r := range d.Data.Reflections {
		if r.ID == "" {
			return missing("ReflectionEntry", i)
		}
	}
	for i, r := range d.Data.Notifications {
		if r.ID == "" {
			return missing("NotificationSchedule", i)
		}
	}
	return nil
}
