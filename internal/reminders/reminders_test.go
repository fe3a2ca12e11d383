package reminders

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
	"github.com/julianstephens/habitual/internal/validation"
)

// Saturday
const today = "2024-06-01"

func at(hour, minute int) time.Time {
	return time.Date(2024, 6, 1, hour, minute, 0, 0, time.UTC)
}

func setupPlanner(t *testing.T) (*Planner, storage.Provider) {
	t.Helper()
	store := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return New(store, time.UTC), store
}

func addHabitWithTask(t *testing.T, store storage.Provider, title string, status models.TaskStatus) models.Habit {
	t.Helper()
	ctx := context.Background()
	h := models.Habit{ID: uuid.New().String(), Title: title, Type: models.HabitBoolean, CreatedAt: at(0, 0), UpdatedAt: at(0, 0)}
	if err := store.SaveHabit(ctx, h); err != nil {
		t.Fatalf("SaveHabit failed: %v", err)
	}
	task := models.TaskInstance{ID: uuid.New().String(), HabitID: h.ID, Date: today, Status: status}
	if _, err := store.CreateTaskIfAbsent(ctx, task); err != nil {
		t.Fatalf("CreateTaskIfAbsent failed: %v", err)
	}
	return h
}

func updateSettings(t *testing.T, store storage.Provider, fn func(*models.Settings)) {
	t.Helper()
	ctx := context.Background()
	settings, err := store.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	fn(&settings)
	if err := store.SaveSettings(ctx, settings); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
}

func TestDueReminders_DefaultTime(t *testing.T) {
	ctx := context.Background()
	p, store := setupPlanner(t)
	h := addHabitWithTask(t, store, "Water plants", models.StatusPending)
	addHabitWithTask(t, store, "Done already", models.StatusCompleted)

	got, err := p.DueReminders(ctx, at(7, 59))
	if err != nil {
		t.Fatalf("DueReminders failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected nothing before 08:00, got %+v", got)
	}

	got, err = p.DueReminders(ctx, at(8, 0))
	if err != nil {
		t.Fatalf("DueReminders failed: %v", err)
	}
	if len(got) != 1 || got[0].HabitID != h.ID || got[0].At != "08:00" || got[0].ScheduleID != "" {
		t.Errorf("unexpected reminders: %+v", got)
	}
}

func TestDueReminders_Schedules(t *testing.T) {
	ctx := context.Background()
	p, store := setupPlanner(t)
	h := addHabitWithTask(t, store, "Run", models.StatusPending)

	morning, err := p.AddSchedule(ctx, h.ID, "06:30", nil)
	if err != nil {
		t.Fatalf("AddSchedule failed: %v", err)
	}
	if _, err := p.AddSchedule(ctx, h.ID, "07:00", []time.Weekday{time.Monday}); err != nil {
		t.Fatalf("AddSchedule failed: %v", err)
	}
	if _, err := p.AddSchedule(ctx, h.ID, "18:00", []time.Weekday{time.Saturday}); err != nil {
		t.Fatalf("AddSchedule failed: %v", err)
	}

	got, err := p.DueReminders(ctx, at(12, 0))
	if err != nil {
		t.Fatalf("DueReminders failed: %v", err)
	}
	if len(got) != 1 || got[0].ScheduleID != morning {
		t.Errorf("expected only the 06:30 reminder at noon, got %+v", got)
	}

	got, err = p.DueReminders(ctx, at(18, 5))
	if err != nil {
		t.Fatalf("DueReminders failed: %v", err)
	}
	if len(got) != 2 || got[0].At != "06:30" || got[1].At != "18:00" {
		t.Errorf("unexpected evening reminders: %+v", got)
	}
}

func TestDueReminders_DisabledSchedulesSuppressDefault(t *testing.T) {
	ctx := context.Background()
	p, store := setupPlanner(t)
	h := addHabitWithTask(t, store, "Floss", models.StatusPending)

	s := models.NotificationSchedule{ID: uuid.New().String(), HabitID: h.ID, Time: "06:00", Enabled: false}
	if err := store.SaveNotificationSchedule(ctx, s); err != nil {
		t.Fatalf("SaveNotificationSchedule failed: %v", err)
	}

	got, err := p.DueReminders(ctx, at(20, 0))
	if err != nil {
		t.Fatalf("DueReminders failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no reminders, got %+v", got)
	}
}

func TestDueReminders_InactiveHabits(t *testing.T) {
	ctx := context.Background()
	p, store := setupPlanner(t)
	paused := addHabitWithTask(t, store, "Paused", models.StatusPending)
	archived := addHabitWithTask(t, store, "Archived", models.StatusPending)

	paused.Paused = true
	archived.Archived = true
	for _, h := range []models.Habit{paused, archived} {
		if err := store.SaveHabit(ctx, h); err != nil {
			t.Fatalf("SaveHabit failed: %v", err)
		}
	}

	got, err := p.DueReminders(ctx, at(9, 0))
	if err != nil {
		t.Fatalf("DueReminders failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no reminders for inactive habits, got %+v", got)
	}
}

func TestDueReminders_Settings(t *testing.T) {
	ctx := context.Background()
	p, store := setupPlanner(t)
	addHabitWithTask(t, store, "Read", models.StatusPending)

	updateSettings(t, store, func(s *models.Settings) { s.NotificationsEnabled = false })
	if got, _ := p.DueReminders(ctx, at(9, 0)); len(got) != 0 {
		t.Errorf("expected nothing with notifications disabled, got %+v", got)
	}

	updateSettings(t, store, func(s *models.Settings) {
		s.NotificationsEnabled = true
		s.QuietHoursStart = "08:30"
		s.QuietHoursEnd = "10:00"
	})
	if got, _ := p.DueReminders(ctx, at(9, 0)); len(got) != 0 {
		t.Errorf("expected nothing in quiet hours, got %+v", got)
	}
	if got, _ := p.DueReminders(ctx, at(10, 0)); len(got) != 1 {
		t.Errorf("expected a reminder after quiet hours, got %+v", got)
	}
}

func TestInQuietHours(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		minute     int
		want       bool
	}{
		{"disabled", "", "", 600, false},
		{"same bounds", "10:00", "10:00", 600, false},
		{"inside", "09:00", "17:00", 600, true},
		{"end exclusive", "09:00", "17:00", 17 * 60, false},
		{"wrap late", "22:00", "07:00", 23 * 60, true},
		{"wrap early", "22:00", "07:00", 6 * 60, true},
		{"wrap outside", "22:00", "07:00", 12 * 60, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := inQuietHours(tt.start, tt.end, tt.minute)
			if err != nil {
				t.Fatalf("inQuietHours failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("inQuietHours(%q, %q, %d) = %v, want %v", tt.start, tt.end, tt.minute, got, tt.want)
			}
		})
	}

	if _, err := inQuietHours("25:00", "07:00", 0); err == nil {
		t.Errorf("expected error for malformed bound")
	}
}

func TestScheduleManagement(t *testing.T) {
	ctx := context.Background()
	p, store := setupPlanner(t)
	h := addHabitWithTask(t, store, "Sleep", models.StatusPending)

	if _, err := p.AddSchedule(ctx, h.ID, "9pm", nil); !errors.Is(err, validation.ErrInvalid) {
		t.Errorf("expected validation error, got %v", err)
	}
	if _, err := p.AddSchedule(ctx, "missing", "21:00", nil); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	id, err := p.AddSchedule(ctx, h.ID, "21:00", []time.Weekday{time.Sunday, time.Saturday})
	if err != nil {
		t.Fatalf("AddSchedule failed: %v", err)
	}
	list, err := p.ListSchedules(ctx, h.ID)
	if err != nil {
		t.Fatalf("ListSchedules failed: %v", err)
	}
	if len(list) != 1 || len(list[0].DaysOfWeek) != 2 {
		t.Fatalf("unexpected schedules: %+v", list)
	}

	if err := p.DeleteSchedule(ctx, id); err != nil {
		t.Fatalf("DeleteSchedule failed: %v", err)
	}
	if list, _ := p.ListSchedules(ctx, ""); len(list) != 0 {
		t.Errorf("expected no schedules after delete, got %d", len(list))
	}
}
