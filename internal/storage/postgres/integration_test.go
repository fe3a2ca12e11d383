package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

// TestStore_Integration runs against a real database.
// Set HABITUAL_TEST_POSTGRES to run it, e.g.
// HABITUAL_TEST_POSTGRES="postgres://habitual@localhost:5432/habitual_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("HABITUAL_TEST_POSTGRES")
	if connStr == "" {
		t.Skip("HABITUAL_TEST_POSTGRES not set, skipping PostgreSQL integration test")
	}

	ctx := context.Background()
	store := New(connStr)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	now := time.Now().UTC().Truncate(time.Second)
	habit := models.Habit{
		ID:        uuid.New().String(),
		Title:     "Integration " + now.Format(time.RFC3339),
		Type:      models.HabitBoolean,
		CreatedAt: now,
		UpdatedAt: now,
	}
	t.Cleanup(func() { _ = store.DeleteHabit(context.Background(), habit.ID) })

	if err := store.SaveHabit(ctx, habit); err != nil {
		t.Fatalf("SaveHabit failed: %v", err)
	}
	if err := store.SaveHabitSchedule(ctx, models.HabitSchedule{ID: uuid.New().String(), HabitID: habit.ID, Rule: models.Interval{Every: 2}}); err != nil {
		t.Fatalf("SaveHabitSchedule failed: %v", err)
	}

	t.Run("TaskUniqueness", func(t *testing.T) {
		task := models.TaskInstance{ID: uuid.New().String(), HabitID: habit.ID, Date: "2024-06-01", Status: models.StatusPending}
		created, err := store.CreateTaskIfAbsent(ctx, task)
		if err != nil || !created {
			t.Fatalf("CreateTaskIfAbsent = %v, %v; want true, nil", created, err)
		}
		task.ID = uuid.New().String()
		created, err = store.CreateTaskIfAbsent(ctx, task)
		if err != nil || created {
			t.Fatalf("second CreateTaskIfAbsent = %v, %v; want false, nil", created, err)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := store.UpdateTaskStatus(ctx, uuid.New().String(), models.StatusCompleted, nil, &now)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Schedule", func(t *testing.T) {
		sch, err := store.GetHabitSchedule(ctx, habit.ID)
		if err != nil {
			t.Fatalf("GetHabitSchedule failed: %v", err)
		}
		if rule, ok := sch.Rule.(models.Interval); !ok || rule.Every != 2 {
			t.Errorf("expected Interval{2}, got %#v", sch.Rule)
		}
	})
}
