package goals

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

func setupService(t *testing.T) (*Service, storage.Provider) {
	t.Helper()
	store := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return New(store, time.UTC), store
}

func addHabit(t *testing.T, store storage.Provider, habitType models.HabitType) string {
	t.Helper()
	created := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	h := models.Habit{ID: uuid.New().String(), Title: "Habit " + string(habitType), Type: habitType, CreatedAt: created, UpdatedAt: created}
	if err := store.SaveHabit(context.Background(), h); err != nil {
		t.Fatalf("SaveHabit failed: %v", err)
	}
	return h.ID
}

func addSession(t *testing.T, store storage.Provider, habitID string, start time.Time, seconds int64) {
	t.Helper()
	s := models.TimerSession{ID: uuid.New().String(), HabitID: habitID, StartTime: start, EndTime: start.Add(time.Duration(seconds) * time.Second), DurationSec: seconds}
	if err := store.SaveTimerSession(context.Background(), s); err != nil {
		t.Fatalf("SaveTimerSession failed: %v", err)
	}
}

func addCompleted(t *testing.T, store storage.Provider, habitID, date string) {
	t.Helper()
	task := models.TaskInstance{ID: uuid.New().String(), HabitID: habitID, Date: date, Status: models.StatusCompleted}
	if _, err := store.CreateTaskIfAbsent(context.Background(), task); err != nil {
		t.Fatalf("CreateTaskIfAbsent failed: %v", err)
	}
}

func saveGoal(t *testing.T, store storage.Provider, habitID *string, target float64, start string) string {
	t.Helper()
	g := models.Goal{ID: uuid.New().String(), Title: "Goal", HabitID: habitID, TargetValue: target, StartDate: start, Status: models.GoalActive}
	if err := store.SaveGoal(context.Background(), g); err != nil {
		t.Fatalf("SaveGoal failed: %v", err)
	}
	return g.ID
}

func getGoal(t *testing.T, store storage.Provider, id string) models.Goal {
	t.Helper()
	g, err := store.GetGoal(context.Background(), id)
	if err != nil {
		t.Fatalf("GetGoal failed: %v", err)
	}
	return g
}

func TestUpdateGoalProgress_Duration(t *testing.T) {
	ctx := context.Background()
	svc, store := setupService(t)
	habit := addHabit(t, store, models.HabitDuration)

	addSession(t, store, habit, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 600)
	addSession(t, store, habit, time.Date(2024, 6, 2, 18, 0, 0, 0, time.UTC), 900)
	addSession(t, store, habit, time.Date(2024, 5, 31, 23, 0, 0, 0, time.UTC), 3000) // before the goal

	goalID := saveGoal(t, store, &habit, 20, "2024-06-01")
	if err := svc.UpdateGoalProgress(ctx, goalID); err != nil {
		t.Fatalf("UpdateGoalProgress failed: %v", err)
	}

	g := getGoal(t, store, goalID)
	if g.CurrentValue != 25 {
		t.Errorf("CurrentValue = %v, want 25", g.CurrentValue)
	}
	if g.Status != models.GoalAchieved {
		t.Errorf("Status = %s, want achieved", g.Status)
	}
}

func TestUpdateGoalProgress_CountRevertsToActive(t *testing.T) {
	ctx := context.Background()
	svc, store := setupService(t)
	habit := addHabit(t, store, models.HabitCount)

	addCompleted(t, store, habit, "2024-06-01")
	addCompleted(t, store, habit, "2024-06-02")
	addCompleted(t, store, habit, "2024-05-31") // before the goal
	skipped := models.TaskInstance{ID: uuid.New().String(), HabitID: habit, Date: "2024-06-03", Status: models.StatusSkipped}
	if _, err := store.CreateTaskIfAbsent(ctx, skipped); err != nil {
		t.Fatalf("CreateTaskIfAbsent failed: %v", err)
	}

	goalID := saveGoal(t, store, &habit, 3, "2024-06-01")
	g := getGoal(t, store, goalID)
	g.Status = models.GoalAchieved
	if err := store.SaveGoal(ctx, g); err != nil {
		t.Fatalf("SaveGoal failed: %v", err)
	}

	if err := svc.UpdateGoalProgress(ctx, goalID); err != nil {
		t.Fatalf("UpdateGoalProgress failed: %v", err)
	}
	g = getGoal(t, store, goalID)
	if g.CurrentValue != 2 || g.Status != models.GoalActive {
		t.Errorf("got %v/%s, want 2/active", g.CurrentValue, g.Status)
	}
}

func TestUpdateGoalProgress_NoOps(t *testing.T) {
	ctx := context.Background()
	svc, store := setupService(t)

	if err := svc.UpdateGoalProgress(ctx, "missing"); err != nil {
		t.Errorf("expected missing goal to be a no-op, got %v", err)
	}

	unlinked := saveGoal(t, store, nil, 5, "2024-06-01")
	if err := svc.UpdateGoalProgress(ctx, unlinked); err != nil {
		t.Fatalf("UpdateGoalProgress failed: %v", err)
	}
	if g := getGoal(t, store, unlinked); g.CurrentValue != 0 || g.Status != models.GoalActive {
		t.Errorf("unlinked goal changed: %+v", g)
	}
}

func TestUpdateGoalProgress_AbandonedStaysAbandoned(t *testing.T) {
	ctx := context.Background()
	svc, store := setupService(t)
	habit := addHabit(t, store, models.HabitBoolean)
	addCompleted(t, store, habit, "2024-06-01")

	goalID := saveGoal(t, store, &habit, 1, "2024-06-01")
	if err := svc.AbandonGoal(ctx, goalID); err != nil {
		t.Fatalf("AbandonGoal failed: %v", err)
	}
	if err := svc.UpdateGoalProgress(ctx, goalID); err != nil {
		t.Fatalf("UpdateGoalProgress failed: %v", err)
	}

	g := getGoal(t, store, goalID)
	if g.Status != models.GoalAbandoned {
		t.Errorf("Status = %s, want abandoned", g.Status)
	}
	if g.CurrentValue != 1 {
		t.Errorf("CurrentValue = %v, want 1", g.CurrentValue)
	}

	if err := svc.AbandonGoal(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateGoal(t *testing.T) {
	ctx := context.Background()
	svc, store := setupService(t)
	habit := addHabit(t, store, models.HabitBoolean)
	addCompleted(t, store, habit, "2024-06-01")

	id, err := svc.CreateGoal(ctx, GoalInput{Title: "  First check-in ", HabitID: &habit, TargetValue: 1, StartDate: "2024-06-01"})
	if err != nil {
		t.Fatalf("CreateGoal failed: %v", err)
	}
	g := getGoal(t, store, id)
	if g.Title != "First check-in" || g.Status != models.GoalAchieved || g.CurrentValue != 1 {
		t.Errorf("unexpected goal: %+v", g)
	}

	if _, err := svc.CreateGoal(ctx, GoalInput{Title: "", TargetValue: 1, StartDate: "2024-06-01"}); !errors.Is(err, validation.ErrInvalid) {
		t.Errorf("expected validation error for empty title, got %v", err)
	}
	if _, err := svc.CreateGoal(ctx, GoalInput{Title: "Neg", TargetValue: -1, StartDate: "2024-06-01"}); !errors.Is(err, validation.ErrInvalid) {
		t.Errorf("expected validation error for negative target, got %v", err)
	}
	missing := "missing"
	if _, err := svc.CreateGoal(ctx, GoalInput{Title: "Ghost", HabitID: &missing, TargetValue: 1, StartDate: "2024-06-01"}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown habit, got %v", err)
	}

	active, err := svc.ListActiveGoals(ctx)
	if err != nil {
		t.Fatalf("ListActiveGoals failed: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("expected no active goals, got %d", len(active))
	}
}

func TestRefreshAll(t *testing.T) {
	ctx := context.Background()
	svc, store := setupService(t)
	habit := addHabit(t, store, models.HabitBoolean)
	addCompleted(t, store, habit, "2024-06-01")
	addCompleted(t, store, habit, "2024-06-02")

	first := saveGoal(t, store, &habit, 2, "2024-06-01")
	second := saveGoal(t, store, &habit, 5, "2024-06-01")
	abandoned := saveGoal(t, store, &habit, 1, "2024-06-01")
	if err := svc.AbandonGoal(ctx, abandoned); err != nil {
		t.Fatalf("AbandonGoal failed: %v", err)
	}

	n, err := svc.RefreshAll(ctx)
	if err != nil {
		t.Fatalf("RefreshAll failed: %v", err)
	}
	if n != 2 {
		t.Errorf("refreshed %d goals, want 2", n)
	}
	if g := getGoal(t, store, first); g.Status != models.GoalAchieved {
		t.Errorf("first goal status = %s, want achieved", g.Status)
	}
	if g := getGoal(t, store, second); g.Status != models.GoalActive || g.CurrentValue != 2 {
		t.Errorf("second goal = %v/%s, want 2/active", g.CurrentValue, g.Status)
	}
	if g := getGoal(t, store, abandoned); g.CurrentValue != 0 {
		t.Errorf("abandoned goal was recomputed: %+v", g)
	}
}
