package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

const taskColumns = `t.id, t.habit_id, t.date, t.status, t.completion_value, t.notes, t.completed_at`

func scanTask(row scanner, extra ...any) (models.TaskInstance, error) {
	var t models.TaskInstance
	var status string
	var value sql.NullFloat64
	var completedAt sql.NullString

	dest := []any{&t.ID, &t.HabitID, &t.Date, &status, &value, &t.Notes, &completedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return models.TaskInstance{}, err
	}

	t.Status = models.TaskStatus(status)
	t.CompletionValue = floatPtr(value)

	var err error
	if t.CompletedAt, err = parseNullTimestamp("completed_at", completedAt); err != nil {
		return models.TaskInstance{}, err
	}
	return t, nil
}

func (s *Store) CreateTaskIfAbsent(ctx context.Context, task models.TaskInstance) (bool, error) {
	res, err := s.exec(ctx, `
		INSERT INTO task_instances (id, habit_id, date, status, completion_value, notes, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (habit_id, date) DO NOTHING`,
		task.ID, task.HabitID, task.Date, string(task.Status), nullFloat(task.CompletionValue),
		task.Notes, nullTimestamp(task.CompletedAt))
	if err != nil {
		return false, fmt.Errorf("failed to create task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to create task: %w", err)
	}
	return n > 0, nil
}

// SaveTask inserts task or replaces the row with the same id.
func (s *Store) SaveTask(ctx context.Context, task models.TaskInstance) error {
	_, err := s.exec(ctx, `
		INSERT INTO task_instances (id, habit_id, date, status, completion_value, notes, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			habit_id = excluded.habit_id,
			date = excluded.date,
			status = excluded.status,
			completion_value = excluded.completion_value,
			notes = excluded.notes,
			completed_at = excluded.completed_at`,
		task.ID, task.HabitID, task.Date, string(task.Status), nullFloat(task.CompletionValue),
		task.Notes, nullTimestamp(task.CompletedAt))
	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

func (s *Store) GetTask(ctx context.Context, id string) (models.TaskInstance, error) {
	row, err := s.queryRow(ctx, "SELECT "+taskColumns+" FROM task_instances t WHERE t.id = ?", id)
	if err != nil {
		return models.TaskInstance{}, err
	}
	t, err := scanTask(row)
	if err != nil {
		return models.TaskInstance{}, notFound(err)
	}
	return t, nil
}

func (s *Store) GetTaskForHabitOnDate(ctx context.Context, habitID, date string) (models.TaskInstance, error) {
	row, err := s.queryRow(ctx,
		"SELECT "+taskColumns+" FROM task_instances t WHERE t.habit_id = ? AND t.date = ?", habitID, date)
	if err != nil {
		return models.TaskInstance{}, err
	}
	t, err := scanTask(row)
	if err != nil {
		return models.TaskInstance{}, notFound(err)
	}
	return t, nil
}

func (s *Store) GetTasksForDate(ctx context.Context, date string) ([]models.TaskView, error) {
	rows, err := s.query(ctx, `
		SELECT `+taskColumns+`, h.title, h.type, h.target_value, h.target_unit, h.color, h.icon
		FROM task_instances t
		JOIN habits h ON h.id = t.habit_id
		WHERE t.date = ?
		ORDER BY h.title, t.id`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks for %s: %w", date, err)
	}
	defer rows.Close()

	var views []models.TaskView
	for rows.Next() {
		var v models.TaskView
		var habitType string
		var target sql.NullFloat64
		task, err := scanTask(rows, &v.Title, &habitType, &target, &v.TargetUnit, &v.Color, &v.Icon)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		v.TaskInstance = task
		v.Type = models.HabitType(habitType)
		v.TargetValue = floatPtr(target)
		views = append(views, v)
	}
	return views, rows.Err()
}

// GetTasks returns tasks matching filter ordered by date, oldest first.
func (s *Store) GetTasks(ctx context.Context, filter storage.TaskFilter) ([]models.TaskInstance, error) {
	var where []string
	var args []any
	if filter.HabitID != "" {
		where = append(where, "t.habit_id = ?")
		args = append(args, filter.HabitID)
	}
	if filter.FromDate != "" {
		where = append(where, "t.date >= ?")
		args = append(args, filter.FromDate)
	}
	if filter.ToDate != "" {
		where = append(where, "t.date <= ?")
		args = append(args, filter.ToDate)
	}
	if filter.Status != "" {
		where = append(where, "t.status = ?")
		args = append(args, string(filter.Status))
	}

	query := "SELECT " + taskColumns + " FROM task_instances t"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY t.date, t.habit_id"

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.TaskInstance
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdateTaskStatus sets status and completed_at. The completion value is only
// written when value is non-nil. Returns storage.ErrNotFound for an unknown id.
func (s *Store) UpdateTaskStatus(ctx context.Context, id string, status models.TaskStatus, value *float64, completedAt *time.Time) error {
	var err error
	if value != nil {
		err = s.execOne(ctx,
			"UPDATE task_instances SET status = ?, completed_at = ?, completion_value = ? WHERE id = ?",
			string(status), nullTimestamp(completedAt), *value, id)
	} else {
		err = s.execOne(ctx,
			"UPDATE task_instances SET status = ?, completed_at = ? WHERE id = ?",
			string(status), nullTimestamp(completedAt), id)
	}
	if err != nil {
		return fmt.Errorf("failed to update task %s: %w", id, err)
	}
	return nil
}
