package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/julianstephens/habitual/internal/models"
)

const goalColumns = `g.id, g.title, g.habit_id, g.target_value, g.current_value, g.start_date, g.end_date, g.status`

func scanGoal(row scanner, extra ...any) (models.Goal, error) {
	var g models.Goal
	var habitID, endDate sql.NullString
	var status string

	dest := []any{&g.ID, &g.Title, &habitID, &g.TargetValue, &g.CurrentValue, &g.StartDate, &endDate, &status}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return models.Goal{}, err
	}
	g.HabitID = stringPtr(habitID)
	g.EndDate = stringPtr(endDate)
	g.Status = models.GoalStatus(status)
	return g, nil
}

func (s *Store) SaveGoal(ctx context.Context, goal models.Goal) error {
	_, err := s.exec(ctx, `
		INSERT INTO goals (id, title, habit_id, target_value, current_value, start_date, end_date, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			habit_id = excluded.habit_id,
			target_value = excluded.target_value,
			current_value = excluded.current_value,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			status = excluded.status`,
		goal.ID, goal.Title, nullString(goal.HabitID), goal.TargetValue, goal.CurrentValue,
		goal.StartDate, nullString(goal.EndDate), string(goal.Status))
	if err != nil {
		return fmt.Errorf("failed to save goal: %w", err)
	}
	return nil
}

func (s *Store) GetGoal(ctx context.Context, id string) (models.Goal, error) {
	row, err := s.queryRow(ctx, "SELECT "+goalColumns+" FROM goals g WHERE g.id = ?", id)
	if err != nil {
		return models.Goal{}, err
	}
	g, err := scanGoal(row)
	if err != nil {
		return models.Goal{}, notFound(err)
	}
	return g, nil
}

// GetGoals returns goals joined with their habit's title. An empty status
// returns every goal.
func (s *Store) GetGoals(ctx context.Context, status models.GoalStatus) ([]models.GoalView, error) {
	query := `SELECT ` + goalColumns + `, COALESCE(h.title, '')
		FROM goals g
		LEFT JOIN habits h ON h.id = g.habit_id`
	var args []any
	if status != "" {
		query += " WHERE g.status = ?"
		args = append(args, string(status))
	}
	query += " ORDER BY g.start_date, g.title"

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	var goals []models.GoalView
	for rows.Next() {
		var v models.GoalView
		g, err := scanGoal(rows, &v.HabitTitle)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		v.Goal = g
		goals = append(goals, v)
	}
	return goals, rows.Err()
}

func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	if err := s.execOne(ctx, "DELETE FROM goals WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete goal %s: %w", id, err)
	}
	return nil
}
