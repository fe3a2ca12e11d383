package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

const habitColumns = `h.id, h.title, h.description, h.icon, h.color, h.type, h.target_value,
	h.target_unit, h.archived, h.paused, h.created_at, h.updated_at`

func scanHabit(row scanner, extra ...any) (models.Habit, error) {
	var h models.Habit
	var habitType, createdAt, updatedAt string
	var target sql.NullFloat64

	dest := []any{&h.ID, &h.Title, &h.Description, &h.Icon, &h.Color, &habitType, &target,
		&h.TargetUnit, &h.Archived, &h.Paused, &createdAt, &updatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return models.Habit{}, err
	}

	h.Type = models.HabitType(habitType)
	h.TargetValue = floatPtr(target)

	var err error
	if h.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
		return models.Habit{}, err
	}
	if h.UpdatedAt, err = parseTimestamp("updated_at", updatedAt); err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

// SaveHabit inserts habit or replaces the row with the same id.
func (s *Store) SaveHabit(ctx context.Context, habit models.Habit) error {
	_, err := s.exec(ctx, `
		INSERT INTO habits (id, title, description, icon, color, type, target_value,
			target_unit, archived, paused, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			icon = excluded.icon,
			color = excluded.color,
			type = excluded.type,
			target_value = excluded.target_value,
			target_unit = excluded.target_unit,
			archived = excluded.archived,
			paused = excluded.paused,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`,
		habit.ID, habit.Title, habit.Description, habit.Icon, habit.Color, string(habit.Type),
		nullFloat(habit.TargetValue), habit.TargetUnit, habit.Archived, habit.Paused,
		utils.FormatTimestamp(habit.CreatedAt), utils.FormatTimestamp(habit.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to save habit: %w", err)
	}
	return nil
}

func (s *Store) GetHabit(ctx context.Context, id string) (models.Habit, error) {
	row, err := s.queryRow(ctx, "SELECT "+habitColumns+" FROM habits h WHERE h.id = ?", id)
	if err != nil {
		return models.Habit{}, err
	}
	h, err := scanHabit(row)
	if err != nil {
		return models.Habit{}, notFound(err)
	}
	return h, nil
}

func (s *Store) GetAllHabits(ctx context.Context, includeArchived bool) ([]models.Habit, error) {
	query := "SELECT " + habitColumns + " FROM habits h"
	var args []any
	if !includeArchived {
		query += " WHERE h.archived = ?"
		args = append(args, false)
	}
	query += " ORDER BY h.created_at, h.title"

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query habits: %w", err)
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

// DeleteHabit removes the habit. Schedules, tasks, sessions, notification
// schedules and linked reflection entries go with it; goals are unlinked.
func (s *Store) DeleteHabit(ctx context.Context, id string) error {
	if err := s.execOne(ctx, "DELETE FROM habits WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete habit %s: %w", id, err)
	}
	return nil
}

func (s *Store) SaveHabitSchedule(ctx context.Context, schedule models.HabitSchedule) error {
	kind, config, err := models.EncodeRecurrence(schedule.Rule)
	if err != nil {
		return err
	}
	_, err = s.exec(ctx, `
		INSERT INTO habit_schedules (id, habit_id, frequency_type, frequency_config)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			habit_id = excluded.habit_id,
			frequency_type = excluded.frequency_type,
			frequency_config = excluded.frequency_config`,
		schedule.ID, schedule.HabitID, string(kind), config)
	if err != nil {
		return fmt.Errorf("failed to save habit schedule: %w", err)
	}
	return nil
}

func scanSchedule(row scanner) (models.HabitSchedule, error) {
	var sch models.HabitSchedule
	var kind, config string
	if err := row.Scan(&sch.ID, &sch.HabitID, &kind, &config); err != nil {
		return models.HabitSchedule{}, err
	}
	sch.Rule = models.DecodeRecurrence(models.FrequencyType(kind), config)
	return sch, nil
}

// GetHabitSchedule returns the habit's first schedule. A habit owns a
// single schedule in practice even though the table allows more.
func (s *Store) GetHabitSchedule(ctx context.Context, habitID string) (models.HabitSchedule, error) {
	row, err := s.queryRow(ctx, `
		SELECT id, habit_id, frequency_type, frequency_config
		FROM habit_schedules WHERE habit_id = ? ORDER BY id LIMIT 1`, habitID)
	if err != nil {
		return models.HabitSchedule{}, err
	}
	sch, err := scanSchedule(row)
	if err != nil {
		return models.HabitSchedule{}, notFound(err)
	}
	return sch, nil
}

func (s *Store) GetAllHabitSchedules(ctx context.Context) ([]models.HabitSchedule, error) {
	rows, err := s.query(ctx, `
		SELECT id, habit_id, frequency_type, frequency_config
		FROM habit_schedules ORDER BY habit_id, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query habit schedules: %w", err)
	}
	defer rows.Close()

	var schedules []models.HabitSchedule
	for rows.Next() {
		sch, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit schedule: %w", err)
		}
		schedules = append(schedules, sch)
	}
	return schedules, rows.Err()
}

func (s *Store) GetActiveScheduledHabits(ctx context.Context) ([]models.ScheduledHabit, error) {
	rows, err := s.query(ctx, `
		SELECT `+habitColumns+`, sch.frequency_type, sch.frequency_config
		FROM habits h
		JOIN habit_schedules sch ON sch.habit_id = h.id
		WHERE h.archived = ? AND h.paused = ?
		ORDER BY h.created_at, h.id, sch.id`, false, false)
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled habits: %w", err)
	}
	defer rows.Close()

	var result []models.ScheduledHabit
	seen := make(map[string]bool)
	for rows.Next() {
		var kind, config string
		h, err := scanHabit(rows, &kind, &config)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scheduled habit: %w", err)
		}
		if seen[h.ID] {
			continue
		}
		seen[h.ID] = true
		result = append(result, models.ScheduledHabit{
			Habit: h,
			Rule:  models.DecodeRecurrence(models.FrequencyType(kind), config),
		})
	}
	return result, rows.Err()
}
