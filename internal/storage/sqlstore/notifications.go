package sqlstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

// days_of_week is stored as a comma separated list of weekday indexes (0=Sunday).
func encodeWeekdays(days []time.Weekday) string {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, strconv.Itoa(int(d)))
	}
	return strings.Join(parts, ",")
}

func decodeWeekdays(s string) ([]time.Weekday, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var days []time.Weekday
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 6 {
			return nil, fmt.Errorf("invalid weekday %q", part)
		}
		days = append(days, time.Weekday(n))
	}
	return days, nil
}

func (s *Store) SaveNotificationSchedule(ctx context.Context, schedule models.NotificationSchedule) error {
	_, err := s.exec(ctx, `
		INSERT INTO notification_schedules (id, habit_id, remind_at, days_of_week, enabled)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			habit_id = excluded.habit_id,
			remind_at = excluded.remind_at,
			days_of_week = excluded.days_of_week,
			enabled = excluded.enabled`,
		schedule.ID, schedule.HabitID, schedule.Time, encodeWeekdays(schedule.DaysOfWeek), schedule.Enabled)
	if err != nil {
		return fmt.Errorf("failed to save notification schedule: %w", err)
	}
	return nil
}

// GetNotificationSchedules returns the schedules of one habit, or of every
// habit when habitID is empty.
func (s *Store) GetNotificationSchedules(ctx context.Context, habitID string) ([]models.NotificationSchedule, error) {
	query := "SELECT id, habit_id, remind_at, days_of_week, enabled FROM notification_schedules"
	var args []any
	if habitID != "" {
		query += " WHERE habit_id = ?"
		args = append(args, habitID)
	}
	query += " ORDER BY habit_id, remind_at, id"

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notification schedules: %w", err)
	}
	defer rows.Close()

	var schedules []models.NotificationSchedule
	for rows.Next() {
		var n models.NotificationSchedule
		var days string
		if err := rows.Scan(&n.ID, &n.HabitID, &n.Time, &days, &n.Enabled); err != nil {
			return nil, fmt.Errorf("failed to scan notification schedule: %w", err)
		}
		if n.DaysOfWeek, err = decodeWeekdays(days); err != nil {
			return nil, fmt.Errorf("notification schedule %s: %w", n.ID, err)
		}
		schedules = append(schedules, n)
	}
	return schedules, rows.Err()
}

func (s *Store) DeleteNotificationSchedule(ctx context.Context, id string) error {
	if err := s.execOne(ctx, "DELETE FROM notification_schedules WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete notification schedule %s: %w", id, err)
	}
	return nil
}
