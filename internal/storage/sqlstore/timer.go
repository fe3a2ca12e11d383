package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
)

func (s *Store) SaveTimerSession(ctx context.Context, session models.TimerSession) error {
	_, err := s.exec(ctx, `
		INSERT INTO timer_sessions (id, habit_id, start_time, end_time, duration_sec, was_completed, reflection)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			habit_id = excluded.habit_id,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			duration_sec = excluded.duration_sec,
			was_completed = excluded.was_completed,
			reflection = excluded.reflection`,
		session.ID, session.HabitID, utils.FormatTimestamp(session.StartTime),
		utils.FormatTimestamp(session.EndTime), session.DurationSec, session.WasCompleted,
		session.Reflection)
	if err != nil {
		return fmt.Errorf("failed to save timer session: %w", err)
	}
	return nil
}

func sessionWhere(filter storage.SessionFilter) (string, []any) {
	var where []string
	var args []any
	if filter.HabitID != "" {
		where = append(where, "habit_id = ?")
		args = append(args, filter.HabitID)
	}
	if !filter.Since.IsZero() {
		where = append(where, "start_time >= ?")
		args = append(args, utils.FormatTimestamp(filter.Since))
	}
	if !filter.Until.IsZero() {
		where = append(where, "start_time < ?")
		args = append(args, utils.FormatTimestamp(filter.Until))
	}
	if len(where) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

// GetTimerSessions returns sessions matching filter, newest first.
func (s *Store) GetTimerSessions(ctx context.Context, filter storage.SessionFilter) ([]models.TimerSession, error) {
	where, args := sessionWhere(filter)
	rows, err := s.query(ctx, `
		SELECT id, habit_id, start_time, end_time, duration_sec, was_completed, reflection
		FROM timer_sessions`+where+`
		ORDER BY start_time DESC, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query timer sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.TimerSession
	for rows.Next() {
		var ts models.TimerSession
		var start, end string
		if err := rows.Scan(&ts.ID, &ts.HabitID, &start, &end, &ts.DurationSec, &ts.WasCompleted, &ts.Reflection); err != nil {
			return nil, fmt.Errorf("failed to scan timer session: %w", err)
		}
		if ts.StartTime, err = parseTimestamp("start_time", start); err != nil {
			return nil, err
		}
		if ts.EndTime, err = parseTimestamp("end_time", end); err != nil {
			return nil, err
		}
		sessions = append(sessions, ts)
	}
	return sessions, rows.Err()
}

func (s *Store) SumTimerDuration(ctx context.Context, filter storage.SessionFilter) (int64, error) {
	where, args := sessionWhere(filter)
	row, err := s.queryRow(ctx, "SELECT COALESCE(SUM(duration_sec), 0) FROM timer_sessions"+where, args...)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum timer sessions: %w", err)
	}
	return total, nil
}

// GetReflections returns sessions with a non-empty reflection, newest first.
func (s *Store) GetReflections(ctx context.Context) ([]models.Reflection, error) {
	rows, err := s.query(ctx, `
		SELECT ts.id, ts.habit_id, h.title, ts.start_time, ts.reflection, ts.was_completed
		FROM timer_sessions ts
		JOIN habits h ON h.id = ts.habit_id
		WHERE ts.reflection <> ''
		ORDER BY ts.start_time DESC, ts.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query reflections: %w", err)
	}
	defer rows.Close()

	var reflections []models.Reflection
	for rows.Next() {
		var r models.Reflection
		var start string
		if err := rows.Scan(&r.SessionID, &r.HabitID, &r.HabitTitle, &start, &r.Text, &r.WasCompleted); err != nil {
			return nil, fmt.Errorf("failed to scan reflection: %w", err)
		}
		if r.StartTime, err = parseTimestamp("start_time", start); err != nil {
			return nil, err
		}
		reflections = append(reflections, r)
	}
	return reflections, rows.Err()
}
