package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/julianstephens/habitual/internal/models"
)

func (s *Store) SaveReflectionEntry(ctx context.Context, entry models.ReflectionEntry) error {
	_, err := s.exec(ctx, `
		INSERT INTO reflection_entries (id, date, habit_id, content, mood)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			date = excluded.date,
			habit_id = excluded.habit_id,
			content = excluded.content,
			mood = excluded.mood`,
		entry.ID, entry.Date, nullString(entry.HabitID), entry.Content, entry.Mood)
	if err != nil {
		return fmt.Errorf("failed to save reflection entry: %w", err)
	}
	return nil
}

// GetReflectionEntries returns journal entries, newest date first.
func (s *Store) GetReflectionEntries(ctx context.Context) ([]models.ReflectionEntry, error) {
	rows, err := s.query(ctx, `
		SELECT id, date, habit_id, content, mood
		FROM reflection_entries ORDER BY date DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query reflection entries: %w", err)
	}
	defer rows.Close()

	var entries []models.ReflectionEntry
	for rows.Next() {
		var e models.ReflectionEntry
		var habitID sql.NullString
		if err := rows.Scan(&e.ID, &e.Date, &habitID, &e.Content, &e.Mood); err != nil {
			return nil, fmt.Errorf("failed to scan reflection entry: %w", err)
		}
		e.HabitID = stringPtr(habitID)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
