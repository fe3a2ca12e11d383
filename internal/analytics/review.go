package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
)

// HabitWeek is one habit's activity within a review week.
type HabitWeek struct {
	HabitID      string
	Title        string
	Completed    int
	Total        int
	Rate         float64
	TimeSpentSec int64
}

// WeeklyReview summarizes a Monday to Sunday week.
type WeeklyReview struct {
	WeekStart    string
	WeekEnd      string
	Habits       []HabitWeek
	Completed    int
	Total        int
	Rate         float64
	TimeSpentSec int64
	// AtRisk lists habits completed less than half the time.
	AtRisk []HabitWeek
	// Stars lists habits completed at least 80% of the time.
	Stars []HabitWeek
}

// GetWeeklyReview summarizes the week containing today shifted by
// weekOffset weeks (0 is this week, -1 last week).
func (e *Engine) GetWeeklyReview(ctx context.Context, weekOffset int) (WeeklyReview, error) {
	start := utils.StartOfISOWeek(e.today()).AddDate(0, 0, 7*weekOffset)
	end := start.AddDate(0, 0, 6)
	review := WeeklyReview{
		WeekStart: utils.FormatDate(start),
		WeekEnd:   utils.FormatDate(end),
	}

	habits, err := e.store.GetAllHabits(ctx, true)
	if err != nil {
		return WeeklyReview{}, fmt.Errorf("failed to load habits: %w", err)
	}
	titles := make(map[string]string, len(habits))
	for _, h := range habits {
		titles[h.ID] = h.Title
	}

	tasks, err := e.store.GetTasks(ctx, storage.TaskFilter{FromDate: review.WeekStart, ToDate: review.WeekEnd})
	if err != nil {
		return WeeklyReview{}, fmt.Errorf("failed to load week tasks: %w", err)
	}
	sessions, err := e.store.GetTimerSessions(ctx, storage.SessionFilter{Since: start, Until: end.AddDate(0, 0, 1)})
	if err != nil {
		return WeeklyReview{}, fmt.Errorf("failed to load week sessions: %w", err)
	}

	byHabit := make(map[string]*HabitWeek)
	entry := func(habitID string) *HabitWeek {
		hw, ok := byHabit[habitID]
		if !ok {
			hw = &HabitWeek{HabitID: habitID, Title: titles[habitID]}
			byHabit[habitID] = hw
		}
		return hw
	}

	for _, t := range tasks {
		hw := entry(t.HabitID)
		hw.Total++
		if t.Status == models.StatusCompleted {
			hw.Completed++
		}
	}
	for _, s := range sessions {
		entry(s.HabitID).TimeSpentSec += s.DurationSec
	}

	for _, hw := range byHabit {
		hw.Rate = CompletionRate(hw.Completed, hw.Total)
		review.Habits = append(review.Habits, *hw)
		review.Completed += hw.Completed
		review.Total += hw.Total
		review.TimeSpentSec += hw.TimeSpentSec
	}
	sort.Slice(review.Habits, func(i, j int) bool {
		if review.Habits[i].Title != review.Habits[j].Title {
			return review.Habits[i].Title < review.Habits[j].Title
		}
		return review.Habits[i].HabitID < review.Habits[j].HabitID
	})

	review.Rate = CompletionRate(review.Completed, review.Total)
	for _, hw := range review.Habits {
		if hw.Total == 0 {
			continue
		}
		switch {
		case hw.Rate >= constants.StarThreshold:
			review.Stars = append(review.Stars, hw)
		case hw.Rate < constants.AtRiskThreshold:
			review.AtRisk = append(review.AtRisk, hw)
		}
	}

	return review, nil
}
