package analytics

import (
	"sort"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/utils"
)

// ComputeStreak counts consecutive calendar days with a completion, walking
// back from the most recent completed date. The streak is 0 unless that
// date is today or yesterday. Unparseable dates are ignored.
func ComputeStreak(completedDates []string, today string) int {
	todayDate, err := time.Parse(constants.DateFormat, today)
	if err != nil {
		return 0
	}

	days := dateSet(completedDates)
	if len(days) == 0 {
		return 0
	}

	latest := latestDate(days)
	if utils.DaysBetween(latest, todayDate) > 1 {
		return 0
	}

	streak := 0
	for d := latest; days[utils.FormatDate(d)]; d = d.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}

// LongestStreak returns the longest run of consecutive completed calendar days.
func LongestStreak(completedDates []string) int {
	days := dateSet(completedDates)
	if len(days) == 0 {
		return 0
	}

	sorted := make([]string, 0, len(days))
	for d := range days {
		sorted = append(sorted, d)
	}
	sort.Strings(sorted)

	longest, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		prev, _ := time.Parse(constants.DateFormat, sorted[i-1])
		cur, _ := time.Parse(constants.DateFormat, sorted[i])
		if utils.DaysBetween(prev, cur) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// CompletionRate returns completed/total as a percentage in [0,100], or 0
// when there is nothing to rate.
func CompletionRate(completed, total int) float64 {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed > total {
		return 100
	}
	return float64(completed) / float64(total) * 100
}

// AverageTimeOfDay returns the floor of the mean minute-of-day of times,
// each taken in loc, formatted as HH:MM. It returns "" for no input.
func AverageTimeOfDay(times []time.Time, loc *time.Location) string {
	if len(times) == 0 {
		return ""
	}
	total := 0
	for _, t := range times {
		local := t.In(loc)
		total += local.Hour()*60 + local.Minute()
	}
	avg := total / len(times)
	return time.Date(2000, 1, 1, avg/60, avg%60, 0, 0, time.UTC).Format(constants.TimeFormat)
}

func dateSet(dates []string) map[string]bool {
	set := make(map[string]bool, len(dates))
	for _, d := range dates {
		if utils.ValidateDateFormat(d) {
			set[d] = true
		}
	}
	return set
}

func latestDate(days map[string]bool) time.Time {
	var latest string
	for d := range days {
		if d > latest {
			latest = d
		}
	}
	t, _ := time.Parse(constants.DateFormat, latest)
	return t
}
