package utils

import (
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

// IsDue reports whether a habit created at createdAt is due on target under
// rule. Only the calendar day of each time is considered. Rules that fail
// CheckRecurrence are never due, and nothing is due before the creation day.
func IsDue(rule models.Recurrence, createdAt, target time.Time) bool {
	if CheckRecurrence(rule) != nil {
		return false
	}

	daysSince := DaysBetween(createdAt, target)
	if daysSince < 0 {
		return false
	}

	switch r := rule.(type) {
	case models.Daily:
		return true
	case models.Weekdays:
		wd := target.Weekday()
		return wd >= time.Monday && wd <= time.Friday
	case models.SpecificDays:
		for _, wd := range r.Days {
			if target.Weekday() == wd {
				return true
			}
		}
		return false
	case models.Interval:
		return daysSince%r.Every == 0
	case models.WeeklyQuota:
		// Quota progress is tracked by analytics; every day is a candidate day
		return true
	default:
		return false
	}
}

// CheckRecurrence returns a *models.ConfigurationError when rule cannot be
// evaluated, and nil otherwise.
func CheckRecurrence(rule models.Recurrence) error {
	switch r := rule.(type) {
	case models.Daily, models.Weekdays:
		return nil
	case models.SpecificDays:
		if len(r.Days) == 0 {
			return &models.ConfigurationError{Kind: models.FrequencySpecificDays, Reason: "no days configured"}
		}
		for _, wd := range r.Days {
			if wd < time.Sunday || wd > time.Saturday {
				return &models.ConfigurationError{Kind: models.FrequencySpecificDays, Reason: "weekday out of range"}
			}
		}
		return nil
	case models.Interval:
		if r.Every < 1 {
			return &models.ConfigurationError{Kind: models.FrequencyInterval, Reason: "interval must be at least 1"}
		}
		return nil
	case models.WeeklyQuota:
		if r.PerWeek < 0 {
			return &models.ConfigurationError{Kind: models.FrequencyWeeklyQuota, Reason: "quota cannot be negative"}
		}
		return nil
	case models.InvalidRecurrence:
		if r.Err != nil {
			return r.Err
		}
		return &models.ConfigurationError{Kind: r.Kind, Reason: "undecodable rule"}
	case nil:
		return &models.ConfigurationError{Reason: "missing rule"}
	default:
		return &models.ConfigurationError{Reason: "unsupported rule"}
	}
}
