package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// FrequencyType is the persisted discriminant of a recurrence rule
type FrequencyType string

const (
	FrequencyDaily        FrequencyType = "daily"
	FrequencyWeekdays     FrequencyType = "weekdays"
	FrequencySpecificDays FrequencyType = "specific_days"
	FrequencyInterval     FrequencyType = "interval"
	FrequencyWeeklyQuota  FrequencyType = "weekly_quota"
)

// Recurrence is one of Daily, Weekdays, SpecificDays, Interval, WeeklyQuota
// or InvalidRecurrence. Each variant carries only its own payload.
type Recurrence interface {
	FrequencyType() FrequencyType
	isRecurrence()
}

// Daily is due every day
type Daily struct{}

// Weekdays is due Monday through Friday
type Weekdays struct{}

// SpecificDays is due on the listed weekdays
type SpecificDays struct {
	Days []time.Weekday
}

// Interval is due every Every days counted from the habit's creation date
type Interval struct {
	Every int
}

// WeeklyQuota asks for PerWeek completions in each ISO week
type WeeklyQuota struct {
	PerWeek int
}

// InvalidRecurrence is produced when a persisted rule cannot be decoded.
// It is never due.
type InvalidRecurrence struct {
	Kind FrequencyType
	Raw  string
	Err  error
}

func (Daily) FrequencyType() FrequencyType        { return FrequencyDaily }
func (Weekdays) FrequencyType() FrequencyType     { return FrequencyWeekdays }
func (SpecificDays) FrequencyType() FrequencyType { return FrequencySpecificDays }
func (Interval) FrequencyType() FrequencyType     { return FrequencyInterval }
func (WeeklyQuota) FrequencyType() FrequencyType  { return FrequencyWeeklyQuota }
func (r InvalidRecurrence) FrequencyType() FrequencyType {
	return r.Kind
}

func (Daily) isRecurrence()             {}
func (Weekdays) isRecurrence()          {}
func (SpecificDays) isRecurrence()      {}
func (Interval) isRecurrence()          {}
func (WeeklyQuota) isRecurrence()       {}
func (InvalidRecurrence) isRecurrence() {}

// frequencyConfig is the JSON payload stored next to the frequency type
type frequencyConfig struct {
	Days    []int `json:"days,omitempty"`
	Every   *int  `json:"every,omitempty"`
	PerWeek *int  `json:"perWeek,omitempty"`
}

// EncodeRecurrence converts a rule into its persisted (type, config) pair
func EncodeRecurrence(r Recurrence) (FrequencyType, string, error) {
	var cfg frequencyConfig
	switch rule := r.(type) {
	case Daily, Weekdays:
	case SpecificDays:
		cfg.Days = make([]int, 0, len(rule.Days))
		for _, d := range rule.Days {
			cfg.Days = append(cfg.Days, int(d))
		}
	case Interval:
		every := rule.Every
		cfg.Every = &every
	case WeeklyQuota:
		perWeek := rule.PerWeek
		cfg.PerWeek = &perWeek
	case InvalidRecurrence:
		// Keep whatever was stored so that a round trip does not lose data
		return rule.Kind, rule.Raw, nil
	case nil:
		return "", "", fmt.Errorf("recurrence rule is required")
	default:
		return "", "", fmt.Errorf("unsupported recurrence rule %T", r)
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode recurrence config: %w", err)
	}
	return r.FrequencyType(), string(data), nil
}

// DecodeRecurrence maps a persisted (type, config) pair to a rule.
// Malformed input yields an InvalidRecurrence instead of an error.
func DecodeRecurrence(kind FrequencyType, config string) Recurrence {
	invalid := func(reason string, err error) Recurrence {
		return InvalidRecurrence{
			Kind: kind,
			Raw:  config,
			Err:  &ConfigurationError{Kind: kind, Reason: reason, Err: err},
		}
	}

	var cfg frequencyConfig
	if config != "" && config != "null" {
		if err := json.Unmarshal([]byte(config), &cfg); err != nil {
			return invalid("malformed config", err)
		}
	}

	switch kind {
	case FrequencyDaily:
		return Daily{}
	case FrequencyWeekdays:
		return Weekdays{}
	case FrequencySpecificDays:
		if len(cfg.Days) == 0 {
			return invalid("no days configured", nil)
		}
		days := make([]time.Weekday, 0, len(cfg.Days))
		for _, d := range cfg.Days {
			if d < 0 || d > 6 {
				return invalid(fmt.Sprintf("weekday index %d out of range", d), nil)
			}
			days = append(days, time.Weekday(d))
		}
		return SpecificDays{Days: days}
	case FrequencyInterval:
		if cfg.Every == nil {
			return invalid("missing interval", nil)
		}
		return Interval{Every: *cfg.Every}
	case FrequencyWeeklyQuota:
		perWeek := 0
		if cfg.PerWeek != nil {
			perWeek = *cfg.PerWeek
		}
		return WeeklyQuota{PerWeek: perWeek}
	default:
		return invalid("unknown frequency type", nil)
	}
}
