package models

import (
	"errors"
	"fmt"
)

// ErrConfiguration is matched by every ConfigurationError
var ErrConfiguration = errors.New("invalid recurrence configuration")

// ConfigurationError describes a recurrence rule whose payload cannot be evaluated
type ConfigurationError struct {
	Kind   FrequencyType
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("invalid %s recurrence: %s", e.Kind, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrConfiguration, e.Err}
	}
	return []error{ErrConfiguration}
}
