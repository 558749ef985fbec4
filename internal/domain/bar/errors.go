package bar

import (
	"errors"
	"strings"
)

var (
	// ErrBarNotFound indicates the bar doesn't exist in the store.
	ErrBarNotFound = errors.New("bar not found")
	// ErrNotTimeBased indicates a calculation was requested for a record
	// without temporal configuration. This is a programmer error, not a
	// user input error.
	ErrNotTimeBased = errors.New("bar is not time-based")
	// ErrInvalidConfig indicates bar creation was rejected by validation.
	ErrInvalidConfig = errors.New("invalid bar configuration")
)

// ConfigError aggregates every validation failure from a creation attempt so
// the caller can display all problems at once. It unwraps to ErrInvalidConfig.
type ConfigError struct {
	Errors []ValidationError
}

func (e *ConfigError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ve := range e.Errors {
		msgs[i] = ve.Message
	}
	return "invalid bar configuration: " + strings.Join(msgs, "; ")
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}
