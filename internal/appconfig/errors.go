package appconfig

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig matches every ConfigurationError through errors.Is.
var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigurationError reports a malformed or missing configuration field.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidConfig, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidConfig, e.Field, e.Reason)
}

// Is reports whether target is ErrInvalidConfig.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfig
}
