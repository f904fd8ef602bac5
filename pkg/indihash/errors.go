package indihash

import (
	"errors"
	"fmt"
)

// Sentinel errors used for simple equality-style checks.
var (
	// ErrNoAlgorithmSelected indicates a computation was requested while the
	// selection index was 0 ("None").
	ErrNoAlgorithmSelected = errors.New("indihash: no hashing algorithm selected")

	// ErrInvalidConfig indicates the configuration is invalid or fails validation.
	ErrInvalidConfig = errors.New("indihash: invalid config")
)

// InvalidConfigError represents a validation or parse failure for indihash config.
type InvalidConfigError struct {
	Field string
	Msg   string
}

func (e *InvalidConfigError) Error() string {
	switch {
	case e.Field != "" && e.Msg != "":
		return fmt.Sprintf("invalid indihash config: %s: %s", e.Field, e.Msg)
	case e.Msg != "":
		return fmt.Sprintf("invalid indihash config: %s", e.Msg)
	}
	return "invalid indihash config"
}

func (e *InvalidConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// NewInvalidConfigError creates an InvalidConfigError for field.
func NewInvalidConfigError(field, msg string) error {
	return &InvalidConfigError{Field: field, Msg: msg}
}

// IsInvalidConfig reports whether err is (or wraps) an invalid-config condition.
func IsInvalidConfig(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

// IsNoAlgorithmSelected reports whether err is (or wraps) ErrNoAlgorithmSelected.
func IsNoAlgorithmSelected(err error) bool {
	return errors.Is(err, ErrNoAlgorithmSelected)
}
