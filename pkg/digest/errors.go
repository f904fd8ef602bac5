package digest

import (
	"errors"
	"fmt"
)

// Sentinel errors used for errors.Is checks.
var (
	// ErrOpen indicates the byte source could not be opened.
	ErrOpen = errors.New("digest: open failure")

	// ErrRead indicates the byte source failed while streaming.
	ErrRead = errors.New("digest: read failure")

	// ErrCancelled indicates the computation was abandoned because its
	// context ended. It is an outcome, not a failure of the source.
	ErrCancelled = errors.New("digest: computation cancelled")

	// ErrUnknownAlgorithm indicates a name that matches no supported
	// algorithm.
	ErrUnknownAlgorithm = errors.New("digest: unknown algorithm")
)

// OpenError carries the cause of a failure to open a byte source.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("open: %v", e.Err)
	}
	return fmt.Sprintf("open %s: %v", e.Path, e.Err)
}

func (e *OpenError) Is(target error) bool { return target == ErrOpen }

func (e *OpenError) Unwrap() error { return e.Err }

// ReadError carries the cause of a mid-stream read failure.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string { return fmt.Sprintf("read: %v", e.Err) }

func (e *ReadError) Is(target error) bool { return target == ErrRead }

func (e *ReadError) Unwrap() error { return e.Err }

// UnknownAlgorithmError reports the name that failed to parse.
type UnknownAlgorithmError struct {
	Name string
}

func (e *UnknownAlgorithmError) Error() string {
	return fmt.Sprintf("unknown algorithm %q", e.Name)
}

func (e *UnknownAlgorithmError) Is(target error) bool { return target == ErrUnknownAlgorithm }

func (e *UnknownAlgorithmError) Unwrap() error { return ErrUnknownAlgorithm }

// NewUnknownAlgorithmError constructs a typed UnknownAlgorithmError.
func NewUnknownAlgorithmError(name string) error {
	return &UnknownAlgorithmError{Name: name}
}

// IsOpenFailure reports whether err is (or wraps) an open failure.
func IsOpenFailure(err error) bool { return errors.Is(err, ErrOpen) }

// IsReadFailure reports whether err is (or wraps) a read failure.
func IsReadFailure(err error) bool { return errors.Is(err, ErrRead) }

// IsCancelled reports whether err signals an abandoned computation.
func IsCancelled(err error) bool { return errors.Is(err, ErrCancelled) }

// cancelled wraps the context cause so callers can still inspect it.
func cancelled(cause error) error {
	return fmt.Errorf("%w: %w", ErrCancelled, cause)
}
