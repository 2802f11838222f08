package animation

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is returned for malformed animation parameters.
	ErrConfiguration = errors.New("invalid animation configuration")

	// ErrDoubleBegin is returned when Begin is called on an animation that
	// has already begun.
	ErrDoubleBegin = errors.New("animation already begun")

	// ErrInterpolateBeforeBegin is returned when Interpolate or Finish is
	// called before Begin.
	ErrInterpolateBeforeBegin = errors.New("animation interpolated before begin")

	// ErrFinished is returned when a finished animation is driven again.
	ErrFinished = errors.New("animation already finished")

	// ErrConflict is returned when two animations of one timeline try to
	// suspend the updaters of the same mobject.
	ErrConflict = errors.New("mobject already driven by another animation")
)

// ConfigurationError names the offending parameter.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrConfiguration, e.Field, e.Reason)
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func configError(field, format string, args ...interface{}) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// LifecycleError reports an operation attempted in the wrong state.
type LifecycleError struct {
	Op    string
	State State
	err   error
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("%s: %s in state %s", e.err, e.Op, e.State)
}

func (e *LifecycleError) Unwrap() error {
	return e.err
}

// checkState validates op against the lifecycle state s.
func checkState(op string, s State) error {
	switch {
	case op == "begin" && s != Unstarted:
		return &LifecycleError{Op: op, State: s, err: ErrDoubleBegin}
	case op != "begin" && s == Unstarted:
		return &LifecycleError{Op: op, State: s, err: ErrInterpolateBeforeBegin}
	case op != "begin" && s == Finished:
		return &LifecycleError{Op: op, State: s, err: ErrFinished}
	}
	return nil
}
