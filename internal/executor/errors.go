package executor

import "fmt"

// ConfigError is raised when an after-match strategy name is not one of
// the three recognized values.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("executor: config: %s", e.Message)
}

// IsConfigError reports whether err is a *ConfigError.
func IsConfigError(err error) bool {
	_, ok := err.(*ConfigError)
	return ok
}

// AssertionError marks an internal invariant violation (e.g. a TAKE
// firing at an epsilon slot). debugAssertions controls whether this
// panics immediately (development) or is returned as a plain error to
// the caller (release).
type AssertionError struct {
	Message string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("executor: assertion failed: %s", e.Message)
}

// IsAssertionError reports whether err is an *AssertionError.
func IsAssertionError(err error) bool {
	_, ok := err.(*AssertionError)
	return ok
}

// debugAssertions gates whether invariant violations panic (true) or
// are downgraded to a returned AssertionError (false). Left true: this
// repo ships no release build variant.
var debugAssertions = true

func assertInvariant(cond bool, format string, args ...any) error {
	if cond {
		return nil
	}
	err := &AssertionError{Message: fmt.Sprintf(format, args...)}
	if debugAssertions {
		panic(err)
	}
	return err
}
