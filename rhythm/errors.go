package rhythm

import (
	goerrors "errors"
	"fmt"

	"github.com/gruntwork-io/go-commons/errors"
)

// ErrRunning is returned by Start when the scheduler already has a run in progress. Reconfiguring a
// running scheduler is done with Stop followed by Start.
var ErrRunning = goerrors.New("scheduler is already running")

// ConfigError is returned when a Config or TransitionSpec can't be used to start the scheduler.
type ConfigError struct {
	Field  string
	Reason string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func newConfigError(field, format string, args ...interface{}) error {
	return errors.WithStackTrace(ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)})
}

// IsConfigError returns true if err is, or wraps, a ConfigError.
func IsConfigError(err error) bool {
	var cerr ConfigError
	if goerrors.As(err, &cerr) {
		return true
	}
	_, ok := errors.Unwrap(err).(ConfigError)
	return ok
}
