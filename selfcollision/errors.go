package selfcollision

import (
	"github.com/pkg/errors"
)

// ErrNoDistanceRecords is returned by a query when no active link has probe spheres to evaluate.
var ErrNoDistanceRecords = errors.New("no active link with probe spheres to compute a self distance from")

// ConfigurationError reports a request or model the engine cannot work with.
type ConfigurationError struct {
	err error
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.err.Error()
}

// Unwrap returns the underlying error.
func (e *ConfigurationError) Unwrap() error {
	return e.err
}

// IsConfigurationError reports whether err has a ConfigurationError in its chain.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

func newConfigurationError(err error) error {
	return &ConfigurationError{err: err}
}

func newUnknownGroupError(group string, err error) error {
	return newConfigurationError(errors.Wrapf(err, "cannot query self distance of group %q", group))
}
