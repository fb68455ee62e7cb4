// Package failure defines the error kinds a podgen run can end with.
//
// Every error surfaced to the operator carries exactly one of the marks below so
// the CLI can print a one-line summary and a hint. Marks survive further wrapping
// with fmt.Errorf("...: %w") and are tested with errors.Is.
package failure

import (
	"github.com/cockroachdb/errors"
)

var (
	ErrConfiguration       = errors.New("configuration error")
	ErrIO                  = errors.New("io error")
	ErrConnectivity        = errors.New("connectivity error")
	ErrConstraintViolation = errors.New("constraint violation")
)

const (
	configurationHint = "fix the configuration (config file, env or flags) and run again"
	ioHint            = "no partial output is resumable: fix the cause and rerun with the same seed"
	connectivityHint  = "check DATABASE_URL and that the database is reachable"
	constraintHint    = "the database rejected rows; make sure the schema matches the generated tables"
)

// Configurationf reports invalid or missing run parameters.
func Configurationf(format string, args ...interface{}) error {
	err := errors.WithHint(errors.Newf(format, args...), configurationHint)
	return errors.Mark(err, ErrConfiguration)
}

// IO marks err as a filesystem failure.
func IO(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	wrapped := errors.WithHint(errors.Wrapf(err, format, args...), ioHint)
	return errors.Mark(wrapped, ErrIO)
}

// Connectivity marks err as a failure to reach the database.
func Connectivity(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	wrapped := errors.WithHint(errors.Wrapf(err, format, args...), connectivityHint)
	return errors.Mark(wrapped, ErrConnectivity)
}

// Constraint marks err as rows rejected by the database.
func Constraint(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	wrapped := errors.WithHint(errors.Wrapf(err, format, args...), constraintHint)
	return errors.Mark(wrapped, ErrConstraintViolation)
}

// Kind returns the name of the mark carried by err, or "error" when it has none.
func Kind(err error) string {
	for _, kind := range []error{ErrConfiguration, ErrIO, ErrConnectivity, ErrConstraintViolation} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return "error"
}

// Hint returns the operator hints attached to err, joined by newlines.
func Hint(err error) string {
	return errors.FlattenHints(err)
}
