package service

import (
	"time"

	"github.com/juju/errors"
	"github.com/juju/loggo"

	"github.com/andy/oficina/internal/metrics"
	"github.com/andy/oficina/internal/repository"
)

var logger = loggo.GetLogger("oficina.service")

// Error kinds reported by ErrorKind
const (
	KindInvalidArgument = "invalid-argument"
	KindNotFound        = "not-found"
	KindForbidden       = "forbidden"
	KindUnexpected      = "unexpected"
)

// ErrorKind classifies err into one of the Kind constants. A nil error has
// no kind.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.IsNotValid(err):
		return KindInvalidArgument
	case errors.IsNotFound(err):
		return KindNotFound
	case errors.IsForbidden(err):
		return KindForbidden
	default:
		return KindUnexpected
	}
}

// storageErr re-surfaces integrity violations as validation failures and
// annotates every other storage failure
func storageErr(err error, msg string) error {
	if errors.Is(err, repository.ErrIntegrityViolation) {
		return errors.NewNotValid(nil, msg)
	}
	return errors.Annotate(err, "unexpected storage failure")
}

// observe records the outcome of an operation on rec; call it deferred with
// a pointer to the named error result
func observe(rec *metrics.Recorder, operation string, start time.Time, errp *error) {
	result := metrics.ResultOK
	if *errp != nil {
		result = ErrorKind(*errp)
		if result == KindUnexpected {
			logger.Errorf("%s failed: %v", operation, *errp)
		}
	}
	rec.Observe(operation, start, result)
}
