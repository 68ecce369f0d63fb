package api

import (
	"net/http"

	"github.com/pkg/errors"

	"coursehub/app/course/service"
	"coursehub/common/lock"
)

// statusOf maps service errors onto HTTP status codes: criterion validation
// failures are the caller's fault, a contended lock is retryable, the rest
// is operational.
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrNoDoc):
		return http.StatusNotFound
	case service.IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, lock.ErrBusy):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
