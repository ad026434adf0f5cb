package httpx

import (
	"errors"
	"net/http"

	"github.com/motorlane/motorlane/internal/shared"
)

// RespondError maps domain errors to HTTP responses using RFC7807.
// Authentication failures are normalized: bad shape, bad signature and
// expiry all surface as a uniform 401.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidCredentials):
		Problem(w, http.StatusUnauthorized, "Invalid Credentials", "invalid username or password")
	case errors.Is(err, shared.ErrUnauthenticated):
		Problem(w, http.StatusUnauthorized, "Unauthenticated", "authentication required")
	case errors.Is(err, shared.ErrForbidden):
		Problem(w, http.StatusForbidden, "Forbidden", "insufficient role or permission")
	case errors.Is(err, shared.ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, shared.ErrRepositoryUnavailable):
		Problem(w, http.StatusServiceUnavailable, "Service Unavailable", "a backing store could not be reached")
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
