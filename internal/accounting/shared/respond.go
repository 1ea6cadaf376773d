package shared

import (
	"errors"
	"net/http"

	"github.com/meridian-erp/meridian-erp/internal/platform/httpx"
)

// RespondError maps accounting errors to RFC7807 problem responses so UI
// layers can branch on kind.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEntryNotFound) || errors.Is(err, ErrPeriodNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrUnbalanced):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Unbalanced Entry", err.Error())
	case errors.Is(err, ErrPeriodClosed):
		httpx.Problem(w, http.StatusLocked, "Period Closed", err.Error())
	case IsState(err):
		httpx.Problem(w, http.StatusConflict, "Invalid State", err.Error())
	case errors.Is(err, ErrLockContention):
		w.Header().Set("Retry-After", "1")
		httpx.Problem(w, http.StatusServiceUnavailable, "Contention", err.Error())
	case IsValidation(err):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
