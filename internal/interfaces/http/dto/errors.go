package dto

import (
	"net/http"

	"github.com/inventory/backend/internal/domain/shared"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeValidation: http.StatusUnprocessableEntity,

	shared.CodeBusinessRule:      http.StatusBadRequest,
	shared.CodeInsufficientStock: http.StatusBadRequest,

	shared.CodeNotFound:            http.StatusNotFound,
	shared.CodeInventoryNotFound:   http.StatusNotFound,
	shared.CodeReservationNotFound: http.StatusNotFound,

	shared.CodeConflict:               http.StatusConflict,
	shared.CodeInvalidStatus:          http.StatusConflict,
	shared.CodeAlreadyConfirmed:       http.StatusConflict,
	shared.CodeReservationExpired:     http.StatusConflict,
	shared.CodeOptimisticLockConflict: http.StatusConflict,

	shared.CodeExternalService:       http.StatusServiceUnavailable,
	shared.CodeDistributedLockFailed: http.StatusServiceUnavailable,

	shared.CodeServerError: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for an error code, defaulting to
// 500 for unknown codes.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
