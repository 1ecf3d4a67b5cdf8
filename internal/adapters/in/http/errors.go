package http

import (
	"net/http"

	"orderops/internal/core/application/usecases/commands"
)

// statusFor maps a request-level failure to an HTTP status.
func statusFor(reason commands.Reason) int {
	switch reason {
	case commands.ReasonNoValidOrders, commands.ReasonNotFound:
		return http.StatusNotFound
	case commands.ReasonBatchTooLarge:
		return http.StatusRequestEntityTooLarge
	case commands.ReasonDeadlineExceeded:
		return http.StatusGatewayTimeout
	case commands.ReasonConflict:
		return http.StatusConflict
	case commands.ReasonInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func newErrorResponse(err error) (int, errorResponse) {
	reason := commands.ReasonFor(err)
	status := statusFor(reason)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	return status, errorResponse{Code: string(reason), Message: msg}
}
