package api

import (
	"errors"
	"net/http"

	"wealthlog/pkg/wealthlog"
)

// ErrorResponse carries structured error information to clients.
type ErrorResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code,omitempty"`
}

// writeErrorResponse writes an error response, mapping business error
// codes to HTTP status codes.
func writeErrorResponse(w http.ResponseWriter, httpStatus int, err error) {
	response := ErrorResponse{
		Code:    httpStatus,
		Message: err.Error(),
	}

	var wlErr *wealthlog.Error
	if errors.As(err, &wlErr) {
		response.ErrorCode = string(wlErr.Code)
		httpStatus = mapErrorCodeToHTTPStatus(wlErr.Code)
		response.Code = httpStatus
	}

	writeJSON(w, httpStatus, response)
}

func mapErrorCodeToHTTPStatus(code wealthlog.ErrorCode) int {
	switch code {
	case wealthlog.ErrCodeInvalidInput, wealthlog.ErrCodeValidation:
		return http.StatusBadRequest
	case wealthlog.ErrCodeNotFound:
		return http.StatusNotFound
	case wealthlog.ErrCodeDatabase, wealthlog.ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
