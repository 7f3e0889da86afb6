package gateway

import "net/http"

// Code is the gateway's error taxonomy (spec.md §6).
type Code string

const (
	CodeInvalidAddress      Code = "INVALID_ADDRESS"
	CodeInvalidScript       Code = "INVALID_SCRIPT"
	CodeScriptNotRegistered Code = "SCRIPT_NOT_REGISTERED"
	CodeInvalidTransaction  Code = "INVALID_TRANSACTION"
	CodeTransactionRejected Code = "TRANSACTION_REJECTED"
	CodeLightClientError    Code = "LIGHT_CLIENT_ERROR"
	CodeInternal            Code = "INTERNAL_ERROR"
)

// httpStatus maps each Code to the HTTP status the gateway responds with.
var httpStatus = map[Code]int{
	CodeInvalidAddress:      http.StatusBadRequest,
	CodeInvalidScript:       http.StatusBadRequest,
	CodeScriptNotRegistered: http.StatusNotFound,
	CodeInvalidTransaction:  http.StatusBadRequest,
	CodeTransactionRejected: http.StatusUnprocessableEntity,
	CodeLightClientError:    http.StatusBadGateway,
	CodeInternal:            http.StatusInternalServerError,
}

// APIError is the error type every gateway handler returns; it carries
// enough information for the top-level mux to render a JSON error body
// and pick the HTTP status.
type APIError struct {
	ErrCode Code   `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string { return string(e.ErrCode) + ": " + e.Message }

func NewAPIError(code Code, message string) *APIError {
	return &APIError{ErrCode: code, Message: message}
}

// Status returns the HTTP status code for e.
func (e *APIError) Status() int {
	if s, ok := httpStatus[e.ErrCode]; ok {
		return s
	}
	return http.StatusInternalServerError
}
