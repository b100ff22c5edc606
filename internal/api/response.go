package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/zapponejosh/patro-api/internal/calendar"
	"github.com/zapponejosh/patro-api/internal/database"
)

// Response represents a standard API response.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details.
type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Error codes returned in ErrorInfo.Code.
const (
	CodeBadRequest       = "BAD_REQUEST"
	CodeNotFound         = "NOT_FOUND"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeInternal         = "INTERNAL_ERROR"
	CodeOutOfRange       = "OUT_OF_RANGE"
	CodeFormatMismatch   = "FORMAT_MISMATCH"
	CodeUnparseable      = "UNPARSEABLE_INPUT"
	CodeRateLimited      = "RATE_LIMITED"
	CodeInvalidAlmanac   = "INVALID_ALMANAC"
	CodeReadOnly         = "READ_ONLY"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, status int, message string, code ...string) error {
	errInfo := ErrorInfo{
		Message: message,
	}
	if len(code) > 0 {
		errInfo.Code = code[0]
	}

	return WriteJSON(w, status, Response{
		Success: false,
		Error:   &errInfo,
	})
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusNotFound, message, CodeNotFound)
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusBadRequest, message, CodeBadRequest)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusInternalServerError, message, CodeInternal)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusUnauthorized, message, CodeUnauthorized)
}

// errorStatus maps a domain error to its HTTP status and code. ok is false
// for errors that should surface as 500s.
func errorStatus(err error) (status int, code string, ok bool) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return http.StatusBadRequest, CodeBadRequest, true
	case errors.Is(err, calendar.ErrOutOfRange):
		return http.StatusUnprocessableEntity, CodeOutOfRange, true
	case errors.Is(err, calendar.ErrFormatMismatch):
		return http.StatusUnprocessableEntity, CodeFormatMismatch, true
	case errors.Is(err, calendar.ErrUnparseable):
		return http.StatusUnprocessableEntity, CodeUnparseable, true
	case errors.Is(err, database.ErrInvalidAlmanac):
		return http.StatusUnprocessableEntity, CodeInvalidAlmanac, true
	case database.IsNotFound(err):
		return http.StatusNotFound, CodeNotFound, true
	}
	return http.StatusInternalServerError, CodeInternal, false
}
