package errors

import (
	"fmt"
)

// AppError is the crawler's structured error type. StatusCode is an optional
// numeric code passed to New; every sentinel and every error the crawler
// builds sets it to 0, and upstream status codes are not copied into it.
type AppError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StatusCode int                    `json:"-"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    make(map[string]interface{}),
	}
}

// WithDetails returns a copy of e carrying details, leaving e itself (often
// a shared package-level sentinel) untouched so concurrent callers never
// race over its Details map.
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}
