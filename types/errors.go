package types

import (
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	KindValidation       ErrorKind = "validation"
	KindConflict         ErrorKind = "conflict"
	KindNotFound         ErrorKind = "not_found"
	KindPermissionDenied ErrorKind = "permission_denied"
	KindStoreFailure     ErrorKind = "store_failure"
)

// AppError is a classified request failure carrying its HTTP status.
type AppError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Details map[string]interface{}
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// Response renders the error envelope.
func (e *AppError) Response() *APIResponse {
	return NewErrorResponseWithDetails(e.Code, e.Message, e.Details)
}

// Validation reports invalid request parameters. params maps each offending
// parameter to a reason.
func Validation(message string, params map[string]string) *AppError {
	var details map[string]interface{}
	if len(params) > 0 {
		p := make(map[string]interface{}, len(params))
		for k, v := range params {
			p[k] = v
		}
		details = map[string]interface{}{"params": p}
	}
	return &AppError{
		Kind:    KindValidation,
		Code:    ErrorCodeValidation,
		Message: message,
		Details: details,
		Status:  http.StatusBadRequest,
	}
}

func Conflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Code: ErrorCodeConflict, Message: message, Status: http.StatusConflict}
}

func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Code: ErrorCodeNotFound, Message: message, Status: http.StatusNotFound}
}

func PermissionDenied(message string) *AppError {
	return &AppError{Kind: KindPermissionDenied, Code: ErrorCodeForbidden, Message: message, Status: http.StatusForbidden}
}

// StoreFailure wraps an error returned by the store or another collaborator.
func StoreFailure(err error) *AppError {
	return &AppError{
		Kind:    KindStoreFailure,
		Code:    ErrorCodeInternal,
		Message: "Internal server error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}
