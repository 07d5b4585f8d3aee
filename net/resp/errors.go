package resp

import (
	"net/http"

	"github.com/ncobase/shopauth/ecode"
)

// BadRequest indicates a bad request.
func BadRequest(message string, errs ...any) *Exception {
	return newResponse(http.StatusBadRequest, ecode.RequestErr, message, errs...)
}

// UnAuthorized indicates that the request is unauthorized.
func UnAuthorized(message string, errs ...any) *Exception {
	return newResponse(http.StatusUnauthorized, ecode.Unauthorized, message, errs...)
}

// Forbidden indicates access is forbidden.
func Forbidden(message string, errs ...any) *Exception {
	return newResponse(http.StatusForbidden, ecode.AccessDenied, message, errs...)
}

// NotFound indicates that the requested resource is not found.
func NotFound(message string, errs ...any) *Exception {
	return newResponse(http.StatusNotFound, ecode.NothingFound, message, errs...)
}

// Conflict indicates a conflict error.
func Conflict(message string, errs ...any) *Exception {
	return newResponse(http.StatusConflict, ecode.Conflict, message, errs...)
}

// InternalServer indicates a server error.
func InternalServer(message string, errs ...any) *Exception {
	return newResponse(http.StatusInternalServerError, ecode.ServerErr, message, errs...)
}

// Validation indicates field-level validation failures.
func Validation(fieldErrors map[string]string) *Exception {
	return newResponse(http.StatusUnprocessableEntity, ecode.RequestErr, "", fieldErrors)
}
