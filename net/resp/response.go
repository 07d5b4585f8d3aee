// Package resp writes the JSON response envelope shared by all handlers.
//
// Success responses serialize the payload directly. Failure responses
// use a small envelope: {"error": "..."} for a single message,
// {"errors": {field: message}} for validation failures.
package resp

import (
	"encoding/json"
	"net/http"

	"github.com/ncobase/shopauth/ecode"
)

// Exception represents a failure response.
type Exception struct {
	Status  int    `json:"-"`                // HTTP status
	Code    int    `json:"-"`                // Business code
	Message string `json:"error,omitempty"`  // Single error message
	Errors  any    `json:"errors,omitempty"` // Field-level validation errors
}

// newResponse creates a failure response.
func newResponse(status, code int, message string, errs ...any) *Exception {
	var fieldErrors any
	if len(errs) > 0 {
		fieldErrors = errs[0]
	}
	return &Exception{
		Status:  status,
		Code:    code,
		Message: message,
		Errors:  fieldErrors,
	}
}

// Success writes a 200 response with the given payload.
func Success(w http.ResponseWriter, data ...any) {
	WithStatusCode(w, http.StatusOK, data...)
}

// WithStatusCode writes a success response with a custom status code.
// A bare string payload is wrapped as {"message": ...}.
func WithStatusCode(w http.ResponseWriter, statusCode int, data ...any) {
	var payload any = map[string]string{"message": "ok"}
	if len(data) > 0 {
		payload = data[0]
		if msg, ok := payload.(string); ok {
			payload = map[string]string{"message": msg}
		}
	}
	writeJSON(w, statusCode, payload)
}

// Fail writes a failure response.
func Fail(w http.ResponseWriter, r *Exception) {
	if r == nil {
		r = &Exception{
			Status:  http.StatusInternalServerError,
			Code:    ecode.ServerErr,
			Message: ecode.Text(ecode.ServerErr),
		}
	}
	if r.Status == 0 {
		r.Status = ecode.ToHTTPStatus(r.Code)
	}
	if r.Message == "" && r.Errors == nil {
		r.Message = ecode.Text(r.Code)
	}
	writeJSON(w, r.Status, r)
}

// writeJSON writes the response body as JSON.
func writeJSON(w http.ResponseWriter, code int, res any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		http.Error(w, "Failed to encode JSON response", http.StatusInternalServerError)
	}
}
