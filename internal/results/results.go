// Package results defines the tagged result returned by every service-layer
// operation. Handlers translate a Code to an HTTP status and pass the field
// errors through verbatim as the errorsMessages body.
package results

import "net/http"

// Code classifies the outcome of a service operation.
type Code int

const (
	Success Code = iota
	BadRequest
	Unauthorized
	Forbidden
	NotFound
	Internal
)

// FieldError is one entry of the errorsMessages array.
type FieldError struct {
	Message string `json:"message"`
	Field   string `json:"field"`
}

// APIError is the JSON error body for 400/401/403/429 responses.
type APIError struct {
	ErrorsMessages []FieldError `json:"errorsMessages"`
}

// Result is the outcome of a service operation: a code plus, on failure,
// the field errors to report. The zero value is Success with no errors.
type Result struct {
	Code   Code
	Errors []FieldError
}

// OK returns a successful result.
func OK() Result { return Result{Code: Success} }

// BadRequestf returns a BadRequest result with a single field error.
func BadRequestf(field, message string) Result {
	return Result{Code: BadRequest, Errors: []FieldError{{Message: message, Field: field}}}
}

// Unauthorizedf returns an Unauthorized result with a single message.
func Unauthorizedf(message string) Result {
	return Result{Code: Unauthorized, Errors: []FieldError{{Message: message}}}
}

// Forbiddenf returns a Forbidden result with a single message.
func Forbiddenf(message string) Result {
	return Result{Code: Forbidden, Errors: []FieldError{{Message: message}}}
}

// NotFoundf returns a NotFound result with a single message.
func NotFoundf(message string) Result {
	return Result{Code: NotFound, Errors: []FieldError{{Message: message}}}
}

// InternalErr returns an Internal result. The underlying error is logged by
// the service, never serialized to the client.
func InternalErr() Result {
	return Result{Code: Internal, Errors: []FieldError{{Message: "internal server error"}}}
}

// Failed reports whether the result is anything other than Success.
func (r Result) Failed() bool { return r.Code != Success }

// HTTPStatus maps the code to its HTTP status. Success maps to 200; callers
// that answer 204 or set bodies choose their own success status.
func (r Result) HTTPStatus() int {
	switch r.Code {
	case Success:
		return http.StatusOK
	case BadRequest:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Body returns the errorsMessages body for a failed result.
func (r Result) Body() APIError {
	return APIError{ErrorsMessages: r.Errors}
}
