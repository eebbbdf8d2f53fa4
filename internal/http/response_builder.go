// Package http exposes the record operations and reports as a JSON API.
//
// This file holds the fluent builder used for every JSON response and the
// mapping from domain errors to status codes.

package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"wealthwatcher/internal/core"
	"wealthwatcher/internal/identity"
	"wealthwatcher/internal/log"
	"wealthwatcher/internal/report"
	"wealthwatcher/internal/services"
	"wealthwatcher/internal/store"
)

// ErrorBody is the JSON body of every failed request.
type ErrorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	payload    any
	headers    map[string]string
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

// Data sets the value encoded as the response body.
func (b *JSONResponseBuilder) Data(v any) *JSONResponseBuilder {
	b.payload = v
	return b
}

func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Write sends the response. A 204 carries no body.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if b.statusCode == http.StatusNoContent {
		w.WriteHeader(b.statusCode)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	if err := json.NewEncoder(w).Encode(b.payload); err != nil {
		slog.Error("Failed to encode response", "component", "http", "error", err)
	}
}

// ErrorResponse creates an error response with the given status and message.
func ErrorResponse(statusCode int, message string) *JSONResponseBuilder {
	return NewJSONResponse().
		Status(statusCode).
		Data(ErrorBody{Status: "error", Message: message})
}

func BadRequestError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func UnprocessableEntityError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, message)
}

func NotFoundError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

func InternalServerError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

func TooManyRequestsError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
}

func ForbiddenError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusForbidden, "Request blocked")
}

var validationErrors = []error{
	core.ErrInvalidAmount,
	core.ErrInvalidDate,
	core.ErrEmptyCategory,
	core.ErrEmptyDescription,
	core.ErrDescriptionTooLong,
	services.ErrInvalidEmail,
}

// ErrorFor maps a service error to its response. Unknown errors are logged
// and reported as a generic 500.
func ErrorFor(r *http.Request, op string, err error) *JSONResponseBuilder {
	switch {
	case errors.Is(err, errMalformedBody):
		return BadRequestError(err.Error())
	case errors.Is(err, store.ErrNotFound):
		return NotFoundError("Record not found")
	case errors.Is(err, core.ErrItemNotFound):
		return NotFoundError("Item not found")
	case errors.Is(err, report.ErrUnknownKind):
		return NotFoundError(err.Error())
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return UnprocessableEntityError(err.Error())
		}
	}

	userID, _ := identity.CurrentUser(r.Context())
	log.FromContext(r.Context()).LogError(r.Context(), "Request failed", err, op,
		log.NewFields().WithHTTPRequest(r.Method, r.URL.Path, "", "").WithRecord(userID, ""))
	return InternalServerError("Internal server error")
}
