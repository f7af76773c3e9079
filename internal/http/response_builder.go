// Package http serves the JSON API.
//
// This file implements a small fluent builder for JSON responses and the
// mapping from service errors to HTTP status codes.

package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"casa/internal/core"
	"casa/internal/log"
	"casa/internal/store"
)

// errBadRequest marks request-shape problems detected by the handlers.
var errBadRequest = errors.New("bad request")

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	body       any
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

func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Body sets the value encoded as the response body. A nil body writes no
// content.
func (b *JSONResponseBuilder) Body(v any) *JSONResponseBuilder {
	b.body = v
	return b
}

// Write sends the built response.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if b.body == nil || b.statusCode == http.StatusNoContent {
		w.WriteHeader(b.statusCode)
		return
	}
	payload, err := json.Marshal(b.body)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"failed to encode response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(b.statusCode)
	_, _ = w.Write(append(payload, '\n'))
}

type errorBody struct {
	Error string `json:"error"`
}

// ErrorResponse creates a {"error": message} response.
func ErrorResponse(statusCode int, message string) *JSONResponseBuilder {
	return NewJSONResponse().Status(statusCode).Body(errorBody{Error: message})
}

func BadRequestError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func NotFoundError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

func UnprocessableEntityError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, message)
}

func InternalServerError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

func MethodNotAllowedError(allowedMethods string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusMethodNotAllowed, "method not allowed").
		Header("Allow", allowedMethods)
}

// StatusFor maps a service error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, core.ErrExpenseNotFound),
		errors.Is(err, core.ErrTaskNotFound),
		errors.Is(err, core.ErrInvoiceNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, store.ErrMalformed),
		errors.Is(err, store.ErrUnknownKind),
		errors.Is(err, store.ErrMissingID):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrValidation),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidTransition),
		errors.Is(err, core.ErrReopenNotAllowed),
		errors.Is(err, core.ErrUnknownStatus):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// ErrorTypeFor classifies err for logging.
func ErrorTypeFor(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return log.ErrorTypeTimeout
	}
	switch StatusFor(err) {
	case http.StatusNotFound:
		return log.ErrorTypeNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return log.ErrorTypeValidation
	default:
		return log.ErrorTypeInternal
	}
}

// ErrorFor builds the response for err. Internal errors get a generic
// message; the detail stays in the logs.
func ErrorFor(err error) *JSONResponseBuilder {
	switch status := StatusFor(err); status {
	case http.StatusNotFound:
		return NotFoundError(err.Error())
	case http.StatusBadRequest:
		return BadRequestError(err.Error())
	case http.StatusUnprocessableEntity:
		return UnprocessableEntityError(err.Error())
	case http.StatusInternalServerError:
		return InternalServerError("internal error")
	default:
		return ErrorResponse(status, err.Error())
	}
}
