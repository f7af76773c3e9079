// Package http serves the JSON API.
//
// This file holds the request parsing helpers shared by the handlers: body
// reading with a size cap, strict JSON decoding and path/query extraction.

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"casa/internal/core"
)

// maxBodyBytes caps every request body.
const maxBodyBytes = 1 << 20

// ReadBody reads the whole request body, refusing anything over maxBodyBytes.
func ReadBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: body exceeds %d bytes", errBadRequest, maxBodyBytes)
		}
		return nil, fmt.Errorf("%w: read body: %v", errBadRequest, err)
	}
	return body, nil
}

// DecodeJSON decodes the body into a T. Unknown fields are rejected so that
// typos surface as 400s instead of silently doing nothing. An empty body
// decodes to the zero T when optional is set.
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request, optional bool) (T, error) {
	var v T
	body, err := ReadBody(w, r)
	if err != nil {
		return v, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		if optional {
			return v, nil
		}
		return v, fmt.Errorf("%w: request body is required", errBadRequest)
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("%w: invalid JSON: %v", errBadRequest, err)
	}
	if dec.More() {
		return v, fmt.Errorf("%w: trailing data after JSON document", errBadRequest)
	}
	return v, nil
}

// PathKind resolves the {kind} path segment.
func PathKind(r *http.Request) (core.Kind, error) {
	kind := core.Kind(strings.ToLower(r.PathValue("kind")))
	if !kind.Valid() {
		return "", fmt.Errorf("%w: unknown kind %q", errBadRequest, r.PathValue("kind"))
	}
	return kind, nil
}

// PathID returns a path segment with control characters stripped.
func PathID(r *http.Request, name string) (string, error) {
	id := sanitizeInput(r.PathValue(name))
	if id == "" {
		return "", fmt.Errorf("%w: missing %s", errBadRequest, name)
	}
	return id, nil
}

// ScopeParam reads the optional propertyId query parameter. Empty means
// unscoped.
func ScopeParam(r *http.Request) string {
	return sanitizeInput(r.URL.Query().Get("propertyId"))
}
