// Package errors defines domain-level errors used throughout the application.
// These errors represent classification, envelope and resource failures and are mapped to appropriate
// HTTP status codes at the API boundary.
//
// NOTE: Important for developers
// When adding a new error here, you MUST consider how it should be handled when returned from API endpoints.
//
// Unmapped errors will default to HTTP 500 Internal Server Error.
//
// Don't forget to:
// 1. Add your error to mapError (internal/daemon/api_server.go)
// 2. Add a test case to TestMapError (internal/daemon/api_server_test.go)
// 3. Consider if existing handler tests need updates
package errors

import (
	"errors"
)

var (
	// ErrInvalidArgument indicates that a required argument was absent, such as a nil type descriptor
	// handed to the shape classifier.
	// This is a programming error and is never defaulted to a guessed verdict.
	// Recommended to map to HTTP 500 Internal Server Error.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupportedShape indicates that no read-envelope could be constructed for a target type.
	// This happens when a type requires enveloping but was never registered with the envelope registry.
	// It is a configuration error, the body is never decoded unwrapped in its place.
	// Recommended to map to HTTP 500 Internal Server Error.
	ErrUnsupportedShape = errors.New("unsupported shape")

	// ErrMissingRoot indicates that an incoming body expected to be enveloped did not carry the
	// root key for its type and could not be resolved unambiguously.
	// Recommended to map to HTTP 400 Bad Request.
	ErrMissingRoot = errors.New("envelope root key missing")

	// ErrBadRequest indicates that the client provided invalid input or made a malformed request.
	// This typically results from validation failures or incorrect request parameters.
	// Recommended to map to HTTP 400 Bad Request.
	ErrBadRequest = errors.New("bad request")

	// ErrResourceNotFound indicates that the requested resource does not exist in the store.
	// Recommended to map to HTTP 404 Not Found.
	ErrResourceNotFound = errors.New("resource not found")
)
