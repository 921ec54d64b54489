// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package vault

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a failure to resolve a secret.
type Kind int

const (
	// UnknownError is the kind of errors not produced by this module.
	UnknownError Kind = iota
	// ConfigurationError indicates a missing or invalid identity endpoint or secret locator.
	ConfigurationError
	// IdentityEndpointError indicates the bearer token could not be acquired.
	IdentityEndpointError
	// VaultEndpointError indicates the secret could not be fetched from the vault.
	VaultEndpointError
)

// ErrMalformedResponse is wrapped by errors raised when an endpoint answered
// successfully but its body didn't carry the expected field.
var ErrMalformedResponse = errors.New("malformed response")

func (k Kind) String() string {
	switch k {
	case ConfigurationError:
		return "ConfigurationError"
	case IdentityEndpointError:
		return "IdentityEndpointError"
	case VaultEndpointError:
		return "VaultEndpointError"
	default:
		return "UnknownError"
	}
}

// Error is a typed secret resolution failure.
type Error struct {
	Kind    Kind
	Message string
	// StatusCode is the HTTP status observed, or 0 if no response was received.
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status code: %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// Cause returns the underlying error, for use with errors.Cause.
func (e *Error) Cause() error { return e.Err }

// NewError returns an *Error of the specified kind.
func NewError(kind Kind, message string, statusCode int, err error) *Error {
	return &Error{
		Kind:       kind,
		Message:    message,
		StatusCode: statusCode,
		Err:        err,
	}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return UnknownError
}

// StatusCodeOf returns the HTTP status code recorded in err's chain, or 0.
func StatusCodeOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// IsConfigurationError returns true if err is a ConfigurationError.
func IsConfigurationError(err error) bool {
	return KindOf(err) == ConfigurationError
}

// IsIdentityEndpointError returns true if err is an IdentityEndpointError.
func IsIdentityEndpointError(err error) bool {
	return KindOf(err) == IdentityEndpointError
}

// IsVaultEndpointError returns true if err is a VaultEndpointError.
func IsVaultEndpointError(err error) bool {
	return KindOf(err) == VaultEndpointError
}
