// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package util

import "github.com/google/uuid"

// RequestIDHeader carries the correlation ID of an outbound request.
const RequestIDHeader = "x-ms-client-request-id"

// NewRequestID returns a random uuid used to correlate an outbound request
// with the service's logs.
func NewRequestID() string {
	return uuid.New().String()
}
