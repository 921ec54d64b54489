// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"testing"

	"github.com/Azure/akv-binding/vault"
	"github.com/pkg/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{
			errors.New("secret url is required"),
			1,
		},
		{
			vault.NewError(vault.ConfigurationError, "identity endpoint is not a valid HTTPS URL", 0, nil),
			2,
		},
		{
			errors.Wrap(vault.NewError(vault.IdentityEndpointError, "invalid response from identity endpoint", 500, nil), "failed"),
			3,
		},
		{
			errors.Wrap(vault.NewError(vault.VaultEndpointError, "invalid response from vault endpoint", 404, nil), "failed"),
			4,
		},
	}

	for _, test := range tests {
		if actual := exitCode(test.err); actual != test.expected {
			t.Fatalf("Expected exit code %d for '%v' but got %d", test.expected, test.err, actual)
		}
	}
}

func TestNew(t *testing.T) {
	app := New()
	for _, name := range []string{"getsecret", "version"} {
		if app.Command(name) == nil {
			t.Fatalf("Expected command %s to be registered", name)
		}
	}
}
