// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package identity

import (
	"testing"

	"github.com/Azure/akv-binding/vault"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestValidateEndpoint(t *testing.T) {
	tests := []struct {
		url         string
		shouldError bool
	}{
		{"", true},
		{"http://id.example/", true},
		{"ftp://id.example/", true},
		{"/msi/token", true},
		{"id.example", true},
		{"https://", true},
		{"https://id.example/", false},
		{"https://127.0.0.1:41741/msi/token/", false},
	}

	for _, test := range tests {
		err := Endpoint{URL: test.url, Secret: "S"}.Validate()
		if test.shouldError {
			assert.Check(t, vault.IsConfigurationError(err), "url: %q, err: %v", test.url, err)
		} else {
			assert.NilError(t, err, "url: %q", test.url)
		}
	}
}

func TestTokenRequestURL(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://id.example/", "https://id.example/?resource=https://vault.azure.net&api-version=2017-09-01"},
		{"https://127.0.0.1:41741/msi/token", "https://127.0.0.1:41741/msi/token?resource=https://vault.azure.net&api-version=2017-09-01"},
	}

	for _, test := range tests {
		assert.Check(t, is.Equal(test.expected, Endpoint{URL: test.url}.TokenRequestURL()))
	}
}

func TestEnvProvider(t *testing.T) {
	tests := []struct {
		env         map[string]string
		expected    Endpoint
		shouldError bool
	}{
		{
			map[string]string{EnvMsiEndpoint: "https://id.example/", EnvMsiSecret: "S"},
			Endpoint{URL: "https://id.example/", Secret: "S"},
			false,
		},
		{
			// An invalid URL is returned as is and rejected by Validate.
			map[string]string{EnvMsiEndpoint: "http://id.example/"},
			Endpoint{URL: "http://id.example/"},
			false,
		},
		{
			map[string]string{EnvMsiSecret: "S"},
			Endpoint{},
			true,
		},
		{
			map[string]string{EnvMsiEndpoint: ""},
			Endpoint{},
			true,
		},
	}

	for _, test := range tests {
		env := test.env
		p := EnvProvider{LookupEnv: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		}}
		actual, err := p.Endpoint()
		if test.shouldError {
			assert.Check(t, vault.IsConfigurationError(err), "env: %v", test.env)
			continue
		}
		assert.NilError(t, err)
		assert.Check(t, is.DeepEqual(test.expected, actual))
	}
}

func TestEnvProviderReadsEveryCall(t *testing.T) {
	t.Setenv(EnvMsiEndpoint, "https://first.example/")
	t.Setenv(EnvMsiSecret, "one")
	p := EnvProvider{}

	first, err := p.Endpoint()
	assert.NilError(t, err)
	assert.Check(t, is.Equal("https://first.example/", first.URL))

	t.Setenv(EnvMsiEndpoint, "https://second.example/")
	t.Setenv(EnvMsiSecret, "two")
	second, err := p.Endpoint()
	assert.NilError(t, err)
	assert.Check(t, is.DeepEqual(Endpoint{URL: "https://second.example/", Secret: "two"}, second))
}

func TestStaticProvider(t *testing.T) {
	ep := Endpoint{URL: "https://id.example/", Secret: "S"}
	actual, err := StaticProvider(ep).Endpoint()
	assert.NilError(t, err)
	assert.Check(t, is.DeepEqual(ep, actual))
}
