// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package identity

import (
	"os"
	"strings"

	"github.com/Azure/akv-binding/util"
	"github.com/Azure/akv-binding/vault"
	"github.com/Azure/go-autorest/autorest/azure"
)

const (
	// EnvMsiEndpoint is the environment variable holding the identity endpoint URL.
	EnvMsiEndpoint = "MSI_ENDPOINT"
	// EnvMsiSecret is the environment variable holding the identity endpoint's shared secret.
	EnvMsiSecret = "MSI_SECRET"

	msiAPIVersion = "2017-09-01"
	secretHeader  = "secret"
)

// VaultResource is the resource a token is requested for, i.e. https://vault.azure.net
var VaultResource = strings.TrimSuffix(azure.PublicCloud.KeyVaultEndpoint, "/")

const errInvalidEndpoint = "identity endpoint is not a valid HTTPS URL"

// Endpoint describes the identity endpoint and the shared secret presented to it.
type Endpoint struct {
	URL    string
	Secret string
}

// Validate returns a ConfigurationError if the endpoint URL isn't an absolute https URL.
func (e Endpoint) Validate() error {
	if !util.IsHTTPSURL(e.URL) {
		return vault.NewError(vault.ConfigurationError, errInvalidEndpoint, 0, nil)
	}
	return nil
}

// TokenRequestURL returns the URL used to request a bearer token for the vault resource.
func (e Endpoint) TokenRequestURL() string {
	return util.AppendQuery(e.URL, "resource="+VaultResource+"&api-version="+msiAPIVersion)
}

// EndpointProvider supplies the identity endpoint configuration.
// It's consulted on every resolution, so implementations must not cache
// unless that is what the caller wants.
type EndpointProvider interface {
	Endpoint() (Endpoint, error)
}

// EnvProvider reads the endpoint from MSI_ENDPOINT and MSI_SECRET.
type EnvProvider struct {
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(key string) (string, bool)
}

// Endpoint implements EndpointProvider.
func (p EnvProvider) Endpoint() (Endpoint, error) {
	lookup := p.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	endpointURL, ok := lookup(EnvMsiEndpoint)
	if !ok || endpointURL == "" {
		return Endpoint{}, vault.NewError(vault.ConfigurationError, errInvalidEndpoint+"; "+EnvMsiEndpoint+" is not set", 0, nil)
	}
	secret, _ := lookup(EnvMsiSecret)
	return Endpoint{URL: endpointURL, Secret: secret}, nil
}

// StaticProvider always returns the same endpoint.
type StaticProvider Endpoint

// Endpoint implements EndpointProvider.
func (p StaticProvider) Endpoint() (Endpoint, error) {
	return Endpoint(p), nil
}
