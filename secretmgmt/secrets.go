// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package secretmgmt

import (
	"context"
	"net/http"
	"time"

	"github.com/Azure/akv-binding/identity"
	"github.com/Azure/akv-binding/vault"
	"github.com/Azure/akv-binding/vaults"
	"github.com/Azure/akv-binding/version"
	"github.com/Azure/go-autorest/autorest"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultSecretResolveTimeout is the default timeout for resolving a secret which is 2 minute
	DefaultSecretResolveTimeout time.Duration = time.Minute * 2

	// DefaultRequestTimeout bounds each request sent by the default HTTP client.
	DefaultRequestTimeout time.Duration = time.Second * 30
)

// defaultSender is shared by every Resolver created without a Sender,
// so connections are pooled for the lifetime of the process.
var defaultSender autorest.Sender = &http.Client{Timeout: DefaultRequestTimeout}

// Options configures a Resolver.
type Options struct {
	// Sender sends the outbound requests. It's shared by concurrent resolutions.
	Sender autorest.Sender
	// Endpoints supplies the identity endpoint; it's consulted on every resolution.
	// Defaults to reading MSI_ENDPOINT and MSI_SECRET.
	Endpoints identity.EndpointProvider
	Logger    logrus.FieldLogger
	// Timeout bounds a whole resolution. Zero means DefaultSecretResolveTimeout.
	Timeout   time.Duration
	UserAgent string
}

// Resolver resolves secret locators to secret values by first acquiring a bearer
// token from the identity endpoint and then presenting it to the vault.
type Resolver struct {
	endpoints      identity.EndpointProvider
	tokens         *identity.Client
	secrets        *vaults.Client
	resolveTimeout time.Duration
	logger         logrus.FieldLogger
}

var _ vault.SecretResolver = &Resolver{}

// NewSecretResolver creates a resolver with the given options.
func NewSecretResolver(opts Options) (*Resolver, error) {
	if opts.Timeout < 0 {
		return nil, errors.Errorf("invalid secret resolve timeout: %v", opts.Timeout)
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultSecretResolveTimeout
	}
	if opts.Sender == nil {
		opts.Sender = defaultSender
	}
	if opts.Endpoints == nil {
		opts.Endpoints = identity.EnvProvider{}
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "akv-binding/" + version.Version
	}

	return &Resolver{
		endpoints:      opts.Endpoints,
		tokens:         identity.NewClient(opts.Sender, opts.UserAgent, opts.Logger),
		secrets:        vaults.NewClient(opts.Sender, opts.UserAgent, opts.Logger),
		resolveTimeout: opts.Timeout,
		logger:         opts.Logger,
	}, nil
}

// ResolveSecret returns the current value of the secret located at locator.
func (r *Resolver) ResolveSecret(ctx context.Context, locator string) (string, error) {
	endpoint, err := r.endpoints.Endpoint()
	if err != nil {
		if vault.KindOf(err) == vault.UnknownError {
			err = vault.NewError(vault.ConfigurationError, "unable to read the identity endpoint configuration", 0, err)
		}
		return "", err
	}
	if err := endpoint.Validate(); err != nil {
		return "", err
	}
	if locator == "" {
		return "", vault.NewError(vault.ConfigurationError, "secret locator is required", 0, nil)
	}

	ctx, cancel := context.WithTimeout(ctx, r.resolveTimeout)
	defer cancel()

	token, err := r.tokens.GetToken(ctx, endpoint)
	if err != nil {
		return "", errors.Wrap(err, "failed to get a bearer token from the identity endpoint")
	}

	value, err := r.secrets.GetSecretValue(ctx, locator, token)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch secret value from the vault")
	}
	return value, nil
}

// Result is the outcome of an asynchronous resolution.
type Result struct {
	Value string
	Err   error
}

// ResolveSecretAsync resolves the secret on its own goroutine. The returned channel
// receives exactly one Result and is then closed.
func (r *Resolver) ResolveSecretAsync(ctx context.Context, locator string) <-chan Result {
	resultChan := make(chan Result, 1)
	go func() {
		defer close(resultChan)
		value, err := r.ResolveSecret(ctx, locator)
		resultChan <- Result{Value: value, Err: err}
	}()
	return resultChan
}

// Fetcher returns a vault.SecretFetcher bound to the secret located at locator.
func (r *Resolver) Fetcher(locator string) vault.SecretFetcher {
	return &secretFetcher{resolver: r, locator: locator}
}

type secretFetcher struct {
	resolver vault.SecretResolver
	locator  string
}

// FetchSecretValue implements vault.SecretFetcher.
func (f *secretFetcher) FetchSecretValue(ctx context.Context) (string, error) {
	return f.resolver.ResolveSecret(ctx, f.locator)
}

// ResolveSecrets resolves the secrets one after another and stores their values
// in ResolvedValue. It stops at the first failure.
func ResolveSecrets(ctx context.Context, resolver vault.SecretResolver, secrets []*Secret) error {
	for _, secret := range secrets {
		if secret == nil {
			continue
		}
		if err := secret.Validate(); err != nil {
			return err
		}
		value, err := resolver.ResolveSecret(ctx, secret.KeyVault)
		if err != nil {
			return errors.Wrapf(err, "failed to resolve secret with ID: %s", secret.ID)
		}
		secret.ResolvedValue = value
	}
	return nil
}
