// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package vaults

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Azure/akv-binding/util"
	"github.com/Azure/akv-binding/vault"
	"github.com/Azure/azure-sdk-for-go/services/keyvault/v7.0/keyvault"
	"github.com/Azure/go-autorest/autorest"
	"github.com/Azure/go-autorest/autorest/adal"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	vaultAPIVersion    = "2016-10-01"
	errInvalidResponse = "invalid response from vault endpoint"
)

// SecretURL holds the parts of an azure keyvault secret URL.
type SecretURL struct {
	VaultURL      string
	SecretName    string
	SecretVersion string
}

// ParseSecretURL splits an azure keyvault secret URL into the vault, secret name and version.
// Ex. https://myvault.vault.azure.net/secrets/mysecret/myversion
func ParseSecretURL(secretURL string) (*SecretURL, error) {
	if secretURL == "" {
		return nil, errors.New("missing azure keyvault URL")
	}

	normalizedURL := strings.TrimSuffix(secretURL, "/")
	if i := strings.IndexByte(normalizedURL, '?'); i >= 0 {
		normalizedURL = strings.TrimSuffix(normalizedURL[:i], "/")
	}

	parsedURL, err := url.Parse(normalizedURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse the azure keyvault secret URL")
	}

	if parsedURL.Scheme != "https" {
		return nil, errors.New("invalid azure keyvault secret URL scheme. Expected Https")
	}

	urlSegments := strings.Split(parsedURL.Path, "/")

	if len(urlSegments) != 3 && len(urlSegments) != 4 {
		return nil, fmt.Errorf("invalid azure keyvault secret URL. Bad number of URL segments: %d", len(urlSegments))
	}

	if !strings.EqualFold(urlSegments[1], "secrets") {
		return nil, fmt.Errorf("invalid azure keyvault secret URL. Expected 'secrets' collection, but found: %s", urlSegments[1])
	}

	if urlSegments[2] == "" {
		return nil, errors.New("invalid azure keyvault secret URL. Missing secret name")
	}

	secretVersion := ""
	if len(urlSegments) == 4 {
		if urlSegments[3] == "" {
			return nil, errors.New("invalid azure keyvault secret URL. Empty secret version")
		}
		secretVersion = urlSegments[3]
	}

	return &SecretURL{
		VaultURL:      fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host),
		SecretName:    urlSegments[2],
		SecretVersion: secretVersion,
	}, nil
}

// SecretRequestURL returns the URL used to fetch the secret located at locator.
func SecretRequestURL(locator string) string {
	return util.AppendQuery(locator, "api-version="+vaultAPIVersion)
}

// Client fetches secret values from a vault.
type Client struct {
	sender    autorest.Sender
	userAgent string
	logger    logrus.FieldLogger
}

// NewClient creates a Client sending requests through the specified sender.
func NewClient(sender autorest.Sender, userAgent string, logger logrus.FieldLogger) *Client {
	if sender == nil {
		sender = http.DefaultClient
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Client{sender: sender, userAgent: userAgent, logger: logger}
}

// GetSecretValue fetches the value of the secret located at locator, authorizing with token.
func (c *Client) GetSecretValue(ctx context.Context, locator string, token adal.OAuthTokenProvider) (string, error) {
	if locator == "" {
		return "", vault.NewError(vault.ConfigurationError, "secret locator is required", 0, nil)
	}

	requestID := util.NewRequestID()
	fields := logrus.Fields{
		"requestID": requestID,
		"host":      util.Host(locator),
	}
	if secretURL, err := ParseSecretURL(locator); err == nil {
		fields["secret"] = secretURL.SecretName
	}
	log := c.logger.WithFields(fields)

	if util.HasFragment(locator) {
		log.Debug("Dropping the fragment of the secret locator")
	}

	// The locator's query is sent exactly as given; autorest.WithBaseURL would re-encode it.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, SecretRequestURL(locator), nil)
	if err == nil && (!req.URL.IsAbs() || req.URL.Host == "") {
		err = errors.Errorf("secret locator %s is not an absolute URL", locator)
	}
	if err == nil {
		req, err = autorest.Prepare(req,
			autorest.WithHeader(util.RequestIDHeader, requestID),
			autorest.WithUserAgent(c.userAgent),
			autorest.NewBearerAuthorizer(token).WithAuthorization(),
		)
	}
	if err != nil {
		return "", vault.NewError(vault.VaultEndpointError, errInvalidResponse, 0, errors.Wrap(err, "unable to create the secret request"))
	}

	start := time.Now()
	resp, err := autorest.SendWithSender(c.sender, req)
	if err != nil {
		log.WithError(err).Debug("Secret request failed")
		return "", vault.NewError(vault.VaultEndpointError, errInvalidResponse, 0, errors.Wrap(err, "unable to send the secret request"))
	}
	defer resp.Body.Close()

	log = log.WithFields(logrus.Fields{
		"status":  resp.StatusCode,
		"elapsed": time.Since(start),
	})
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		log.Debug("Vault endpoint returned an unsuccessful status")
		_ = autorest.Respond(resp, autorest.ByDiscardingBody())
		return "", vault.NewError(vault.VaultEndpointError, errInvalidResponse, resp.StatusCode, nil)
	}

	var bundle keyvault.SecretBundle
	if err := json.NewDecoder(resp.Body).Decode(&bundle); err != nil {
		return "", vault.NewError(vault.VaultEndpointError, errInvalidResponse, resp.StatusCode,
			errors.Wrapf(vault.ErrMalformedResponse, "unable to parse the secret response: %v", err))
	}
	if bundle.Value == nil {
		return "", vault.NewError(vault.VaultEndpointError, errInvalidResponse, resp.StatusCode,
			errors.Wrap(vault.ErrMalformedResponse, "value is missing from the secret response"))
	}

	log.Debug("Fetched secret value")
	return *bundle.Value, nil
}
