// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Azure/akv-binding/util"
	"github.com/Azure/akv-binding/vault"
	"github.com/Azure/go-autorest/autorest"
	"github.com/Azure/go-autorest/autorest/adal"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const errInvalidResponse = "invalid response from identity endpoint"

// BearerToken is an opaque token returned by the identity endpoint.
type BearerToken string

var _ adal.OAuthTokenProvider = BearerToken("")

// OAuthToken implements adal.OAuthTokenProvider.
func (t BearerToken) OAuthToken() string {
	return string(t)
}

// tokenResponse is the response body from the identity endpoint.
type tokenResponse struct {
	BearerToken *string `json:"bearer_token"`
}

// Client requests bearer tokens from an identity endpoint.
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

// GetToken exchanges the endpoint's shared secret for a bearer token.
func (c *Client) GetToken(ctx context.Context, endpoint Endpoint) (BearerToken, error) {
	if err := endpoint.Validate(); err != nil {
		return "", err
	}

	requestID := util.NewRequestID()
	log := c.logger.WithFields(logrus.Fields{
		"requestID": requestID,
		"host":      util.Host(endpoint.URL),
	})

	if util.HasFragment(endpoint.URL) {
		log.Debug("Dropping the fragment of the identity endpoint URL")
	}

	// The query is sent exactly as built; autorest.WithBaseURL would re-encode it.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.TokenRequestURL(), nil)
	if err == nil {
		req, err = autorest.Prepare(req,
			autorest.WithHeader(secretHeader, endpoint.Secret),
			autorest.WithHeader(util.RequestIDHeader, requestID),
			autorest.WithUserAgent(c.userAgent),
		)
	}
	if err != nil {
		return "", vault.NewError(vault.ConfigurationError, errInvalidEndpoint, 0, errors.Wrap(err, "unable to create the token request"))
	}

	start := time.Now()
	resp, err := autorest.SendWithSender(c.sender, req)
	if err != nil {
		log.WithError(err).Debug("Token request failed")
		return "", vault.NewError(vault.IdentityEndpointError, errInvalidResponse, 0, errors.Wrap(err, "unable to send the token request"))
	}
	defer resp.Body.Close()

	log = log.WithFields(logrus.Fields{
		"status":  resp.StatusCode,
		"elapsed": time.Since(start),
	})
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		log.Debug("Identity endpoint returned an unsuccessful status")
		_ = autorest.Respond(resp, autorest.ByDiscardingBody())
		return "", vault.NewError(vault.IdentityEndpointError, errInvalidResponse, resp.StatusCode, nil)
	}

	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", vault.NewError(vault.IdentityEndpointError, errInvalidResponse, resp.StatusCode,
			errors.Wrapf(vault.ErrMalformedResponse, "unable to parse the token response: %v", err))
	}
	if body.BearerToken == nil || *body.BearerToken == "" {
		return "", vault.NewError(vault.IdentityEndpointError, errInvalidResponse, resp.StatusCode,
			errors.Wrap(vault.ErrMalformedResponse, "bearer_token is missing from the token response"))
	}

	log.Debug("Acquired bearer token")
	return BearerToken(*body.BearerToken), nil
}
