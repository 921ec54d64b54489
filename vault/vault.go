// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package vault

import "context"

// SecretResolver resolves a secret locator to the secret's current value.
type SecretResolver interface {
	ResolveSecret(ctx context.Context, locator string) (string, error)
}

// SecretFetcher is the interface that provides a secret value stored in a vault.
type SecretFetcher interface {
	// FetchSecretValue resolves vault secret values
	FetchSecretValue(ctx context.Context) (string, error)
}
