// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package secretmgmt

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestValidateSecret(t *testing.T) {
	tests := []struct {
		secret      *Secret
		shouldError bool
	}{
		{
			nil,
			false,
		},
		{
			&Secret{},
			true,
		},
		{
			// No vault properties
			&Secret{
				ID: "a",
			},
			true,
		},
		{
			// ID cannot contain spaces.
			&Secret{
				ID:       "my secret",
				KeyVault: "b",
			},
			true,
		},
		{
			&Secret{
				ID:       "a",
				KeyVault: "b",
			},
			false,
		},
	}

	for _, test := range tests {
		err := test.secret.Validate()
		if test.shouldError && err == nil {
			t.Fatalf("Expected secret: %v to error but it didn't", test.secret)
		}
		if !test.shouldError && err != nil {
			t.Fatalf("secret: %v shouldn't have errored, but it did; err: %v", test.secret, err)
		}
	}
}

func TestIsKeyVaultSecret(t *testing.T) {
	tests := []struct {
		secret   *Secret
		expected bool
	}{
		{
			nil,
			false,
		},
		{
			&Secret{
				KeyVault: "a",
			},
			true,
		},
		{
			&Secret{},
			false,
		},
	}

	for _, test := range tests {
		if actual := test.secret.IsKeyVaultSecret(); actual != test.expected {
			t.Errorf("Expected %v but got %v", test.expected, actual)
		}
	}
}

func TestSecretEquals(t *testing.T) {
	tests := []struct {
		s        *Secret
		t        *Secret
		expected bool
	}{
		{
			nil,
			nil,
			true,
		},
		{
			&Secret{},
			&Secret{},
			true,
		},
		{
			&Secret{
				ID: "a",
			},
			nil,
			false,
		},
		{
			nil,
			&Secret{
				ID: "a",
			},
			false,
		},
		{
			&Secret{
				ID:       "a",
				KeyVault: "b",
			},
			&Secret{
				ID:            "a",
				KeyVault:      "b",
				ResolvedValue: "c",
			},
			true,
		},
		{
			&Secret{
				ID:       "a",
				KeyVault: "b",
			},
			&Secret{
				ID:       "a",
				KeyVault: "c",
			},
			false,
		},
	}

	for _, test := range tests {
		if actual := test.s.Equals(test.t); actual != test.expected {
			t.Errorf("Expected %v and %v to be equal to %v but got %v", test.s, test.t, test.expected, actual)
		}
	}
}

func TestParseSecrets(t *testing.T) {
	data := []byte(`
secrets:
  - id: dbPassword
    keyvault: https://myvault.vault.azure.net/secrets/db
  - id: apiKey
    keyvault: https://myvault.vault.azure.net/secrets/api/abc123
`)
	secrets, err := ParseSecrets(data)
	assert.NilError(t, err)
	assert.Assert(t, is.Len(secrets, 2))
	assert.Check(t, secrets[0].Equals(&Secret{ID: "dbPassword", KeyVault: "https://myvault.vault.azure.net/secrets/db"}))
	assert.Check(t, secrets[1].Equals(&Secret{ID: "apiKey", KeyVault: "https://myvault.vault.azure.net/secrets/api/abc123"}))
}

func TestParseSecretsWithError(t *testing.T) {
	tests := []string{
		// Unknown field
		"secrets:\n  - id: a\n    akv: https://myvault.vault.azure.net/secrets/a\n",
		// Missing keyvault
		"secrets:\n  - id: a\n",
		// Space in ID
		"secrets:\n  - id: my secret\n    keyvault: https://myvault.vault.azure.net/secrets/a\n",
		// Duplicate IDs
		"secrets:\n  - id: a\n    keyvault: https://myvault.vault.azure.net/secrets/a\n  - id: a\n    keyvault: https://myvault.vault.azure.net/secrets/b\n",
		"not: [valid",
	}

	for _, test := range tests {
		if _, err := ParseSecrets([]byte(test)); err == nil {
			t.Fatalf("Expected secrets:\n%s\nto error but it didn't", test)
		}
	}
}

func TestLoadSecrets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.yaml")
	err := ioutil.WriteFile(path, []byte("secrets:\n  - id: a\n    keyvault: https://myvault.vault.azure.net/secrets/a\n"), 0600)
	assert.NilError(t, err)

	secrets, err := LoadSecrets(path)
	assert.NilError(t, err)
	assert.Assert(t, is.Len(secrets, 1))
	assert.Check(t, is.Equal("a", secrets[0].ID))

	_, err = LoadSecrets(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Check(t, is.ErrorContains(err, "failed to read secrets file"))
}
