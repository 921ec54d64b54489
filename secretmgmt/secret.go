// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package secretmgmt

import (
	"io/ioutil"

	"github.com/Azure/akv-binding/util"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

var (
	errMissingSecretID       = errors.New("secret is missing an ID")
	errMissingSecretProps    = errors.New("secret should contain a keyvault property for the vault secret")
	errSecretIDContainsSpace = errors.New("secret ID cannot contain spaces")
)

// Secret defines a wrapper to resolve vault secrets to values.
type Secret struct {
	ID       string `yaml:"id"`
	KeyVault string `yaml:"keyvault"`

	// After the Secret is resolved, the value can be found here.
	ResolvedValue string `yaml:"-"`
}

// Validate validates the secrets and returns an error if the secret properties are invalid.
func (s *Secret) Validate() error {
	if s == nil {
		return nil
	}

	if s.ID == "" {
		return errMissingSecretID
	}
	if util.ContainsSpace(s.ID) {
		return errSecretIDContainsSpace
	}
	if !s.IsKeyVaultSecret() {
		return errMissingSecretProps
	}

	return nil
}

// IsKeyVaultSecret returns true if a Secret is a key vault, false otherwise.
func (s *Secret) IsKeyVaultSecret() bool {
	return s != nil && s.KeyVault != ""
}

// Equals determines whether or not two secrets are equal.
func (s *Secret) Equals(t *Secret) bool {
	if s == nil && t == nil {
		return true
	}
	if s == nil || t == nil {
		return false
	}

	return s.ID == t.ID &&
		s.KeyVault == t.KeyVault
}

// secretsFile is the document read by LoadSecrets.
type secretsFile struct {
	Secrets []*Secret `yaml:"secrets"`
}

// ParseSecrets parses a yaml document listing secrets and validates each of them.
func ParseSecrets(data []byte) ([]*Secret, error) {
	var f secretsFile
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, errors.Wrap(err, "failed to deserialize secrets")
	}

	ids := make(map[string]bool, len(f.Secrets))
	for _, s := range f.Secrets {
		if s == nil {
			continue
		}
		if err := s.Validate(); err != nil {
			return nil, errors.Wrapf(err, "invalid secret %q", s.ID)
		}
		if ids[s.ID] {
			return nil, errors.Errorf("duplicate secret ID: %s", s.ID)
		}
		ids[s.ID] = true
	}
	return f.Secrets, nil
}

// LoadSecrets reads and parses a yaml secrets file.
func LoadSecrets(path string) ([]*Secret, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read secrets file %s", path)
	}
	return ParseSecrets(data)
}
