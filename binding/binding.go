// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package binding exposes resolved key vault secrets in the shape expected by
// function hosts: a parameter is declared with an Attribute and receives an Item.
package binding

import (
	"context"

	"github.com/Azure/akv-binding/vault"
	"github.com/pkg/errors"
)

// Attribute declares a parameter bound to a key vault secret.
type Attribute struct {
	SecretURL string `json:"secretUrl" yaml:"secretUrl"`
}

// Item holds a resolved secret. The field is called name for compatibility
// with existing callers.
type Item struct {
	Name string `json:"name"`
}

// ItemToString converts an Item to the secret value.
func ItemToString(item Item) string {
	return item.Name
}

// StringToItem wraps a secret value into an Item.
func StringToItem(s string) Item {
	return Item{Name: s}
}

// Binder builds Items from Attributes.
type Binder struct {
	resolver vault.SecretResolver
}

// NewBinder creates a Binder resolving secrets with resolver.
func NewBinder(resolver vault.SecretResolver) (*Binder, error) {
	if resolver == nil {
		return nil, errors.New("secret resolver is required")
	}
	return &Binder{resolver: resolver}, nil
}

// Bind resolves the secret declared by attr.
func (b *Binder) Bind(ctx context.Context, attr Attribute) (Item, error) {
	value, err := b.resolver.ResolveSecret(ctx, attr.SecretURL)
	if err != nil {
		return Item{}, errors.Wrapf(err, "failed to bind secret %s", attr.SecretURL)
	}
	return StringToItem(value), nil
}

// BindAll resolves every attribute in attrs, keyed by parameter name, one after another.
func (b *Binder) BindAll(ctx context.Context, attrs map[string]Attribute) (map[string]Item, error) {
	items := make(map[string]Item, len(attrs))
	for name, attr := range attrs {
		item, err := b.Bind(ctx, attr)
		if err != nil {
			return nil, errors.Wrapf(err, "parameter %s", name)
		}
		items[name] = item
	}
	return items, nil
}
