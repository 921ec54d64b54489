// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package getsecret

import (
	gocontext "context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Azure/akv-binding/binding"
	"github.com/Azure/akv-binding/identity"
	"github.com/Azure/akv-binding/secretmgmt"
	"github.com/Azure/go-autorest/autorest"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

// Command fetches secrets from azure keyvault and displays their values as output.
var Command = NewCommand(nil)

// NewCommand creates the getsecret command. A nil sender uses the resolver's shared HTTP client.
func NewCommand(sender autorest.Sender) cli.Command {
	identityFlags := []cli.Flag{
		cli.StringFlag{
			Name:   "msi-endpoint",
			Usage:  "the managed identity endpoint URL, must be https",
			EnvVar: identity.EnvMsiEndpoint,
		},
		cli.StringFlag{
			Name:   "msi-secret",
			Usage:  "the secret presented to the managed identity endpoint",
			EnvVar: identity.EnvMsiSecret,
		},
		cli.DurationFlag{
			Name:  "timeout",
			Usage: "the timeout for resolving a secret",
			Value: secretmgmt.DefaultSecretResolveTimeout,
		},
	}

	return cli.Command{
		Name:  "getsecret",
		Usage: "gets secret values from azure keyvault.",
		Subcommands: []cli.Command{
			{
				Name:  "url",
				Usage: "gets the value of the secret at the specified azure keyvault secret URL.",
				Flags: append([]cli.Flag{
					cli.StringFlag{
						Name:  "url",
						Usage: "the azure keyvault secret URL",
					},
					cli.BoolFlag{
						Name:  "json",
						Usage: `print the secret as {"name": "<value>"}`,
					},
				}, identityFlags...),
				Action: func(context *cli.Context) error {
					url := context.String("url")
					if url == "" {
						return errors.New("secret url is required")
					}

					resolver, err := newResolver(context, sender)
					if err != nil {
						return err
					}

					secretValue, err := resolver.Fetcher(url).FetchSecretValue(gocontext.Background())
					if err != nil {
						return err
					}
					if context.Bool("json") {
						return printJSON(context, binding.StringToItem(secretValue))
					}
					fmt.Fprintln(context.App.Writer, secretValue)
					return nil
				},
			},
			{
				Name:  "file",
				Usage: "gets the values of the secrets listed in a yaml file and prints them as json keyed by secret ID.",
				Flags: append([]cli.Flag{
					cli.StringFlag{
						Name:  "file, f",
						Usage: "the yaml file listing the secrets",
					},
				}, identityFlags...),
				Action: func(context *cli.Context) error {
					file := context.String("file")
					if file == "" {
						return errors.New("secrets file is required")
					}

					secrets, err := secretmgmt.LoadSecrets(file)
					if err != nil {
						return err
					}

					resolver, err := newResolver(context, sender)
					if err != nil {
						return err
					}

					if err := secretmgmt.ResolveSecrets(gocontext.Background(), resolver, secrets); err != nil {
						return err
					}

					items := make(map[string]binding.Item, len(secrets))
					for _, s := range secrets {
						if s != nil {
							items[s.ID] = binding.StringToItem(s.ResolvedValue)
						}
					}
					return printJSON(context, items)
				},
			},
		},
	}
}

func newResolver(context *cli.Context, sender autorest.Sender) (*secretmgmt.Resolver, error) {
	var endpoints identity.EndpointProvider = identity.EnvProvider{}
	if endpoint := context.String("msi-endpoint"); endpoint != "" {
		endpoints = identity.StaticProvider{
			URL:    endpoint,
			Secret: context.String("msi-secret"),
		}
	}

	return secretmgmt.NewSecretResolver(secretmgmt.Options{
		Sender:    sender,
		Endpoints: endpoints,
		Logger:    logrus.StandardLogger(),
		Timeout:   context.Duration("timeout"),
	})
}

func printJSON(context *cli.Context, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(context.App.Writer, string(b))
	return nil
}
