// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"fmt"
	"os"

	getsecretCmd "github.com/Azure/akv-binding/cmd/akvb/commands/getsecret"
	versionCmd "github.com/Azure/akv-binding/cmd/akvb/commands/version"
	"github.com/Azure/akv-binding/vault"
	"github.com/Azure/akv-binding/version"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func main() {
	app := New()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// New returns a *cli.App instance.
func New() *cli.App {
	app := cli.NewApp()
	app.Name = "akvb"
	app.Usage = "resolve azure keyvault secrets using the managed identity endpoint"
	app.Version = version.Version
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "debug",
			Usage: "enable debug logging",
		},
	}
	app.Before = func(context *cli.Context) error {
		logrus.SetOutput(os.Stderr)
		if context.GlobalBool("debug") {
			logrus.SetLevel(logrus.DebugLevel)
		}
		return nil
	}
	app.Commands = []cli.Command{
		getsecretCmd.Command,
		versionCmd.Command,
	}
	return app
}

// exitCode maps a resolution failure to the process exit code.
func exitCode(err error) int {
	switch vault.KindOf(err) {
	case vault.ConfigurationError:
		return 2
	case vault.IdentityEndpointError:
		return 3
	case vault.VaultEndpointError:
		return 4
	default:
		return 1
	}
}
