// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package version

var (
	// Version holds the complete version number. Filled in at linking time.
	Version = "0.1.0+unknown"

	// Revision is filled with the VCS (e.g. git) revision being used to build
	// the program at linking time.
	Revision = ""
)
