// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package util

import (
	"strings"
	"unicode"
)

// ContainsSpace returns true if the specified string contains a space,
// false otherwise.
func ContainsSpace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}
