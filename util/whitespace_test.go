// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package util

import "testing"

func TestContainsSpace(t *testing.T) {
	tests := []struct {
		s        string
		expected bool
	}{
		{"\t", true},
		{" ", true},
		{"db password", true},
		{"dbPassword\n", true},
		{" secret", true},
		{"", false},
		{"dbPassword", false},
		{"db-password_1", false},
	}

	for _, test := range tests {
		if actual := ContainsSpace(test.s); actual != test.expected {
			t.Errorf("Expected %v for %q but got %v", test.expected, test.s, actual)
		}
	}
}
