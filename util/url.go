// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package util

import (
	"net/url"
	"strings"
)

const httpsScheme = "https"

// IsHTTPSURL determines whether or not the specified string is an absolute URL
// using the https scheme.
func IsHTTPSURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.IsAbs() && u.Scheme == httpsScheme && u.Host != ""
}

// AppendQuery appends a raw, already encoded query string to the specified URL.
// The query is joined with '?' unless the URL already carries a query, in which
// case '&' is used.
func AppendQuery(s, rawQuery string) string {
	if rawQuery == "" {
		return s
	}
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	if !strings.Contains(s, "?") {
		return s + "?" + rawQuery
	}
	if strings.HasSuffix(s, "?") || strings.HasSuffix(s, "&") {
		return s + rawQuery
	}
	return s + "&" + rawQuery
}

// HasFragment returns true if the specified URL carries a fragment, which AppendQuery drops.
func HasFragment(s string) bool {
	return strings.IndexByte(s, '#') >= 0
}

// Host returns the host of the specified URL, or an empty string if it can't be parsed.
func Host(s string) string {
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	return u.Host
}
