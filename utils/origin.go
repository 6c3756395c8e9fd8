// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"net/http"
	"net/url"
	"strings"
)

// OriginListed reports whether [origin] appears in [allowed]. "*" matches
// any origin.
func OriginListed(allowed []string, origin string) bool {
	for _, a := range allowed {
		if a == "*" || strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}

// OriginAllowed reports whether [r] may be served. Requests without an
// Origin header (non-browser clients) and same-origin requests are always
// allowed. Cross-origin requests must be listed in [allowed].
func OriginAllowed(allowed []string, r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if u.Host != "" && strings.EqualFold(u.Host, r.Host) {
		return true
	}
	return OriginListed(allowed, origin)
}
