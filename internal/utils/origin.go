package utils

import (
	"net/http"
	"net/url"
	"strings"
)

// SameOrigin reports whether the request's Origin header, when present,
// names the host the request was sent to. Requests without an Origin
// (curl, the CLI) pass. The literal "null" origin of sandboxed pages
// does not.
func SameOrigin(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}
