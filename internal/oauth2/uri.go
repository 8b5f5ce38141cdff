package oauth2

import (
	"net"
	"net/url"
)

// ParseRedirectURI parses a registered redirect URI. Relative or unparsable
// values are rejected by the caller as invalid redirect URIs.
func ParseRedirectURI(raw string) (*url.URL, error) {
	return url.Parse(raw)
}

// IsLoopback reports whether host designates the local machine, either as
// the "localhost" name or as a loopback IP literal.
func IsLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback()
	}
	return false
}
