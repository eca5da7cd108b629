package utils

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ParseHostNoPort returns the host part of "host:port", "[v6]:port" or "host".
func ParseHostNoPort(s string) string {
	if s == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(s); err == nil {
		return h
	}
	return strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
}

// FirstForwardedFor returns the left-most address of an X-Forwarded-For value.
func FirstForwardedFor(xff string) string {
	first, _, _ := strings.Cut(xff, ",")
	return strings.TrimSpace(first)
}

// ClientIP resolves the client address. Proxy headers are only honored
// with trustProxy, since a local launcher is normally hit directly.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		for _, v := range []string{
			FirstForwardedFor(r.Header.Get("X-Forwarded-For")),
			strings.TrimSpace(r.Header.Get("X-Real-IP")),
		} {
			if ip := ParseHostNoPort(v); ip != "" {
				return ip
			}
		}
	}
	return ParseHostNoPort(r.RemoteAddr)
}

// IPMatcher matches addresses against a list of IPs and CIDRs.
type IPMatcher struct {
	prefixes []netip.Prefix
}

// NewIPMatcher parses list, skipping blanks and invalid items. A bare IP
// becomes a single-address prefix.
func NewIPMatcher(list []string) *IPMatcher {
	m := &IPMatcher{}
	for _, raw := range list {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		if p, err := netip.ParsePrefix(s); err == nil {
			m.prefixes = append(m.prefixes, p.Masked())
			continue
		}
		if a, err := netip.ParseAddr(s); err == nil {
			a = a.Unmap()
			m.prefixes = append(m.prefixes, netip.PrefixFrom(a, a.BitLen()))
		}
	}
	return m
}

func (m *IPMatcher) IsEmpty() bool {
	return len(m.prefixes) == 0
}

func (m *IPMatcher) Allow(ipStr string) bool {
	a, err := netip.ParseAddr(ipStr)
	if err != nil {
		return false
	}
	a = a.Unmap()
	for _, p := range m.prefixes {
		if p.Contains(a) {
			return true
		}
	}
	return false
}

// IsLoopback reports whether addr ("host" or "host:port") is a loopback
// address or localhost.
func IsLoopback(addr string) bool {
	host := ParseHostNoPort(addr)
	if strings.EqualFold(host, "localhost") {
		return true
	}
	a, err := netip.ParseAddr(host)
	return err == nil && a.IsLoopback()
}
