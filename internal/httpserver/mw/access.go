package mw

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/favlauncher/internal/logger"
	"github.com/MrSnakeDoc/favlauncher/internal/utils"
)

func passthrough(next http.Handler) http.Handler { return next }

// deny answers with a JSON error body, like the API handlers do.
func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// AllowOnlyCIDRS rejects clients outside the allowed IPs and CIDRs with
// 403. An empty list disables the check. Proxy headers are only read
// when trustProxy is set.
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m := utils.NewIPMatcher(allowed)
	if m.IsEmpty() {
		return passthrough
	}
	log.Debug("client allow-list enabled",
		logger.Strings("allowed", allowed),
		logger.Bool("trust_proxy", trustProxy))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if !m.Allow(ip) {
				log.Warn("client rejected",
					logger.String("ip", ip),
					logger.String("remote_addr", r.RemoteAddr),
					logger.String("path", r.URL.Path))
				deny(w, http.StatusForbidden, "client not allowed")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// EnforceHost rejects requests whose Host header, port stripped, matches
// none of the allowed hosts. Browsers send the attacker's name after a
// DNS rebinding, so this keeps foreign pages off the local API.
// Patterns may start with "*." to match any subdomain.
func EnforceHost(allowedHosts []string, log logger.Logger) func(http.Handler) http.Handler {
	if len(allowedHosts) == 0 {
		return passthrough
	}
	patterns := make([]string, 0, len(allowedHosts))
	for _, h := range allowedHosts {
		patterns = append(patterns, strings.ToLower(h))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := strings.ToLower(utils.ParseHostNoPort(r.Host))
			for _, p := range patterns {
				if matchHost(host, p) {
					next.ServeHTTP(w, r)
					return
				}
			}
			log.Warn("host rejected", logger.String("host", r.Host), logger.String("path", r.URL.Path))
			deny(w, http.StatusForbidden, "host not allowed")
		})
	}
}

// matchHost compares host with pattern; "*.example.com" matches
// "a.example.com" but not "example.com", a bare "*" matches any host.
func matchHost(host, pattern string) bool {
	pattern = strings.ToLower(pattern)
	if pattern == "*" {
		return true
	}
	if suffix, ok := strings.CutPrefix(pattern, "*"); ok && strings.HasPrefix(suffix, ".") {
		return strings.HasSuffix(host, suffix) && len(host) > len(suffix)
	}
	return host == pattern
}
