package auth

import "strings"

// PublicEndpoints are reachable with any method and no token.
//
//   - /health, /ready, /live: orchestration probes
//   - /metrics: Prometheus scraping
//   - /swagger/: API documentation
//   - /auth/login: the login form itself
var PublicEndpoints = []string{
	"/health",
	"/ready",
	"/live",
	"/metrics",
	"/swagger/",
	"/auth/login",
}

// IsPublicEndpoint reports whether path is public. Entries ending in '/' match
// by prefix; the others match exactly, with an optional trailing slash.
//
//	IsPublicEndpoint("/health")              // true
//	IsPublicEndpoint("/health/detail")       // false
//	IsPublicEndpoint("/swagger/index.html")  // true
//	IsPublicEndpoint("/api/servicios")       // false
func IsPublicEndpoint(path string) bool {
	for _, endpoint := range PublicEndpoints {
		if strings.HasSuffix(endpoint, "/") {
			if strings.HasPrefix(path, endpoint) {
				return true
			}
			continue
		}
		if path == endpoint || path == endpoint+"/" {
			return true
		}
	}
	return false
}

// isReadOnly reports whether method never changes content. Reads of the public
// site need no token.
func isReadOnly(method string) bool {
	switch method {
	case "GET", "HEAD", "OPTIONS":
		return true
	}
	return false
}
