package ratelimit

import (
	"net/http"
	"strings"
)

// unlimited is returned for health checks so probes never hit a limit.
var unlimited = EndpointConfig{}

// MatchEndpoint returns the configuration governing method and path, or nil when the
// default rate applies. Exact patterns are preferred over prefix patterns, which end in "/".
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if method == http.MethodGet && path == "/health" {
		return &unlimited
	}

	segments := split(path)
	var prefixMatch *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method {
			continue
		}
		isPrefix := strings.HasSuffix(c.Path, "/")
		if !segmentsMatch(split(c.Path), segments, isPrefix) {
			continue
		}
		if !isPrefix {
			return c
		}
		if prefixMatch == nil {
			prefixMatch = c
		}
	}
	return prefixMatch
}

func split(p string) []string {
	return strings.Split(strings.Trim(p, "/"), "/")
}

// segmentsMatch compares path segments; "*" in pattern stands for any one segment.
func segmentsMatch(pattern, path []string, prefix bool) bool {
	if len(path) < len(pattern) || (!prefix && len(path) != len(pattern)) {
		return false
	}
	for i, want := range pattern {
		if want != "*" && want != path[i] {
			return false
		}
	}
	return true
}
