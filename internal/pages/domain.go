package pages

import (
	"net/url"
	"strings"
)

// SameOrg reports whether target belongs to the same company site as
// origin: either the exact host, or a sibling under the same
// registrable base domain (jobs.example.com vs www.example.com).
func SameOrg(origin, target string) bool {
	origin = stripPort(origin)
	target = stripPort(target)

	if origin == "" || target == "" {
		return false
	}
	if origin == target {
		return true
	}

	originParts := strings.Split(origin, ".")
	targetParts := strings.Split(target, ".")
	if len(originParts) >= 2 && len(targetParts) >= 2 {
		originBase := strings.Join(originParts[len(originParts)-2:], ".")
		targetBase := strings.Join(targetParts[len(targetParts)-2:], ".")
		return originBase == targetBase
	}
	return false
}

// IsExternalJobBoard reports whether the URL points into a known
// third-party job board.
func IsExternalJobBoard(u *url.URL) bool {
	lower := strings.ToLower(u.String())
	for _, domain := range externalJobDomains {
		if strings.Contains(lower, domain) {
			return true
		}
	}
	return false
}

// Normalize produces the canonical form used for the visited set and
// for posting URLs: fragment dropped, trailing slash trimmed.
func Normalize(u *url.URL) string {
	clean := *u
	clean.Fragment = ""
	clean.Host = strings.ToLower(clean.Host)
	clean.Scheme = strings.ToLower(clean.Scheme)
	return strings.TrimRight(clean.String(), "/")
}

func stripPort(host string) string {
	host = strings.ToLower(host)
	if i := strings.IndexByte(host, ':'); i >= 0 {
		return host[:i]
	}
	return host
}
