// Package safeurl validates webhook destination URLs against common
// server-side request forgery (SSRF) vectors.
//
// Validation is purely lexical: it judges the URL string and host literal as
// given and performs no I/O or DNS resolution. A hostname that resolves to a
// private address at send time (DNS rebinding) is therefore not caught here;
// that residual risk is accepted, matching the registration-time-only check
// the rest of the system relies on.
package safeurl

import (
	"net/netip"
	"net/url"
	"strings"
)

// Options configures URL validation.
type Options struct {
	// AllowHTTP additionally permits the plain "http" scheme.
	// Without it, only "https" is accepted.
	AllowHTTP bool
}

// Error describes why a URL was rejected.
type Error struct {
	Reason string
}

func (e *Error) Error() string {
	return "safeurl: " + e.Reason
}

// Private and loopback ranges rejected for webhook destinations.
var blockedPrefixes = []struct {
	prefix netip.Prefix
	reason string
}{
	{netip.MustParsePrefix("127.0.0.0/8"), "loopback address is not allowed"},
	{netip.MustParsePrefix("::1/128"), "loopback address is not allowed"},
	{netip.MustParsePrefix("10.0.0.0/8"), "private network address is not allowed"},
	{netip.MustParsePrefix("172.16.0.0/12"), "private network address is not allowed"},
	{netip.MustParsePrefix("192.168.0.0/16"), "private network address is not allowed"},
	{netip.MustParsePrefix("169.254.0.0/16"), "link-local address is not allowed"},
	{netip.MustParsePrefix("fe80::/10"), "IPv6 link-local address is not allowed"},
	{netip.MustParsePrefix("fc00::/7"), "IPv6 unique-local address is not allowed"},
}

// cloudMetadataAddr is the well-known cloud metadata service address,
// called out with its own reason so operators recognize the pivot.
var cloudMetadataAddr = netip.MustParseAddr("169.254.169.254")

// Internal service hostnames used for metadata/orchestration SSRF pivots.
// Matched exactly and as parent domains.
var blockedHosts = []string{
	"metadata.google.internal",
	"metadata.goog",
	"kubernetes.default",
	"kubernetes.default.svc",
}

// Validate checks whether raw is acceptable as a webhook destination URL.
// It returns nil for acceptable URLs and an *Error naming the first failed
// rule otherwise. Rules are applied in order: parse, scheme, loopback,
// private/link-local ranges, internal service hostnames.
func Validate(raw string, opts Options) error {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return &Error{Reason: "not an absolute URL"}
	}

	switch u.Scheme {
	case "https":
	case "http":
		if !opts.AllowHTTP {
			return &Error{Reason: "scheme \"http\" is not allowed (HTTPS required)"}
		}
	default:
		return &Error{Reason: "scheme \"" + u.Scheme + "\" is not allowed"}
	}

	host := strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
	if host == "localhost" || strings.HasSuffix(host, ".localhost") || host == "0.0.0.0" {
		return &Error{Reason: "host \"" + host + "\" points at the local machine"}
	}

	if addr, parseErr := netip.ParseAddr(host); parseErr == nil {
		return validateAddr(addr.Unmap())
	}

	for _, blocked := range blockedHosts {
		if host == blocked || strings.HasSuffix(host, "."+blocked) {
			return &Error{Reason: "host \"" + host + "\" is an internal service hostname"}
		}
	}

	return nil
}

func validateAddr(addr netip.Addr) error {
	if addr == cloudMetadataAddr {
		return &Error{Reason: "cloud metadata address 169.254.169.254 is not allowed"}
	}

	for _, b := range blockedPrefixes {
		if b.prefix.Contains(addr) {
			return &Error{Reason: b.reason}
		}
	}

	return nil
}

// IsValid reports whether raw passes Validate with the given options.
func IsValid(raw string, opts Options) bool {
	return Validate(raw, opts) == nil
}
