package probe

import (
	"fmt"
	"net/url"
	"strings"
)

// TransportSuffix is the path of the streaming transport. The info
// document lives at the base URL without it.
const TransportSuffix = "/sse"

// TrimTransportSuffix removes one trailing TransportSuffix.
func TrimTransportSuffix(base string) string {
	return strings.TrimSuffix(base, TransportSuffix)
}

// ResolveEndpoint turns a configured base address into the info URL.
func ResolveEndpoint(base string) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return "", ErrEmptyEndpoint
	}
	resolved := TrimTransportSuffix(base)

	u, err := url.ParseRequestURI(resolved)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidEndpoint, base, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidEndpoint, base)
	}
	return resolved, nil
}

// HostOf pulls the hostname from a URL string
func HostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	return u.Hostname()
}
