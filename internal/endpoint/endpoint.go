// Package endpoint parses raw endpoint strings into structured records and
// reads endpoint lists from local files or remote HTTP sources.
package endpoint

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ErrMalformedEndpoint is returned when an endpoint string fails structural
// parsing.
var ErrMalformedEndpoint = errors.New("endpoint: malformed endpoint")

// Endpoint is the parsed representation of one network endpoint. Records are
// immutable once parsed; Port is always resolved after a successful parse.
type Endpoint struct {
	Scheme string
	Host   string
	Port   int
	Path   string

	// Raw is the original input line, preserved verbatim for reuse in
	// generated fields.
	Raw string
}

// Options carries the parser's implied-port table. Schemes absent from the
// table require an explicit port.
type Options struct {
	ImpliedPorts map[string]int
}

// DefaultOptions returns the conventional implied ports for http and https.
func DefaultOptions() Options {
	return Options{
		ImpliedPorts: map[string]int{
			"http":  80,
			"https": 443,
		},
	}
}

// Parse parses a single raw endpoint line into an Endpoint. The line must be
// an absolute URL with both scheme and authority.
func Parse(raw string, opts Options) (Endpoint, error) {
	trimmed := strings.TrimSpace(raw)

	u, err := url.Parse(trimmed)
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w: %q: %v", ErrMalformedEndpoint, trimmed, err)
	}
	if u.Scheme == "" {
		return Endpoint{}, fmt.Errorf("%w: %q: missing scheme, expected absolute URL", ErrMalformedEndpoint, trimmed)
	}
	if u.Host == "" {
		return Endpoint{}, fmt.Errorf("%w: %q: missing authority, expected absolute URL", ErrMalformedEndpoint, trimmed)
	}

	port, err := resolvePort(u, opts)
	if err != nil {
		return Endpoint{}, err
	}

	path := u.Path
	if path == "" {
		path = "/"
	}

	return Endpoint{
		Scheme: u.Scheme,
		Host:   u.Hostname(),
		Port:   port,
		Path:   path,
		Raw:    trimmed,
	}, nil
}

// ParseAll parses every line in order. A single malformed line fails the
// whole batch; on success the output has the same length and order as the
// input.
func ParseAll(lines []string, opts Options) ([]Endpoint, error) {
	endpoints := make([]Endpoint, 0, len(lines))
	for _, line := range lines {
		ep, err := Parse(line, opts)
		if err != nil {
			return nil, err
		}
		endpoints = append(endpoints, ep)
	}
	return endpoints, nil
}

func resolvePort(u *url.URL, opts Options) (int, error) {
	if portStr := u.Port(); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil || port < 1 || port > 65535 {
			return 0, fmt.Errorf("%w: %q: invalid port %q", ErrMalformedEndpoint, u.String(), portStr)
		}
		return port, nil
	}

	if port, ok := opts.ImpliedPorts[u.Scheme]; ok {
		return port, nil
	}
	return 0, fmt.Errorf("%w: %q: missing explicit port for scheme %q", ErrMalformedEndpoint, u.String(), u.Scheme)
}
