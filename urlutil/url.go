// Package urlutil provides the canonical URL value used to identify pages.
// A URL is an immutable (host, path, scheme) triple; two URLs that refer to
// the same resource compare equal and can be used directly as map keys.
package urlutil

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// URL identifies a single crawlable address. Host may include a port.
// Path is always absolute and cleaned (no ".", "..", or duplicate slashes;
// no trailing slash except for the root "/"). Query strings and fragments
// are not part of a page's identity and are dropped during parsing.
//
// URL is a comparable value type; treat it as immutable and derive new
// values via WithHost and JoinPath.
type URL struct {
	Host   string
	Path   string
	Scheme string
}

// Parse converts a raw root URL string into a canonical URL.
// The input must carry an http or https scheme and a host; anything else is
// a configuration error the caller should treat as fatal.
func Parse(rawURL string) (URL, error) {
	if rawURL == "" {
		return URL{}, errors.New("cannot parse empty URL")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return URL{}, fmt.Errorf("parse URL %q: %w", rawURL, err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return URL{}, fmt.Errorf("URL %q must have an http or https scheme", rawURL)
	}
	if parsed.Host == "" {
		return URL{}, fmt.Errorf("URL %q must have a host", rawURL)
	}

	return Normalize(parsed.Host, parsed.Path, scheme), nil
}

// Normalize produces the canonical URL for the given triple. An empty scheme
// defaults to https. The path is cleaned so that distinct textual
// representations of the same resource compare equal.
func Normalize(host, rawPath, scheme string) URL {
	if scheme == "" {
		scheme = "https"
	}
	return URL{
		Host:   strings.ToLower(host),
		Path:   cleanPath(rawPath),
		Scheme: strings.ToLower(scheme),
	}
}

// WithHost returns a URL with the same path and scheme on a different host.
func (u URL) WithHost(host string) URL {
	return URL{Host: strings.ToLower(host), Path: u.Path, Scheme: u.Scheme}
}

// JoinPath resolves a path found in a hyperlink against this URL's path and
// returns the resulting URL on the same host. An absolute ref replaces the
// path; a relative ref is appended to the current path and then cleaned, so
// "../c" against "/a/b" yields "/a/c".
func (u URL) JoinPath(ref string) URL {
	joined := ref
	if !strings.HasPrefix(ref, "/") {
		joined = path.Join(u.Path, ref)
	}
	return URL{Host: u.Host, Path: cleanPath(joined), Scheme: u.Scheme}
}

// String renders the canonical textual form, e.g. "https://example.com/a/b".
// This is the form hashed by the page cache, so it must be stable across runs.
func (u URL) String() string {
	return u.Scheme + "://" + u.Host + u.Path
}

// SameHost reports whether two host strings (optionally host:port) refer to
// the same host. Comparison is case-insensitive and exact; subdomains are
// different hosts.
func SameHost(a, b string) bool {
	return strings.EqualFold(a, b)
}

// cleanPath normalizes a raw path to the canonical absolute form.
func cleanPath(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
