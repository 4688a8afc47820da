package crawler

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"mirrorwalk/urlutil"
)

// ExtractLinks parses HTML from the reader and returns the same-host URLs it
// references, resolved against base. Extraction is best-effort: malformed
// hrefs, cross-host references, non-http(s) schemes, and paths containing "@"
// (mailto-style artifacts) are skipped silently. Duplicates may appear; the
// walker deduplicates.
func ExtractLinks(body io.Reader, base urlutil.URL) []urlutil.URL {
	tokenizer := html.NewTokenizer(body)
	var links []urlutil.URL

	for {
		tokenType := tokenizer.Next()
		switch tokenType {
		case html.ErrorToken:
			// End of document or unparseable input; either way we keep
			// whatever was extracted so far.
			return links
		case html.StartTagToken, html.SelfClosingTagToken:
			token := tokenizer.Token()
			if token.Data != "a" {
				continue
			}
			for _, attr := range token.Attr {
				if attr.Key != "href" {
					continue
				}
				if link, ok := resolveHref(attr.Val, base); ok {
					links = append(links, link)
				}
			}
		}
	}
}

// resolveHref turns one href value into a same-host URL, or reports false if
// the reference is out of scope or malformed.
func resolveHref(href string, base urlutil.URL) (urlutil.URL, bool) {
	ref, err := url.Parse(href)
	if err != nil {
		return urlutil.URL{}, false
	}
	// Opaque forms like "mailto:a@b" have no path to resolve.
	if ref.Opaque != "" {
		return urlutil.URL{}, false
	}
	if ref.Scheme != "" && ref.Scheme != "http" && ref.Scheme != "https" {
		return urlutil.URL{}, false
	}
	if ref.Host != "" && !urlutil.SameHost(ref.Host, base.Host) {
		return urlutil.URL{}, false
	}
	if strings.Contains(ref.Path, "@") {
		return urlutil.URL{}, false
	}
	return base.JoinPath(ref.Path), true
}
