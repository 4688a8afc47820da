package crawler

import (
	"strings"
	"testing"

	"mirrorwalk/urlutil"
)

func TestExtractLinks(t *testing.T) {
	base := urlutil.URL{Host: "example.com", Path: "/docs/guide", Scheme: "https"}

	tests := []struct {
		name     string
		html     string
		expected []string // canonical URL strings
	}{
		{
			name:     "absolute path link",
			html:     `<a href="/about">About</a>`,
			expected: []string{"https://example.com/about"},
		},
		{
			name:     "relative path appends to current path",
			html:     `<a href="setup">Setup</a>`,
			expected: []string{"https://example.com/docs/guide/setup"},
		},
		{
			name:     "parent-relative path resolves",
			html:     `<a href="../intro">Intro</a>`,
			expected: []string{"https://example.com/docs/intro"},
		},
		{
			name:     "same-host absolute URL",
			html:     `<a href="https://example.com/pricing">Pricing</a>`,
			expected: []string{"https://example.com/pricing"},
		},
		{
			name:     "cross-host link skipped",
			html:     `<a href="https://otherhost.example/page">Other</a>`,
			expected: nil,
		},
		{
			name:     "protocol-relative cross-host link skipped",
			html:     `<a href="//otherhost.example/page">Other</a>`,
			expected: nil,
		},
		{
			name:     "mailto skipped",
			html:     `<a href="mailto:team@example.com">Email</a>`,
			expected: nil,
		},
		{
			name:     "path containing at-sign skipped",
			html:     `<a href="/contact/team@example.com">Leaked mailto</a>`,
			expected: nil,
		},
		{
			name:     "javascript scheme skipped",
			html:     `<a href="javascript:void(0)">Click</a>`,
			expected: nil,
		},
		{
			name:     "anchor without href ignored",
			html:     `<a name="top">Top</a>`,
			expected: nil,
		},
		{
			name:     "empty href resolves to current page",
			html:     `<a href="">Self</a>`,
			expected: []string{"https://example.com/docs/guide"},
		},
		{
			name:     "fragment-only href resolves to current page",
			html:     `<a href="#section">Section</a>`,
			expected: []string{"https://example.com/docs/guide"},
		},
		{
			name:     "malformed href skipped silently",
			html:     `<a href="https://example.com/%zz">Bad</a><a href="/ok">OK</a>`,
			expected: []string{"https://example.com/ok"},
		},
		{
			name:     "unclosed tag still extracts",
			html:     `<a href="/unclosed">Unclosed`,
			expected: []string{"https://example.com/unclosed"},
		},
		{
			name: "duplicates are not removed here",
			html: `<a href="/page">One</a><a href="/page">Two</a>`,
			expected: []string{
				"https://example.com/page",
				"https://example.com/page",
			},
		},
		{
			name:     "non-anchor tags ignored",
			html:     `<img src="/logo.png"><link href="/style.css">`,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			links := ExtractLinks(strings.NewReader(tt.html), base)

			var got []string
			for _, link := range links {
				got = append(got, link.String())
			}

			if len(got) != len(tt.expected) {
				t.Fatalf("ExtractLinks() = %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("link[%d] = %q, want %q", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestExtractLinksDifferentPortIsCrossHost(t *testing.T) {
	base := urlutil.URL{Host: "example.com:8080", Path: "/", Scheme: "http"}
	links := ExtractLinks(strings.NewReader(`<a href="http://example.com:9090/x">Other port</a>`), base)
	if len(links) != 0 {
		t.Errorf("expected no links, got %v", links)
	}
}
