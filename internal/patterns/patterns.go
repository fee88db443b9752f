// Package patterns holds the precompiled regular expressions used across the
// link rewriting pipeline. A Set is built once at startup and passed by shared
// reference; the patterns themselves are immutable after construction.
package patterns

import "regexp"

// Set is the fixed collection of patterns the pipeline needs.
type Set struct {
	// MarkerLine matches the marker list items in rustdoc-generated HTML and
	// captures the raw inner HTML (the rendered intra-doc link).
	MarkerLine *regexp.Regexp

	// InlineLink matches a markdown inline link, like `[foo](bar)`, and
	// captures the bracketed display text.
	InlineLink *regexp.Regexp

	// ReferenceLink matches a markdown reference or collapsed link, like
	// `[foo][bar]` or `[foo][]`, and captures the bracketed display text.
	ReferenceLink *regexp.Regexp

	// ShortcutLink matches a markdown shortcut link, like `[foo]`, and
	// captures the bracketed display text.
	ShortcutLink *regexp.Regexp

	// DocHost matches the canonical documentation host together with a
	// release channel or pinned version, e.g.
	// `https://doc.rust-lang.org/stable` or `https://doc.rust-lang.org/1.76.0`.
	DocHost *regexp.Regexp
}

// New compiles the pattern set. Call once and share.
func New() *Set {
	return &Set{
		MarkerLine:    regexp.MustCompile(`<li>LINK: (.*)</li>`),
		InlineLink:    regexp.MustCompile(`(?s)^(\[.+\])(\(.+\))$`),
		ReferenceLink: regexp.MustCompile(`(?s)^(\[.+\])(\[.*\])$`),
		ShortcutLink:  regexp.MustCompile(`(?s)^(\[.+\])$`),
		DocHost:       regexp.MustCompile(`^https://doc\.rust-lang\.org/(?:nightly|beta|stable|dev|1\.[0-9]+\.[0-9]+)`),
	}
}
