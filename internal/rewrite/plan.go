package rewrite

import (
	"fmt"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/stdlinks/internal/book"
	"git.home.luguber.info/inful/stdlinks/internal/collector"
	serrors "git.home.luguber.info/inful/stdlinks/internal/errors"
	"git.home.luguber.info/inful/stdlinks/internal/patterns"
)

// Replacement is one planned splice: the preserved display text, the final
// destination, and the byte span of the original link construct.
type Replacement struct {
	// Display is the bracketed display text exactly as written, e.g. "[`Option`]".
	Display string
	// Dest is the relative or absolute destination URL.
	Dest string
	// Start/End delimit the original link construct in the chapter text.
	Start int
	End   int
}

// Plan pairs each candidate with its resolved URL and builds the chapter's
// replacement list. It only reads the chapter's text; nothing is mutated until
// planning has succeeded for the whole book.
//
// relative selects the output mode: when true (the default), the canonical
// host/channel prefix is stripped and the chapter's nesting depth worth of
// parent-directory markers is prepended, so links keep working offline and
// under the link checker. When false the absolute URL is kept as is.
func Plan(p *patterns.Set, ch *book.Chapter, cands []collector.Candidate, urls []string, relative bool) ([]Replacement, error) {
	if len(cands) != len(urls) {
		return nil, serrors.InternalError(
			fmt.Sprintf("chapter %s: %d candidates but %d urls", ch.Path, len(cands), len(urls)))
	}

	out := make([]Replacement, 0, len(cands))
	for i, cand := range cands {
		url := urls[i]

		dest, err := destination(p, ch, url, relative)
		if err != nil {
			return nil, err
		}

		mdLink := ch.Content[cand.Start:cand.End]
		shape, err := shapePattern(p, cand.Style)
		if err != nil {
			return nil, err
		}
		m := shape.FindStringSubmatch(mdLink)
		if m == nil {
			// The span came from the same parse that classified the style, so
			// a miss here is an internal inconsistency, not bad input.
			return nil, serrors.InternalError(
				fmt.Sprintf("expected link %q of style %s to match pattern %s", mdLink, cand.Style, shape))
		}

		out = append(out, Replacement{
			Display: m[1],
			Dest:    dest,
			Start:   cand.Start,
			End:     cand.End,
		})
	}
	return out, nil
}

// destination verifies the canonical host/channel prefix and converts the URL
// to the configured output mode. Absolute mode keeps the URL untouched.
func destination(p *patterns.Set, ch *book.Chapter, url string, relative bool) (string, error) {
	if !relative {
		return url, nil
	}
	loc := p.DocHost.FindStringIndex(url)
	if loc == nil {
		return "", serrors.ResolverError(
			fmt.Sprintf("expected rustdoc URL to start with %s, got %s", p.DocHost, url))
	}
	return relativize(url[loc[1]:], ch.Depth), nil
}

func shapePattern(p *patterns.Set, style collector.Style) (*regexp.Regexp, error) {
	switch style {
	case collector.StyleInline:
		return p.InlineLink, nil
	case collector.StyleReference, collector.StyleCollapsed:
		return p.ReferenceLink, nil
	case collector.StyleShortcut, collector.StyleBrokenShortcut:
		return p.ShortcutLink, nil
	default:
		return nil, serrors.InternalError(fmt.Sprintf("unexpected link style: %s", style))
	}
}

// relativize strips the matched host/channel prefix and prepends depth
// parent-directory markers.
func relativize(urlPath string, depth int) string {
	dots := make([]string, depth)
	for i := range dots {
		dots[i] = ".."
	}
	return strings.Join(dots, "/") + urlPath
}
