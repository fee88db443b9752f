// Package collector scans a chapter's markdown for links that look like
// standard-library symbol references.
package collector

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/stdlinks/internal/book"
	serrors "git.home.luguber.info/inful/stdlinks/internal/errors"
)

// Style is the markdown form a candidate link was written in.
type Style string

const (
	StyleInline    Style = "inline"    // [foo](bar)
	StyleReference Style = "reference" // [foo][bar]
	StyleCollapsed Style = "collapsed" // [foo][]
	StyleShortcut  Style = "shortcut"  // [foo] with a definition
	// StyleBrokenShortcut is a shortcut-style reference with no definition,
	// like `[std::option::Option]`. That is broken markdown but the normal
	// rustdoc syntax, so it is captured by a fallback scan.
	StyleBrokenShortcut Style = "broken_shortcut"
)

// Candidate is a link suspected of referencing a standard-library symbol.
// Immutable once collected.
type Candidate struct {
	Style Style
	// Dest is the raw symbol path as written, e.g. `std::ffi::OsString`.
	Dest string
	// Start/End delimit the whole link construct in the chapter's original
	// text (byte offsets, End exclusive).
	Start int
	End   int
}

// span is an occupied byte range: any link or image goldmark recognized,
// whether or not it became a candidate. The fallback scan must not re-collect
// brackets inside these ranges.
type span struct {
	start, end int
}

// Collect extracts all candidate links from one chapter in document order.
// Broken shortcut references are appended after the well-formed candidates;
// that order is part of the pipeline's split invariant.
func Collect(ch *book.Chapter) ([]Candidate, error) {
	src := []byte(ch.Content)

	// Extensions mirror the markdown features the book is written with. The
	// footnote and task list extensions matter here: without them, footnote
	// references and task markers would look like broken shortcut links.
	md := goldmark.New(goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
		extension.TaskList,
		extension.Footnote,
	))
	root := md.Parser().Parse(text.NewReader(src))

	var cands []Candidate
	var occupied []span

	err := gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.AutoLink:
			// Direct URL and email autolinks are never symbol references.
			return gmast.WalkSkipChildren, nil
		case *gmast.Image:
			if s, _, ok := linkSpan(src, node); ok {
				occupied = append(occupied, s)
			}
			return gmast.WalkSkipChildren, nil
		case *gmast.Link:
			s, style, ok := linkSpan(src, node)
			if !ok {
				// No display text to recover a span from (e.g. `[](dest)`);
				// nothing the rewriter could preserve either.
				return gmast.WalkSkipChildren, nil
			}
			occupied = append(occupied, s)

			dest := string(node.Destination)
			if strings.HasPrefix(dest, "http") ||
				strings.Contains(dest, ".md") ||
				strings.Contains(dest, ".html") ||
				strings.HasPrefix(dest, "#") {
				// Ordinary intra-book link, not a symbol.
				return gmast.WalkSkipChildren, nil
			}
			if len(node.Title) != 0 {
				return gmast.WalkStop, serrors.ValidationError(
					fmt.Sprintf("titles in links are not supported: link %s has title %q found in chapter %s (%s)",
						dest, string(node.Title), ch.Name, ch.Path))
			}

			cands = append(cands, Candidate{
				Style: style,
				Dest:  dest,
				Start: s.start,
				End:   s.end,
			})
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	broken, err := collectBroken(src, occupied, ch)
	if err != nil {
		return nil, err
	}
	cands = append(cands, broken...)
	return cands, nil
}

// linkSpan recovers the byte span of a link (or image) node in the original
// source and classifies the markdown form it was written in. Goldmark does not
// retain either, so both are re-derived from the raw text around the node's
// text segments.
func linkSpan(src []byte, n gmast.Node) (span, Style, bool) {
	lo, hi, ok := textBounds(src, n)
	if !ok {
		return span{}, "", false
	}

	open := scanOpenBracket(src, lo-1)
	if open == -1 {
		return span{}, "", false
	}
	close := scanCloseBracket(src, hi)
	if close == -1 {
		return span{}, "", false
	}

	// The display text may itself be an image, like [![alt](img.png)](dest).
	// The scans above stop at the image's own brackets, so widen outward until
	// the brackets belong to the link construct itself.
	if _, isLink := n.(*gmast.Link); isLink {
		for open > 0 && src[open-1] == '!' && !isEscaped(src, open-1) {
			outerOpen := scanOpenBracket(src, open-2)
			if outerOpen == -1 {
				return span{}, "", false
			}
			_, imgEnd := classifyTail(src, close)
			outerClose := scanCloseBracket(src, imgEnd)
			if outerClose == -1 {
				return span{}, "", false
			}
			open, close = outerOpen, outerClose
		}
	}

	style, end := classifyTail(src, close)
	return span{start: open, end: end}, style, true
}

// textBounds returns the byte range covered by the node's descendant text
// segments.
func textBounds(src []byte, n gmast.Node) (lo, hi int, ok bool) {
	lo, hi = len(src)+1, -1
	var visit func(gmast.Node)
	visit = func(n gmast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t, isText := c.(*gmast.Text); isText {
				if t.Segment.Start < lo {
					lo = t.Segment.Start
				}
				if t.Segment.Stop > hi {
					hi = t.Segment.Stop
				}
			}
			visit(c)
		}
	}
	visit(n)
	return lo, hi, hi >= 0
}

// scanOpenBracket walks backward from i to the unescaped `[` opening the
// display text, skipping over balanced bracket pairs inside it.
func scanOpenBracket(src []byte, i int) int {
	depth := 0
	for ; i >= 0; i-- {
		if isEscaped(src, i) {
			continue
		}
		switch src[i] {
		case ']':
			depth++
		case '[':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

// scanCloseBracket walks forward from i to the unescaped `]` closing the
// display text.
func scanCloseBracket(src []byte, i int) int {
	depth := 0
	for ; i < len(src); i++ {
		if isEscaped(src, i) {
			continue
		}
		switch src[i] {
		case '[':
			depth++
		case ']':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

// classifyTail inspects what follows the display text's closing bracket and
// returns the link style plus the end offset (exclusive) of the whole
// construct.
func classifyTail(src []byte, close int) (Style, int) {
	i := close + 1
	if i < len(src) {
		switch src[i] {
		case '(':
			if end, ok := matchParen(src, i); ok {
				return StyleInline, end + 1
			}
		case '[':
			if j := labelEnd(src, i+1); j != -1 {
				if j == i+1 {
					return StyleCollapsed, j + 1
				}
				return StyleReference, j + 1
			}
		}
	}
	return StyleShortcut, close + 1
}

// matchParen finds the matching `)` for the `(` at open, honoring nesting and
// escapes.
func matchParen(src []byte, open int) (int, bool) {
	depth := 0
	for i := open; i < len(src); i++ {
		if isEscaped(src, i) {
			continue
		}
		switch src[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, true
			}
		case '\n':
			// Destinations never span lines in this book's markdown.
			return 0, false
		}
	}
	return 0, false
}

// labelEnd finds the `]` closing a reference label starting at from, or -1 if
// the bracket run is not a label.
func labelEnd(src []byte, from int) int {
	for i := from; i < len(src); i++ {
		if isEscaped(src, i) {
			continue
		}
		switch src[i] {
		case ']':
			return i
		case '[', '\n':
			return -1
		}
	}
	return -1
}

func isEscaped(src []byte, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && src[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}
