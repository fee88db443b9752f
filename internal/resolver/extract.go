package resolver

import (
	"bytes"
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	serrors "git.home.luguber.info/inful/stdlinks/internal/errors"
	"git.home.luguber.info/inful/stdlinks/internal/patterns"
)

// ExtractURLs pulls the resolved absolute URLs back out of rustdoc-generated
// HTML. Every marker list item written by the stub renders as
// `<li>LINK: <a href="...">...</a></li>`; the href of the first anchor in the
// captured fragment is the resolved URL. A marker line without an anchor means
// rustdoc changed its output format and is fatal.
func ExtractURLs(p *patterns.Set, generated []byte) ([]string, error) {
	matches := p.MarkerLine.FindAllSubmatch(generated, -1)
	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		fragment := m[1]
		href, ok := anchorHref(fragment)
		if !ok {
			return nil, serrors.ResolverError(
				fmt.Sprintf("could not find anchor in generated output:\n%s", fragment))
		}
		urls = append(urls, href)
	}
	return urls, nil
}

// anchorHref parses an HTML fragment and returns the href of the first anchor
// element, in document order.
func anchorHref(fragment []byte) (string, bool) {
	ctx := &html.Node{Type: html.ElementNode, Data: "li", DataAtom: atom.Li}
	nodes, err := html.ParseFragment(bytes.NewReader(fragment), ctx)
	if err != nil {
		return "", false
	}

	var find func(*html.Node) (string, bool)
	find = func(n *html.Node) (string, bool) {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			if href := getAttr(n, "href"); href != "" {
				return href, true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if href, ok := find(c); ok {
				return href, ok
			}
		}
		return "", false
	}

	for _, n := range nodes {
		if href, ok := find(n); ok {
			return href, true
		}
	}
	return "", false
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
