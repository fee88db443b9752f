// Package book holds the document model the rewrite pipeline operates on.
//
// Chapters are owned by whatever loaded the book (the filesystem loader below,
// or the mdbook preprocessor bridge); the pipeline reads Content and Depth and
// writes the rewritten Content back.
package book

import (
	"path"
	"strings"
)

// Chapter is one markdown document of a book.
type Chapter struct {
	// Name is the human-readable chapter name.
	Name string

	// Path is the chapter's output location relative to the book root,
	// e.g. "types/boolean.md".
	Path string

	// SourcePath is where the chapter's markdown came from.
	SourcePath string

	// Content is the chapter's raw markdown. Mutated by the rewriter once a
	// run has fully succeeded.
	Content string

	// Depth is the number of path segments between the chapter's published
	// location and the documentation root. Because the book itself is
	// published under its own directory, a chapter at "types/boolean.md"
	// has depth 2.
	Depth int
}

// Book is an ordered set of chapters. The slice order is the book traversal
// order; the pipeline relies on it being identical when candidates are
// flattened and when resolved URLs are split back out.
type Book struct {
	Chapters []*Chapter
}

// PathDepth computes the nesting depth for a chapter output path: the number
// of path segments, counting the file itself.
func PathDepth(p string) int {
	p = path.Clean(strings.ReplaceAll(p, "\\", "/"))
	if p == "." || p == "" {
		return 0
	}
	return strings.Count(p, "/") + 1
}
