// Package rewrite turns resolved documentation URLs back into chapter text:
// splitting the flat URL list per chapter, planning replacements against the
// original byte spans, and splicing the new links in bottom-up.
package rewrite

import (
	serrors "git.home.luguber.info/inful/stdlinks/internal/errors"

	"git.home.luguber.info/inful/stdlinks/internal/book"
)

// Apply splices a chapter's planned replacements into its text and returns
// the rewritten content. Every link is emitted in inline form
// `[display](dest)` regardless of the style it was written in; a
// reference-style link's definition line is left behind unused.
//
// ApplyEdits performs the splices in descending span order so earlier
// replacements never invalidate the offsets of those still pending.
func Apply(ch *book.Chapter, replacements []Replacement) (string, error) {
	edits := make([]Edit, 0, len(replacements))
	for _, r := range replacements {
		edits = append(edits, Edit{
			Start:       r.Start,
			End:         r.End,
			Replacement: []byte(r.Display + "(" + r.Dest + ")"),
		})
	}

	out, err := ApplyEdits([]byte(ch.Content), edits)
	if err != nil {
		return "", serrors.Wrap(err, serrors.CategoryInternal, serrors.SeverityFatal, "failed to apply replacements").WithContext("chapter", ch.Path)
	}
	return string(out), nil
}
