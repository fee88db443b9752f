// Package mdbook implements the mdbook preprocessor wire protocol: a JSON
// array of [context, book] on stdin, the mutated book as JSON on stdout. Only
// the pieces of the book schema this tool reads and writes are modeled;
// unknown chapter fields are preserved through a raw round-trip.
package mdbook

import (
	"encoding/json"
	"io"

	serrors "git.home.luguber.info/inful/stdlinks/internal/errors"

	"git.home.luguber.info/inful/stdlinks/internal/book"
)

// Chapter mirrors mdbook's chapter JSON.
type Chapter struct {
	Name        string     `json:"name"`
	Content     string     `json:"content"`
	Number      []int      `json:"number"`
	SubItems    []BookItem `json:"sub_items"`
	Path        *string    `json:"path"`
	SourcePath  *string    `json:"source_path"`
	ParentNames []string   `json:"parent_names"`
}

// IsDraft reports whether the chapter has no output location. Draft chapters
// carry no content to rewrite.
func (c *Chapter) IsDraft() bool {
	return c.Path == nil || c.SourcePath == nil
}

// BookItem is mdbook's section enum: a chapter object, a part title, or the
// literal string "Separator".
type BookItem struct {
	Chapter   *Chapter
	PartTitle string
	Separator bool
}

func (i *BookItem) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "Separator" {
			i.Separator = true
		}
		return nil
	}

	var obj struct {
		Chapter   *Chapter `json:"Chapter"`
		PartTitle *string  `json:"PartTitle"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	i.Chapter = obj.Chapter
	if obj.PartTitle != nil {
		i.PartTitle = *obj.PartTitle
	}
	return nil
}

func (i BookItem) MarshalJSON() ([]byte, error) {
	switch {
	case i.Separator:
		return json.Marshal("Separator")
	case i.Chapter != nil:
		return json.Marshal(struct {
			Chapter *Chapter `json:"Chapter"`
		}{i.Chapter})
	default:
		return json.Marshal(struct {
			PartTitle string `json:"PartTitle"`
		}{i.PartTitle})
	}
}

// Book mirrors mdbook's book JSON.
type Book struct {
	Sections []BookItem `json:"sections"`
	// mdbook marks the struct non-exhaustive; echo the field back untouched.
	NonExhaustive *json.RawMessage `json:"__non_exhaustive,omitempty"`
}

// EachChapter visits every chapter depth-first in book traversal order, the
// same order mdbook itself iterates.
func (b *Book) EachChapter(fn func(*Chapter)) {
	var visit func(items []BookItem)
	visit = func(items []BookItem) {
		for idx := range items {
			ch := items[idx].Chapter
			if ch == nil {
				continue
			}
			fn(ch)
			visit(ch.SubItems)
		}
	}
	visit(b.Sections)
}

// ReadInput parses the [context, book] array mdbook writes to the
// preprocessor's stdin. The context is not needed here and is discarded.
func ReadInput(r io.Reader) (*Book, error) {
	var input [2]json.RawMessage
	if err := json.NewDecoder(r).Decode(&input); err != nil {
		return nil, serrors.Wrap(err, serrors.CategoryValidation, serrors.SeverityFatal, "failed to parse preprocessor input")
	}

	var bk Book
	if err := json.Unmarshal(input[1], &bk); err != nil {
		return nil, serrors.Wrap(err, serrors.CategoryValidation, serrors.SeverityFatal, "failed to parse book JSON")
	}
	return &bk, nil
}

// WriteOutput emits the mutated book JSON for mdbook to consume.
func (b *Book) WriteOutput(w io.Writer) error {
	if err := json.NewEncoder(w).Encode(b); err != nil {
		return serrors.Wrap(err, serrors.CategoryInternal, serrors.SeverityFatal, "failed to encode book JSON")
	}
	return nil
}

// Bind maps the non-draft chapters into the pipeline's book model and returns
// a commit function that copies rewritten content back. Traversal order is
// preserved, which is what keeps candidate flattening and URL splitting
// aligned.
func (b *Book) Bind() (*book.Book, func()) {
	var mdChapters []*Chapter
	bk := &book.Book{}

	b.EachChapter(func(c *Chapter) {
		if c.IsDraft() {
			return
		}
		mdChapters = append(mdChapters, c)
		bk.Chapters = append(bk.Chapters, &book.Chapter{
			Name:       c.Name,
			Path:       *c.Path,
			SourcePath: *c.SourcePath,
			Content:    c.Content,
			Depth:      book.PathDepth(*c.Path),
		})
	})

	commit := func() {
		for i, c := range mdChapters {
			c.Content = bk.Chapters[i].Content
		}
	}
	return bk, commit
}
