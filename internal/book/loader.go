package book

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	serrors "git.home.luguber.info/inful/stdlinks/internal/errors"
)

// LoadDir walks a directory of markdown sources and builds a Book.
//
// Chapters are ordered by lexical path order (filepath.WalkDir order), which
// is deterministic; the same order is used later when splitting resolved URLs
// back per chapter.
func LoadDir(dir string) (*Book, error) {
	b := &Book{}

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		content, err := os.ReadFile(p)
		if err != nil {
			return err
		}

		b.Chapters = append(b.Chapters, &Chapter{
			Name:       chapterName(rel),
			Path:       rel,
			SourcePath: rel,
			Content:    string(content),
			Depth:      PathDepth(rel),
		})
		return nil
	})
	if err != nil {
		return nil, serrors.Wrap(err, serrors.CategoryFileSystem, serrors.SeverityFatal, "failed to load book sources").WithContext("dir", dir)
	}

	return b, nil
}

// WriteDir writes every chapter's content under outDir, preserving relative paths.
func (b *Book) WriteDir(outDir string) error {
	for _, ch := range b.Chapters {
		dst := filepath.Join(outDir, filepath.FromSlash(ch.Path))
		if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
			return serrors.Wrap(err, serrors.CategoryFileSystem, serrors.SeverityFatal, "failed to create output directory").WithContext("path", dst)
		}
		if err := os.WriteFile(dst, []byte(ch.Content), 0o644); err != nil {
			return serrors.Wrap(err, serrors.CategoryFileSystem, serrors.SeverityFatal, "failed to write chapter").WithContext("path", dst)
		}
	}
	return nil
}

func chapterName(rel string) string {
	base := filepath.Base(rel)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
