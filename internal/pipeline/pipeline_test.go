package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/stdlinks/internal/book"
	serrors "git.home.luguber.info/inful/stdlinks/internal/errors"
	"git.home.luguber.info/inful/stdlinks/internal/patterns"
)

// mockResolver answers positionally by deriving a stable documentation URL
// from each symbol. It records what it was asked so tests can assert the
// flattened traversal order.
type mockResolver struct {
	calls [][]string
	err   error
	drop  int // return this many fewer URLs than requested
}

func (m *mockResolver) Resolve(_ context.Context, symbols []string) ([]string, error) {
	m.calls = append(m.calls, append([]string(nil), symbols...))
	if m.err != nil {
		return nil, m.err
	}
	urls := make([]string, 0, len(symbols))
	for _, s := range symbols {
		urls = append(urls, "https://doc.rust-lang.org/stable/"+strings.ReplaceAll(s, "::", "/")+".html")
	}
	if m.drop > 0 {
		urls = urls[:len(urls)-m.drop]
	}
	return urls, nil
}

func newTestPipeline(res *mockResolver, relative bool) *Pipeline {
	return New(res, patterns.New(), relative)
}

func TestRun_RelativeRewrite(t *testing.T) {
	res := &mockResolver{}
	p := newTestPipeline(res, true)

	bk := &book.Book{Chapters: []*book.Chapter{{
		Name:    "doc",
		Path:    "doc.md",
		Content: "See [std::option::Option] for details.\n",
		Depth:   1,
	}}}

	report, err := p.Run(context.Background(), bk)
	require.NoError(t, err)
	require.Equal(t, "See [std::option::Option](../std/option/Option.html) for details.\n", bk.Chapters[0].Content)
	require.Equal(t, 1, report.Candidates)
	require.Equal(t, 1, report.Rewritten)
	require.Equal(t, 1, report.Chapters)
	require.NotEmpty(t, report.RunID)
}

func TestRun_AbsoluteRewrite(t *testing.T) {
	res := &mockResolver{}
	p := newTestPipeline(res, false)

	bk := &book.Book{Chapters: []*book.Chapter{{
		Name:    "doc",
		Path:    "doc.md",
		Content: "See [std::option::Option] for details.\n",
		Depth:   1,
	}}}

	_, err := p.Run(context.Background(), bk)
	require.NoError(t, err)
	require.Equal(t, "See [std::option::Option](https://doc.rust-lang.org/stable/std/option/Option.html) for details.\n", bk.Chapters[0].Content)
}

func TestRun_DepthControlsParentMarkers(t *testing.T) {
	res := &mockResolver{}
	p := newTestPipeline(res, true)

	bk := &book.Book{Chapters: []*book.Chapter{{
		Name:    "boolean",
		Path:    "types/boolean.md",
		Content: "[std::mem::drop]\n",
		Depth:   2,
	}}}

	_, err := p.Run(context.Background(), bk)
	require.NoError(t, err)
	require.Equal(t, "[std::mem::drop](../../std/mem/drop.html)\n", bk.Chapters[0].Content)
}

func TestRun_TitleViolationAbortsBeforeResolving(t *testing.T) {
	res := &mockResolver{}
	p := newTestPipeline(res, true)

	good := "See [std::mem::drop] here.\n"
	bad := "[Option](std::option::Option \"title\")\n"
	bk := &book.Book{Chapters: []*book.Chapter{
		{Name: "a", Path: "a.md", Content: good, Depth: 1},
		{Name: "b", Path: "b.md", Content: bad, Depth: 1},
	}}

	_, err := p.Run(context.Background(), bk)
	require.Error(t, err)
	require.Contains(t, err.Error(), "titles in links are not supported")

	// Nothing resolved, nothing mutated.
	require.Empty(t, res.calls)
	require.Equal(t, good, bk.Chapters[0].Content)
	require.Equal(t, bad, bk.Chapters[1].Content)
}

func TestRun_ResolverShortfallLeavesBookUntouched(t *testing.T) {
	res := &mockResolver{drop: 1}
	p := newTestPipeline(res, true)

	c1 := "[std::a] and [std::b]\n"
	c2 := "[std::c]\n"
	bk := &book.Book{Chapters: []*book.Chapter{
		{Name: "a", Path: "a.md", Content: c1, Depth: 1},
		{Name: "b", Path: "b.md", Content: c2, Depth: 1},
	}}

	_, err := p.Run(context.Background(), bk)
	require.Error(t, err)
	require.True(t, serrors.IsCategory(err, serrors.CategoryResolver))
	require.Equal(t, c1, bk.Chapters[0].Content)
	require.Equal(t, c2, bk.Chapters[1].Content)
}

func TestRun_ResolverErrorLeavesBookUntouched(t *testing.T) {
	res := &mockResolver{err: serrors.ResolverError("boom")}
	p := newTestPipeline(res, true)

	content := "[std::a]\n"
	bk := &book.Book{Chapters: []*book.Chapter{
		{Name: "a", Path: "a.md", Content: content, Depth: 1},
	}}

	_, err := p.Run(context.Background(), bk)
	require.Error(t, err)
	require.Equal(t, content, bk.Chapters[0].Content)
}

func TestRun_FlattenOrderFollowsChapterOrder(t *testing.T) {
	res := &mockResolver{}
	p := newTestPipeline(res, true)

	bk := &book.Book{Chapters: []*book.Chapter{
		{Name: "a", Path: "a.md", Content: "[std::x] and [`y`](std::y)\n", Depth: 1},
		{Name: "b", Path: "b.md", Content: "[std::z]\n", Depth: 1},
	}}

	_, err := p.Run(context.Background(), bk)
	require.NoError(t, err)
	require.Len(t, res.calls, 1)
	// Well-formed links come first within a chapter, broken shortcuts after;
	// chapters contribute in traversal order.
	require.Equal(t, []string{"std::y", "std::x", "std::z"}, res.calls[0])
}

func TestRun_EachChapterGetsItsOwnURLs(t *testing.T) {
	res := &mockResolver{}
	p := newTestPipeline(res, true)

	bk := &book.Book{Chapters: []*book.Chapter{
		{Name: "a", Path: "a.md", Content: "[std::a]\n", Depth: 1},
		{Name: "b", Path: "b.md", Content: "[std::b]\n", Depth: 1},
		{Name: "c", Path: "c.md", Content: "no links here\n", Depth: 1},
		{Name: "d", Path: "d.md", Content: "[std::d]\n", Depth: 1},
	}}

	report, err := p.Run(context.Background(), bk)
	require.NoError(t, err)
	require.Equal(t, "[std::a](../std/a.html)\n", bk.Chapters[0].Content)
	require.Equal(t, "[std::b](../std/b.html)\n", bk.Chapters[1].Content)
	require.Equal(t, "no links here\n", bk.Chapters[2].Content)
	require.Equal(t, "[std::d](../std/d.html)\n", bk.Chapters[3].Content)
	require.Equal(t, 3, report.Rewritten)
}

func TestRun_MultipleLinksPerLineRewrittenInPlace(t *testing.T) {
	res := &mockResolver{}
	p := newTestPipeline(res, true)

	bk := &book.Book{Chapters: []*book.Chapter{{
		Name:    "a",
		Path:    "a.md",
		Content: "Both [std::a] and [std::b] on one line.\n",
		Depth:   1,
	}}}

	_, err := p.Run(context.Background(), bk)
	require.NoError(t, err)
	require.Equal(t, "Both [std::a](../std/a.html) and [std::b](../std/b.html) on one line.\n", bk.Chapters[0].Content)
}

func TestRun_EmptyBook(t *testing.T) {
	res := &mockResolver{}
	p := newTestPipeline(res, true)

	report, err := p.Run(context.Background(), &book.Book{})
	require.NoError(t, err)
	require.Zero(t, report.Candidates)
	require.Zero(t, report.Rewritten)
}

func TestRun_CanceledContext(t *testing.T) {
	res := &mockResolver{}
	p := newTestPipeline(res, true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	content := "[std::a]\n"
	bk := &book.Book{Chapters: []*book.Chapter{
		{Name: "a", Path: "a.md", Content: content, Depth: 1},
	}}

	_, err := p.Run(ctx, bk)
	require.Error(t, err)
	require.Equal(t, content, bk.Chapters[0].Content)
}
