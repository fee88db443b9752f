// Package pipeline orchestrates a full rewrite run: collect candidates across
// all chapters, resolve them through the external oracle, split the resolved
// URLs back per chapter, plan replacements, and only then splice chapter text.
//
// All stages fail fast and globally. No chapter is mutated until every
// invariant has held for the whole book, so a failure anywhere leaves all
// chapters untouched.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/stdlinks/internal/book"
	"git.home.luguber.info/inful/stdlinks/internal/collector"
	serrors "git.home.luguber.info/inful/stdlinks/internal/errors"
	"git.home.luguber.info/inful/stdlinks/internal/logfields"
	"git.home.luguber.info/inful/stdlinks/internal/metrics"
	"git.home.luguber.info/inful/stdlinks/internal/patterns"
	"git.home.luguber.info/inful/stdlinks/internal/resolver"
	"git.home.luguber.info/inful/stdlinks/internal/rewrite"
)

// Pipeline wires the stages together. Patterns and Recorder are shared,
// immutable collaborators; Resolver is the external oracle.
type Pipeline struct {
	Resolver      resolver.Resolver
	Patterns      *patterns.Set
	Recorder      metrics.Recorder
	RelativeLinks bool
}

// New builds a Pipeline with a noop recorder unless one is provided later.
func New(res resolver.Resolver, p *patterns.Set, relative bool) *Pipeline {
	return &Pipeline{
		Resolver:      res,
		Patterns:      p,
		Recorder:      metrics.NoopRecorder{},
		RelativeLinks: relative,
	}
}

// Report summarizes one run.
type Report struct {
	RunID      string
	Candidates int
	Rewritten  int
	Chapters   int
	Duration   time.Duration
}

// StageDef names one stage and its work function.
type StageDef struct {
	Name string
	Fn   func(ctx context.Context, rs *runState) error
}

// runState is the mutable state threaded through the stages of one run.
type runState struct {
	book       *book.Book
	candidates [][]collector.Candidate // parallel to book.Chapters
	urls       []string                // flat, global order
	perChapter [][]string              // urls split back per chapter
	plans      [][]rewrite.Replacement // parallel to book.Chapters
	report     *Report
}

// Run executes all stages over the book. On success every chapter's Content
// holds the rewritten markdown; on error no chapter has been modified.
func (p *Pipeline) Run(ctx context.Context, bk *book.Book) (*Report, error) {
	rs := &runState{
		book:   bk,
		report: &Report{RunID: uuid.NewString(), Chapters: len(bk.Chapters)},
	}

	stages := []StageDef{
		{Name: "collect", Fn: p.collect},
		{Name: "resolve", Fn: p.resolve},
		{Name: "split", Fn: p.split},
		{Name: "plan", Fn: p.plan},
		{Name: "rewrite", Fn: p.rewriteStage},
	}

	start := time.Now()
	err := p.runStages(ctx, rs, stages)
	rs.report.Duration = time.Since(start)
	p.Recorder.ObserveRunDuration(rs.report.Duration)

	if err != nil {
		outcome := "failed"
		if ctx.Err() != nil {
			outcome = "canceled"
		}
		p.Recorder.IncRunOutcome(outcome)
		return nil, err
	}
	p.Recorder.IncRunOutcome("success")
	return rs.report, nil
}

// runStages executes stages in order, recording timing and stopping on the
// first fatal error.
func (p *Pipeline) runStages(ctx context.Context, rs *runState, stages []StageDef) error {
	for _, st := range stages {
		select {
		case <-ctx.Done():
			p.Recorder.IncStageResult(st.Name, metrics.ResultCanceled)
			return serrors.Wrap(ctx.Err(), serrors.CategoryInternal, serrors.SeverityFatal, "run canceled").WithContext("stage", st.Name)
		default:
		}

		t0 := time.Now()
		err := st.Fn(ctx, rs)
		dur := time.Since(t0)
		p.Recorder.ObserveStageDuration(st.Name, dur)

		if err != nil {
			p.Recorder.IncStageResult(st.Name, metrics.ResultFatal)
			slog.Error("Stage failed",
				logfields.Stage(st.Name),
				logfields.RunID(rs.report.RunID),
				logfields.Error(err))
			return err
		}
		p.Recorder.IncStageResult(st.Name, metrics.ResultSuccess)
		slog.Debug("Stage complete",
			logfields.Stage(st.Name),
			logfields.RunID(rs.report.RunID),
			logfields.DurationMS(float64(dur.Milliseconds())))
	}
	return nil
}

// collect gathers candidates for every chapter in book traversal order. That
// order, including the per-chapter placement of broken shortcut references
// after well-formed links, defines the global candidate order everything
// downstream depends on.
func (p *Pipeline) collect(_ context.Context, rs *runState) error {
	rs.candidates = make([][]collector.Candidate, len(rs.book.Chapters))
	total := 0
	for i, ch := range rs.book.Chapters {
		cands, err := collector.Collect(ch)
		if err != nil {
			return err
		}
		rs.candidates[i] = cands
		total += len(cands)
	}
	rs.report.Candidates = total
	p.Recorder.AddCandidates(total)
	slog.Info("Collected candidate links", logfields.Count(total))
	return nil
}

// resolve flattens the candidate destinations and hands them to the oracle.
// The oracle guarantees positional 1:1 correspondence or fails the run.
func (p *Pipeline) resolve(ctx context.Context, rs *runState) error {
	var symbols []string
	for _, cands := range rs.candidates {
		for _, c := range cands {
			symbols = append(symbols, c.Dest)
		}
	}

	urls, err := p.Resolver.Resolve(ctx, symbols)
	if err != nil {
		return err
	}
	if len(urls) != len(symbols) {
		return serrors.ResolverError(
			"resolver returned a mismatched number of links")
	}
	rs.urls = urls
	return nil
}

// split partitions the flat URL list back into per-chapter runs using the
// same traversal order collect used.
func (p *Pipeline) split(_ context.Context, rs *runState) error {
	counts := make([]int, len(rs.candidates))
	for i, cands := range rs.candidates {
		counts[i] = len(cands)
	}
	perChapter, err := rewrite.Split(rs.urls, counts)
	if err != nil {
		return err
	}
	rs.perChapter = perChapter
	return nil
}

// plan builds every chapter's replacement list without touching any buffer.
func (p *Pipeline) plan(_ context.Context, rs *runState) error {
	rs.plans = make([][]rewrite.Replacement, len(rs.book.Chapters))
	for i, ch := range rs.book.Chapters {
		plan, err := rewrite.Plan(p.Patterns, ch, rs.candidates[i], rs.perChapter[i], p.RelativeLinks)
		if err != nil {
			return err
		}
		rs.plans[i] = plan
	}
	return nil
}

// rewriteStage commits the rewritten text back to each chapter. Planning has
// already succeeded for the whole book, so the only remaining failure mode is
// an internal edit invariant.
func (p *Pipeline) rewriteStage(_ context.Context, rs *runState) error {
	rewritten := 0
	for i, ch := range rs.book.Chapters {
		if len(rs.plans[i]) == 0 {
			continue
		}
		content, err := rewrite.Apply(ch, rs.plans[i])
		if err != nil {
			return err
		}
		ch.Content = content
		rewritten += len(rs.plans[i])
	}
	rs.report.Rewritten = rewritten
	p.Recorder.AddRewrites(rewritten)
	slog.Info("Rewrote links", logfields.Count(rewritten))
	return nil
}
