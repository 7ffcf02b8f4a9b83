package scan

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/pdfscan/internal/document"
	"github.com/ziadkadry99/pdfscan/internal/domain"
	"github.com/ziadkadry99/pdfscan/internal/logging"
	"github.com/ziadkadry99/pdfscan/internal/progress"
)

// Phase labels shown by progress reporters.
const (
	PhaseValidate = "Validating"
	PhaseSearch   = "Searching"
)

// Result is everything a run produced.
type Result struct {
	Candidates []string
	Outcomes   []domain.ProbeOutcome
	Excluded   domain.ExclusionSet
	// Searched is the phase-2 input: Candidates minus Excluded.
	Searched []string
	Matches  []domain.MatchRecord
	Duration time.Duration
}

// Repaired returns the paths that only became readable after repair.
func (r *Result) Repaired() []string {
	var out []string
	for _, o := range r.Outcomes {
		if o.Status == domain.StatusRepaired {
			out = append(out, o.Path)
		}
	}
	return out
}

// Pipeline runs the validate phase and then the search phase over a fixed
// candidate list. Phase 2 never starts before phase 1 has drained.
type Pipeline struct {
	probe    *Probe
	scanner  *Scanner
	pool     *Pool
	reporter progress.Reporter
	log      zerolog.Logger
}

// NewPipeline creates a new Pipeline.
func NewPipeline(
	lib document.Library,
	repair document.Repairer,
	matcher *Matcher,
	pool *Pool,
	logger zerolog.Logger,
) *Pipeline {
	return &Pipeline{
		probe:    NewProbe(lib, repair, logger),
		scanner:  NewScanner(lib, matcher, logger),
		pool:     pool,
		reporter: progress.NopReporter{},
		log:      logging.Component(logger, "pipeline"),
	}
}

// SetReporter sets the per-phase progress reporter.
func (p *Pipeline) SetReporter(r progress.Reporter) {
	if r == nil {
		r = progress.NopReporter{}
	}
	p.reporter = r
}

// Validate runs phase 1 alone and returns every outcome plus the set of
// excluded documents. Documents whose probe was interrupted have no outcome.
func (p *Pipeline) Validate(ctx context.Context, candidates []string) ([]domain.ProbeOutcome, domain.ExclusionSet, error) {
	p.log.Info().Int("candidates", len(candidates)).Int("workers", p.pool.Size()).Msg("validation started")

	outcomes, err := runPhase[domain.ProbeOutcome](ctx, p, PhaseValidate, candidates, func(ctx context.Context, path string) []domain.ProbeOutcome {
		o := p.probe.Probe(ctx, path)
		if o.Status == domain.StatusInterrupted {
			return nil
		}
		return []domain.ProbeOutcome{o}
	})
	excluded := domain.NewExclusionSet(outcomes)

	p.log.Info().
		Int("probed", len(outcomes)).
		Int("excluded", excluded.Len()).
		Msg("validation finished")
	return outcomes, excluded, err
}

// Run validates candidates, filters out the excluded ones and searches the
// rest. Per-document failures never fail the run; the only error returned
// is ctx.Err() after a cancellation, together with the partial result.
func (p *Pipeline) Run(ctx context.Context, candidates []string) (*Result, error) {
	start := time.Now()
	result := &Result{Candidates: candidates}

	outcomes, excluded, err := p.Validate(ctx, candidates)
	result.Outcomes = outcomes
	result.Excluded = excluded
	if err != nil {
		result.Duration = time.Since(start)
		return result, err
	}

	result.Searched = excluded.Filter(candidates)
	p.log.Info().Int("documents", len(result.Searched)).Msg("search started")

	matches, err := runPhase[domain.MatchRecord](ctx, p, PhaseSearch, result.Searched, p.scanner.Scan)
	result.Matches = matches
	result.Duration = time.Since(start)

	p.log.Info().
		Int("matches", len(matches)).
		Dur("elapsed", result.Duration).
		Msg("search finished")
	return result, err
}

// runPhase wraps one Dispatch call in progress reporting. The phase uses a
// copy of the pipeline's pool so the progress hook stays local to it.
func runPhase[R any](ctx context.Context, p *Pipeline, label string, items []string, work func(context.Context, string) []R) ([]R, error) {
	p.reporter.Start(len(items), label)
	defer p.reporter.Finish()

	pool := *p.pool
	pool.OnDone = func(processed, _ int, current string) {
		p.reporter.Update(processed, current)
	}
	return Dispatch(ctx, &pool, items, work)
}
