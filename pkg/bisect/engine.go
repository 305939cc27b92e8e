package bisect

import (
	"context"

	"github.com/Sumatoshi-tech/gitseek/pkg/history"
)

// Config tunes one engine invocation.
type Config struct {
	// Tracker receives progress updates; nil disables reporting.
	Tracker *Tracker
	// Events receives one event per probe; nil disables emission.
	Events EventSink
	// DisableFallback turns off the linear fallback scan of the last-match
	// phase, leaving the plain binary search.
	DisableFallback bool
}

// Engine drives probes over a timeline to find the presence run boundaries.
// Probes execute strictly sequentially: each bisection step's direction
// depends on the previous outcome. Failed probes are never retried; a
// retrieval failure is indistinguishable from a commit where the file does
// not exist.
type Engine struct {
	prober     Prober
	tracker    *Tracker
	events     EventSink
	noFallback bool
	probes     int
}

// NewEngine builds an engine around a prober.
func NewEngine(prober Prober, cfg Config) *Engine {
	tracker := cfg.Tracker
	if tracker == nil {
		tracker = NewTracker(nil)
	}

	return &Engine{
		prober:     prober,
		tracker:    tracker,
		events:     cfg.Events,
		noFallback: cfg.DisableFallback,
	}
}

// Run executes the last-match search followed by the first-match search and
// returns the boundary indices. The only error it returns is cancellation;
// probe failures are absorbed as negative results.
func (e *Engine) Run(ctx context.Context, timeline *history.Timeline) (Outcome, error) {
	e.probes = 0

	last, err := e.findLastMatch(ctx, timeline, 0)
	if err != nil {
		return Outcome{Probes: e.probes}, err
	}

	// The run cannot start after its own end, so a found last-match bounds
	// the first-match search from above.
	upper := timeline.Len() - 1
	if last != NoMatch {
		upper = last
	}

	first, err := e.findFirstMatch(ctx, timeline, upper)
	if err != nil {
		return Outcome{Probes: e.probes}, err
	}

	return Outcome{FirstIndex: first, LastIndex: last, Probes: e.probes}, nil
}

// findLastMatch binary-searches [start, end of timeline] for the newest
// commit containing the string. A negative probe cannot distinguish "past
// the run" from "before a run that starts later", so unless disabled every
// negative probe triggers a bounded linear scan of the unexplored right
// sub-range, newest first; a hit there is adopted as the last match and
// terminates the search.
func (e *Engine) findLastMatch(ctx context.Context, timeline *history.Timeline, start int) (int, error) {
	left, right := start, timeline.Len()-1
	window := right - left + 1
	best := NoMatch
	done := 0

	for left <= right {
		if err := ctx.Err(); err != nil {
			return best, err
		}

		mid := left + (right-left)/2
		outcome := e.probe(ctx, PhaseLastMatch, timeline, mid, false)

		done++
		e.tracker.ProbeDone(PhaseLastMatch, done, window)

		if outcome.Found {
			best = mid
			left = mid + 1

			continue
		}

		if !e.noFallback {
			hit, scanned, err := e.fallbackScan(ctx, timeline, mid+1, right)

			done += scanned
			if err != nil {
				return best, err
			}

			if hit != NoMatch {
				e.tracker.PhaseDone(PhaseLastMatch)

				return hit, nil
			}

			e.tracker.ProbeDone(PhaseLastMatch, done, window)
		}

		right = mid - 1
	}

	e.tracker.PhaseDone(PhaseLastMatch)

	return best, nil
}

// fallbackScan probes [from, to] in descending order and returns the index
// of the first positive probe, or NoMatch. The second return is the number
// of probes spent.
func (e *Engine) fallbackScan(ctx context.Context, timeline *history.Timeline, from, to int) (int, int, error) {
	scanned := 0

	for i := to; i >= from; i-- {
		if err := ctx.Err(); err != nil {
			return NoMatch, scanned, err
		}

		outcome := e.probe(ctx, PhaseLastMatch, timeline, i, true)
		scanned++

		if outcome.Found {
			return i, scanned, nil
		}
	}

	return NoMatch, scanned, nil
}

// findFirstMatch binary-searches [0, upper] for the oldest commit containing
// the string. No fallback here: the upper bound from the last-match phase is
// the correctness aid.
func (e *Engine) findFirstMatch(ctx context.Context, timeline *history.Timeline, upper int) (int, error) {
	left, right := 0, upper
	window := upper + 1
	best := NoMatch
	done := 0

	for left <= right {
		if err := ctx.Err(); err != nil {
			return best, err
		}

		mid := left + (right-left)/2
		outcome := e.probe(ctx, PhaseFirstMatch, timeline, mid, false)

		done++
		e.tracker.ProbeDone(PhaseFirstMatch, done, window)

		if outcome.Found {
			best = mid
			right = mid - 1
		} else {
			left = mid + 1
		}
	}

	e.tracker.PhaseDone(PhaseFirstMatch)

	return best, nil
}

// probe runs one probe, absorbs its failure, and emits the event.
func (e *Engine) probe(ctx context.Context, phase Phase, timeline *history.Timeline, index int, fallback bool) ProbeOutcome {
	commit := timeline.At(index)
	outcome := e.prober.Probe(ctx, commit)

	if outcome.Err != nil {
		outcome.Found = false
	}

	e.probes++

	if e.events != nil {
		e.events(ProbeEvent{
			Phase:    phase,
			Index:    index,
			Commit:   commit,
			Found:    outcome.Found,
			Err:      outcome.Err,
			Fallback: fallback,
		})
	}

	return outcome
}
