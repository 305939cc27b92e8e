package bisect

import (
	"context"

	"github.com/Sumatoshi-tech/gitseek/pkg/history"
)

// SearchOptions configures one full search invocation.
type SearchOptions struct {
	Reader history.Reader
	Query  string
	List   history.ListOptions

	// Progress receives the invocation's progress fractions.
	Progress Sink
	// Events receives one event per probe.
	Events EventSink
	// DisableFallback turns off the last-match linear fallback.
	DisableFallback bool

	// Prober overrides the default content prober, for tests.
	Prober Prober
}

// Result pairs the outcome with the timeline it indexes into.
type Result struct {
	Outcome  Outcome
	Timeline *history.Timeline
}

// Search runs a complete invocation: timeline resolution, the two bisection
// phases, and terminal progress. Every exit path, including the empty and
// inverted range early exits, delivers a final 1.0 to the progress sink
// before returning.
func Search(ctx context.Context, opts SearchOptions) (*Result, error) {
	tracker := NewTracker(opts.Progress)
	tracker.Start()

	defer tracker.Finish()

	timeline, err := history.BuildTimeline(ctx, opts.Reader, opts.List)
	if err != nil {
		return nil, err
	}

	tracker.TimelineResolved()

	prober := opts.Prober
	if prober == nil {
		prober = NewContentProber(opts.Reader, opts.Query)
	}

	engine := NewEngine(prober, Config{
		Tracker:         tracker,
		Events:          opts.Events,
		DisableFallback: opts.DisableFallback,
	})

	outcome, err := engine.Run(ctx, timeline)
	if err != nil {
		return nil, err
	}

	return &Result{Outcome: outcome, Timeline: timeline}, nil
}
