package bisect

import (
	"context"
	"fmt"

	"github.com/Sumatoshi-tech/gitseek/pkg/history"
	"github.com/Sumatoshi-tech/gitseek/pkg/match"
)

// ProbeOutcome is the result of testing one commit for the search string.
// A non-nil Err is an absorbed failure: the engine records it and continues
// with Found=false, never aborting the search.
type ProbeOutcome struct {
	Found bool
	Err   error
}

// Prober performs one probe against one commit.
type Prober interface {
	Probe(ctx context.Context, commit history.Commit) ProbeOutcome
}

// ContentProber materializes a commit's file content through the history
// reader and tests it with the matcher selected for the commit's path.
type ContentProber struct {
	reader     history.Reader
	query      string
	matcherFor func(path string) match.Matcher
}

// NewContentProber builds a prober for the given query.
func NewContentProber(reader history.Reader, query string) *ContentProber {
	return &ContentProber{
		reader:     reader,
		query:      query,
		matcherFor: match.ForPath,
	}
}

// Probe implements Prober. The materialized content is released on every
// exit path, including retrieval and matcher failure.
func (p *ContentProber) Probe(ctx context.Context, commit history.Commit) ProbeOutcome {
	content, err := p.reader.Materialize(ctx, commit)
	if err != nil {
		return ProbeOutcome{Err: fmt.Errorf("materialize %s: %w", commit.Hash, err)}
	}
	defer content.Close()

	found, err := p.matcherFor(commit.Path).Contains(content.Bytes(), p.query)
	if err != nil {
		return ProbeOutcome{Err: fmt.Errorf("match %s: %w", commit.Hash, err)}
	}

	return ProbeOutcome{Found: found}
}
