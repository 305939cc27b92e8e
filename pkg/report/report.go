// Package report turns a finished search into human and machine readable
// output: the first/last appearance summary, yaml/json encodings, and an
// optional HTML plot of the probed timeline.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/Sumatoshi-tech/gitseek/pkg/bisect"
	"github.com/Sumatoshi-tech/gitseek/pkg/history"
)

// unknownTime is the display fallback when a commit time cannot be resolved.
const unknownTime = "unknown time"

// Appearance pins one summary boundary to a commit.
type Appearance struct {
	Hash      string `json:"commit"    yaml:"commit"`
	Path      string `json:"path"      yaml:"path"`
	Index     int    `json:"index"     yaml:"index"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}

// Summary is the reportable result of one search.
type Summary struct {
	Query   string        `json:"query"   yaml:"query"`
	Path    string        `json:"path"    yaml:"path"`
	Commits int           `json:"commits" yaml:"commits"`
	Probes  int           `json:"probes"  yaml:"probes"`
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`

	// First is the oldest commit containing the string, nil when the string
	// was never observed.
	First *Appearance `json:"first,omitempty" yaml:"first,omitempty"`
	// Last is the newest commit containing the string.
	Last *Appearance `json:"last,omitempty" yaml:"last,omitempty"`
	// Disappeared is the commit after Last, present only when the string
	// vanished before the end of the timeline.
	Disappeared *Appearance `json:"disappeared,omitempty" yaml:"disappeared,omitempty"`
}

// Build assembles the summary for a search result, resolving commit
// timestamps best-effort through the reader.
func Build(ctx context.Context, reader history.Reader, result *bisect.Result, query, path string, elapsed time.Duration) Summary {
	summary := Summary{
		Query:   query,
		Path:    path,
		Commits: result.Timeline.Len(),
		Probes:  result.Outcome.Probes,
		Elapsed: elapsed,
	}

	outcome := result.Outcome
	if !outcome.HasFirst() {
		return summary
	}

	summary.First = appearance(ctx, reader, result.Timeline, outcome.FirstIndex)

	if outcome.HasLast() {
		summary.Last = appearance(ctx, reader, result.Timeline, outcome.LastIndex)

		if outcome.LastIndex < result.Timeline.Len()-1 {
			summary.Disappeared = appearance(ctx, reader, result.Timeline, outcome.LastIndex+1)
		}
	}

	return summary
}

// Lines renders the terse audit-style summary.
func (s Summary) Lines() []string {
	if s.First == nil {
		return []string{fmt.Sprintf("%q does not appear in any checked commit", s.Query)}
	}

	lines := []string{fmt.Sprintf("first appears in %s", s.First.Hash)}

	if s.Last != nil {
		lines = append(lines, fmt.Sprintf("last appears in %s", s.Last.Hash))
	}

	if s.Disappeared != nil {
		lines = append(lines, fmt.Sprintf("disappeared in commit %s", s.Disappeared.Hash))
	}

	return lines
}

func appearance(ctx context.Context, reader history.Reader, timeline *history.Timeline, index int) *Appearance {
	commit := timeline.At(index)

	timestamp, err := reader.Timestamp(ctx, commit.Hash)
	if err != nil {
		timestamp = unknownTime
	}

	return &Appearance{
		Hash:      commit.Hash,
		Path:      commit.Path,
		Index:     index,
		Timestamp: timestamp,
	}
}
