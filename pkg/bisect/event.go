// Package bisect locates the contiguous run of commits over which a search
// string is present in one file's timeline. It runs a bounded binary search
// for the run's end, a second one for its start, and a linear fallback scan
// that recovers from probes landing just inside a run boundary.
//
// The engine assumes the string's presence forms at most one contiguous run
// across the timeline. Histories where the string was added, removed, and
// re-added are outside that contract: the fallback only covers a
// one-probe-wide violation, not disjoint runs.
package bisect

import (
	"github.com/Sumatoshi-tech/gitseek/pkg/history"
)

// Phase identifies which search phase issued a probe.
type Phase int

const (
	// PhaseLastMatch is the search for the newest commit containing the string.
	PhaseLastMatch Phase = iota
	// PhaseFirstMatch is the search for the oldest commit containing the string.
	PhaseFirstMatch
)

// String returns the phase name for logs.
func (p Phase) String() string {
	switch p {
	case PhaseLastMatch:
		return "last-match"
	case PhaseFirstMatch:
		return "first-match"
	default:
		return "unknown"
	}
}

// ProbeEvent describes one completed probe. The engine emits events instead
// of logging so the decision logic stays free of I/O; audit logging, metrics,
// and plotting are downstream consumers.
type ProbeEvent struct {
	Phase  Phase
	Index  int
	Commit history.Commit
	Found  bool
	// Err is the absorbed retrieval or matching failure, nil on success.
	Err error
	// Fallback marks probes issued by the linear fallback scan.
	Fallback bool
}

// EventSink consumes probe events. Sinks run synchronously between probes
// and should return promptly.
type EventSink func(ProbeEvent)
