package bisect

import (
	"math/bits"
)

// Sink receives progress fractions in [0,1]. Values are non-decreasing and
// exactly one 1.0 is delivered per invocation.
type Sink func(fraction float64)

// Phase boundaries of the progress model. Each phase owns a disjoint
// sub-range of [0,1].
const (
	progressStart    = 0.05  // liveness signal before any I/O
	progressTimeline = 0.25  // commit timeline resolved
	progressLastDone = 0.625 // last-match phase complete
	progressComplete = 1.0
)

// Tracker maps search phases onto a monotonically non-decreasing fraction.
// It is owned by a single invocation and not safe for concurrent use.
type Tracker struct {
	sink    Sink
	current float64
}

// NewTracker creates a tracker reporting to sink. A nil sink discards updates.
func NewTracker(sink Sink) *Tracker {
	if sink == nil {
		sink = func(float64) {}
	}

	return &Tracker{sink: sink}
}

// Start signals liveness before any I/O has happened.
func (t *Tracker) Start() {
	t.report(progressStart)
}

// TimelineResolved signals that the commit timeline has been built.
func (t *Tracker) TimelineResolved() {
	t.report(progressTimeline)
}

// ProbeDone reports the done-th completed probe of a phase whose search
// window spans window commits. The phase's sub-range fills linearly against
// the expected ceil(log2(window)) probes; fallback probes count too, capped
// at the phase boundary.
func (t *Tracker) ProbeDone(phase Phase, done, window int) {
	lo, hi := phaseRange(phase)

	fraction := float64(done) / float64(expectedProbes(window))
	if fraction > 1 {
		fraction = 1
	}

	t.report(lo + (hi-lo)*fraction)
}

// PhaseDone jumps to the end of a phase's sub-range, used when the linear
// fallback short-circuits the binary search.
func (t *Tracker) PhaseDone(phase Phase) {
	_, hi := phaseRange(phase)
	t.report(hi)
}

// Finish reports the terminal 1.0 unless a probe fill already reached it.
// Every exit path of an invocation must end here.
func (t *Tracker) Finish() {
	t.report(progressComplete)
}

// Current returns the last reported fraction.
func (t *Tracker) Current() float64 {
	return t.current
}

// report forwards strictly increasing values; progress never regresses and
// no value is delivered twice.
func (t *Tracker) report(fraction float64) {
	if fraction <= t.current {
		return
	}

	t.current = fraction
	t.sink(fraction)
}

func phaseRange(phase Phase) (float64, float64) {
	if phase == PhaseLastMatch {
		return progressTimeline, progressLastDone
	}

	return progressLastDone, progressComplete
}

// expectedProbes returns ceil(log2(window)), the probe count of an ideal
// binary search over the window, never less than 1.
func expectedProbes(window int) int {
	if window <= 2 {
		return 1
	}

	return bits.Len(uint(window - 1))
}
