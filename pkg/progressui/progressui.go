// Package progressui renders search progress as a terminal bar.
package progressui

import (
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"

	"github.com/Sumatoshi-tech/gitseek/pkg/bisect"
)

// barScale converts progress fractions to tracker units.
const barScale = 1000

// Bar drives a single go-pretty tracker from progress fractions in [0, 1].
type Bar struct {
	writer  progress.Writer
	tracker *progress.Tracker
}

// NewBar starts rendering a progress bar to out. Call Stop when the
// search finishes to flush the final state.
func NewBar(out io.Writer, message string) *Bar {
	writer := progress.NewWriter()
	writer.SetOutputWriter(out)
	writer.SetUpdateFrequency(100 * time.Millisecond)
	writer.SetTrackerLength(30)
	writer.Style().Visibility.ETA = false
	writer.Style().Visibility.Value = false

	tracker := &progress.Tracker{
		Message: message,
		Total:   barScale,
	}
	writer.AppendTracker(tracker)

	go writer.Render()

	return &Bar{writer: writer, tracker: tracker}
}

// Sink returns the callback to hand to the search. Fractions are
// reported monotonically by the caller, so SetValue never moves back.
func (b *Bar) Sink() bisect.Sink {
	return func(fraction float64) {
		b.tracker.SetValue(int64(fraction * barScale))
	}
}

// Stop marks the tracker done and stops the render loop.
func (b *Bar) Stop() {
	b.tracker.MarkAsDone()
	b.writer.Stop()

	for b.writer.IsRenderInProgress() {
		time.Sleep(10 * time.Millisecond)
	}
}
