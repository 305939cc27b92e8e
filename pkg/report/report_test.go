package report_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/gitseek/pkg/bisect"
	"github.com/Sumatoshi-tech/gitseek/pkg/history"
	"github.com/Sumatoshi-tech/gitseek/pkg/report"
)

// stampReader resolves timestamps from a map and fails everything else.
type stampReader struct {
	stamps map[string]string
}

func (r *stampReader) ListCommits(_ context.Context, _ history.ListOptions) ([]history.Commit, error) {
	return nil, history.ErrNoCommitsInRange
}

func (r *stampReader) Materialize(_ context.Context, _ history.Commit) (history.Content, error) {
	return nil, history.ErrNotFound
}

func (r *stampReader) Timestamp(_ context.Context, hash string) (string, error) {
	stamp, ok := r.stamps[hash]
	if !ok {
		return "", history.ErrNotFound
	}

	return stamp, nil
}

// fiveCommitResult mirrors the canonical example: C0..C4 with the string
// present in C2 and C3.
func fiveCommitResult() *bisect.Result {
	timeline := history.NewTimeline([]history.Commit{
		{Hash: "C4", Path: "book.xlsx"},
		{Hash: "C3", Path: "book.xlsx"},
		{Hash: "C2", Path: "book.xlsx"},
		{Hash: "C1", Path: "book.xlsx"},
		{Hash: "C0", Path: "book.xlsx"},
	})

	return &bisect.Result{
		Timeline: timeline,
		Outcome:  bisect.Outcome{FirstIndex: 2, LastIndex: 3, Probes: 5},
	}
}

func TestBuildSummaryWithDisappearance(t *testing.T) {
	t.Parallel()

	reader := &stampReader{stamps: map[string]string{
		"C2": "2024-02-01T10:00:00Z",
		"C3": "2024-03-01T10:00:00Z",
	}}

	summary := report.Build(context.Background(), reader, fiveCommitResult(), "serial-42", "book.xlsx", time.Second)

	require.NotNil(t, summary.First)
	assert.Equal(t, "C2", summary.First.Hash)
	assert.Equal(t, 2, summary.First.Index)
	assert.Equal(t, "2024-02-01T10:00:00Z", summary.First.Timestamp)

	require.NotNil(t, summary.Last)
	assert.Equal(t, "C3", summary.Last.Hash)

	require.NotNil(t, summary.Disappeared)
	assert.Equal(t, "C4", summary.Disappeared.Hash)
	// Timestamp resolution is best-effort.
	assert.Equal(t, "unknown time", summary.Disappeared.Timestamp)

	assert.Equal(t, []string{
		"first appears in C2",
		"last appears in C3",
		"disappeared in commit C4",
	}, summary.Lines())
}

func TestBuildSummaryStringStillPresent(t *testing.T) {
	t.Parallel()

	result := fiveCommitResult()
	result.Outcome = bisect.Outcome{FirstIndex: 0, LastIndex: 4, Probes: 6}

	summary := report.Build(context.Background(), &stampReader{}, result, "serial-42", "book.xlsx", time.Second)

	require.NotNil(t, summary.First)
	require.NotNil(t, summary.Last)
	assert.Nil(t, summary.Disappeared, "no disappearance when the run reaches the newest commit")

	for _, line := range summary.Lines() {
		assert.NotContains(t, line, "disappeared")
	}
}

func TestBuildSummaryNeverPresent(t *testing.T) {
	t.Parallel()

	result := fiveCommitResult()
	result.Outcome = bisect.Outcome{FirstIndex: bisect.NoMatch, LastIndex: bisect.NoMatch, Probes: 4}

	summary := report.Build(context.Background(), &stampReader{}, result, "serial-42", "book.xlsx", time.Second)

	assert.Nil(t, summary.First)
	assert.Nil(t, summary.Last)
	assert.Nil(t, summary.Disappeared)

	lines := summary.Lines()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "does not appear in any checked commit")
}

func TestEncodeFormats(t *testing.T) {
	t.Parallel()

	summary := report.Build(context.Background(), &stampReader{}, fiveCommitResult(), "serial-42", "book.xlsx", time.Second)

	var buf bytes.Buffer

	require.NoError(t, report.Encode(&buf, summary, "json"))

	var decodedJSON map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decodedJSON))
	assert.Equal(t, "serial-42", decodedJSON["query"])

	buf.Reset()
	require.NoError(t, report.Encode(&buf, summary, "yaml"))

	var decodedYAML map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decodedYAML))
	assert.Equal(t, "book.xlsx", decodedYAML["path"])

	buf.Reset()
	require.NoError(t, report.Encode(&buf, summary, "text"))
	assert.Contains(t, buf.String(), "first appears in C2")

	err := report.Encode(&buf, summary, "csv")
	require.ErrorIs(t, err, report.ErrUnknownFormat)
}

func TestRenderTerminalReport(t *testing.T) {
	t.Parallel()

	summary := report.Build(context.Background(), &stampReader{}, fiveCommitResult(), "serial-42", "book.xlsx", time.Second)

	var buf bytes.Buffer

	report.Render(&buf, summary)

	out := buf.String()
	assert.Contains(t, out, "C2")
	assert.Contains(t, out, "C3")
	assert.Contains(t, out, "first appears")
	assert.Contains(t, out, "5 commits, 5 probes")
}

func TestWritePlot(t *testing.T) {
	t.Parallel()

	result := fiveCommitResult()
	summary := report.Build(context.Background(), &stampReader{}, result, "serial-42", "book.xlsx", time.Second)

	events := []bisect.ProbeEvent{
		{Index: 2, Found: true, Commit: result.Timeline.At(2)},
		{Index: 4, Found: false, Commit: result.Timeline.At(4)},
		{Index: 1, Err: history.ErrNotFound, Commit: result.Timeline.At(1)},
	}

	path := filepath.Join(t.TempDir(), "probes.html")
	require.NoError(t, report.WritePlot(path, summary, result.Timeline, events))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "echarts"))
}
