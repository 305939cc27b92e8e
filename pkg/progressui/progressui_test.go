package progressui_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/gitseek/pkg/progressui"
)

func TestBarTracksFractions(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	bar := progressui.NewBar(&buf, "searching")
	sink := bar.Sink()

	sink(0.05)
	sink(0.25)
	sink(1.0)

	bar.Stop()

	assert.Contains(t, buf.String(), "searching")
}
