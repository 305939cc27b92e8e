package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for output formats other than text, yaml, json.
var ErrUnknownFormat = errors.New("unknown output format")

// Encode writes the summary in the requested machine format.
func Encode(w io.Writer, summary Summary, format string) error {
	switch format {
	case "yaml":
		encoder := yaml.NewEncoder(w)

		err := encoder.Encode(summary)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		return encoder.Close()
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		err := encoder.Encode(summary)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}

		return nil
	case "text", "":
		for _, line := range summary.Lines() {
			fmt.Fprintln(w, line)
		}

		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// Render writes the colored terminal report.
func Render(w io.Writer, summary Summary) {
	title := color.New(color.Bold)
	miss := color.New(color.FgYellow)

	title.Fprintf(w, "search for %q in %s\n", summary.Query, summary.Path)

	if summary.First == nil {
		miss.Fprintln(w, "string does not appear in any checked commit")
		renderFooter(w, summary)

		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"", "commit", "index", "when"})
	tw.AppendRow(appearanceRow("first appears", summary.First))

	if summary.Last != nil {
		tw.AppendRow(appearanceRow("last appears", summary.Last))
	}

	if summary.Disappeared != nil {
		tw.AppendRow(appearanceRow("disappeared in", summary.Disappeared))
	}

	tw.Render()
	renderFooter(w, summary)
}

func appearanceRow(label string, a *Appearance) table.Row {
	return table.Row{label, a.Hash, a.Index, a.Timestamp}
}

func renderFooter(w io.Writer, summary Summary) {
	fmt.Fprintf(w, "%s commits, %s probes in %s\n",
		humanize.Comma(int64(summary.Commits)),
		humanize.Comma(int64(summary.Probes)),
		summary.Elapsed.Round(time.Millisecond),
	)
}
