// Package commands implements CLI command handlers for gitseek.
package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/gitseek/pkg/auditlog"
	"github.com/Sumatoshi-tech/gitseek/pkg/bisect"
	"github.com/Sumatoshi-tech/gitseek/pkg/config"
	"github.com/Sumatoshi-tech/gitseek/pkg/gitlib"
	"github.com/Sumatoshi-tech/gitseek/pkg/history"
	"github.com/Sumatoshi-tech/gitseek/pkg/observability"
	"github.com/Sumatoshi-tech/gitseek/pkg/progressui"
	"github.com/Sumatoshi-tech/gitseek/pkg/report"
)

// ErrRepositoryOpen indicates a failure to open the git repository.
var ErrRepositoryOpen = errors.New("failed to open repository")

// SearchCommand holds configuration for the search command.
type SearchCommand struct {
	repoPath   string
	fromRef    string
	toRef      string
	configPath string
	logDir     string
	format     string
	plotPath   string
	follow     bool
	noFallback bool
	noColor    bool
	noProgress bool
	debug      bool

	// auditLines carries the summary lines to the audit log after the
	// search completes.
	auditLines []string
}

// NewSearchCommand creates the search command.
func NewSearchCommand() *cobra.Command {
	sc := &SearchCommand{}

	cmd := &cobra.Command{
		Use:   "search <file> <string>",
		Short: "Find the commit range in which a string is present in a file",
		Long: `Search bisects one file's first-parent history for a literal string
and reports the first commit that contains it, the last commit that still
contains it, and the commit in which it disappeared.

The string is assumed to be present in one contiguous run of commits.
Histories where it comes and goes repeatedly resolve to one such run.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return sc.run(cobraCmd, args[0], args[1])
		},
	}

	cmd.Flags().StringVarP(&sc.repoPath, "repo", "r", "", "path to the git repository (default: working directory)")
	cmd.Flags().StringVar(&sc.fromRef, "from", "", "earliest ref of the commit range (default: root commit)")
	cmd.Flags().StringVar(&sc.toRef, "to", "", "latest ref of the commit range (default: HEAD)")
	cmd.Flags().StringVarP(&sc.configPath, "config", "c", "", "path to a gitseek config file")
	cmd.Flags().StringVar(&sc.logDir, "log-dir", "", "directory for the probe audit log")
	cmd.Flags().StringVarP(&sc.format, "format", "f", "", "output format: text, json or yaml")
	cmd.Flags().StringVar(&sc.plotPath, "plot", "", "write an HTML probe chart to this file")
	cmd.Flags().BoolVar(&sc.follow, "follow", false, "follow the file across renames")
	cmd.Flags().BoolVar(&sc.noFallback, "no-fallback", false, "disable the linear fallback scan on negative probes")
	cmd.Flags().BoolVar(&sc.noColor, "no-color", false, "disable colored output")
	cmd.Flags().BoolVar(&sc.noProgress, "no-progress", false, "disable the progress bar")
	cmd.Flags().BoolVar(&sc.debug, "debug", false, "enable debug logging")

	return cmd
}

func (sc *SearchCommand) run(cmd *cobra.Command, filePath, query string) error {
	cfg, err := sc.loadConfig(cmd)
	if err != nil {
		return err
	}

	providers, err := initObservability(cfg, observability.ModeCLI, sc.debug)
	if err != nil {
		return err
	}

	defer func() {
		shutdownErr := providers.Shutdown(context.Background())
		if shutdownErr != nil {
			providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
		}
	}()

	metrics, err := observability.NewSearchMetrics(providers.Meter)
	if err != nil {
		return err
	}

	if sc.noColor {
		color.NoColor = true
	}

	repo, err := gitlib.OpenRepository(sc.repoPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRepositoryOpen, err)
	}
	defer repo.Free()

	reader := history.NewGitReader(repo)

	return sc.execute(cmd, reader, providers, metrics, filePath, query)
}

// execute runs the search and renders its outcome.
func (sc *SearchCommand) execute(
	cmd *cobra.Command,
	reader history.Reader,
	providers observability.Providers,
	metrics *observability.SearchMetrics,
	filePath, query string,
) error {
	ctx, span := providers.Tracer.Start(cmd.Context(), "gitseek.search",
		trace.WithAttributes(attribute.String("search.file", filePath)),
	)
	defer span.End()

	sinks := []bisect.EventSink{metrics.Sink(ctx)}

	if sc.logDir != "" {
		audit, err := auditlog.Open(sc.logDir)
		if err != nil {
			return err
		}

		defer func() {
			closeErr := audit.Close()
			if closeErr != nil {
				providers.Logger.Warn("audit log close failed", "error", closeErr)
			}
		}()

		sinks = append(sinks, auditlog.Recorder(audit, reader))

		defer sc.writeAuditSummary(audit)
	}

	var plotEvents []bisect.ProbeEvent
	if sc.plotPath != "" {
		sinks = append(sinks, func(event bisect.ProbeEvent) {
			plotEvents = append(plotEvents, event)
		})
	}

	var progress bisect.Sink

	var bar *progressui.Bar
	if !sc.noProgress && sc.format == "text" {
		bar = progressui.NewBar(cmd.ErrOrStderr(), fmt.Sprintf("searching %s", filePath))
		progress = bar.Sink()
	}

	start := time.Now()

	result, err := bisect.Search(ctx, bisect.SearchOptions{
		Reader: reader,
		Query:  query,
		List: history.ListOptions{
			Path:        filePath,
			EarliestRef: sc.fromRef,
			LatestRef:   sc.toRef,
			Follow:      sc.follow,
		},
		Progress:        progress,
		Events:          multiplex(sinks),
		DisableFallback: sc.noFallback,
	})

	elapsed := time.Since(start)

	if bar != nil {
		bar.Stop()
	}

	status := "ok"
	if err != nil {
		status = "error"
	}

	metrics.RecordSearch(ctx, status, elapsed)

	if err != nil {
		return describeSearchError(err, filePath)
	}

	summary := report.Build(ctx, reader, result, query, filePath, elapsed)

	if sc.logDir != "" {
		sc.auditLines = summary.Lines()
	}

	return sc.render(cmd, summary, result, plotEvents)
}

// loadConfig loads the config file and applies flag overrides. Flags that
// were set explicitly win over the file; unset flags inherit file values.
func (sc *SearchCommand) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(sc.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()

	if !flags.Changed("repo") {
		sc.repoPath = cfg.Repository.Path
	}

	if !flags.Changed("format") {
		sc.format = cfg.Output.Format
	}

	if !flags.Changed("log-dir") {
		sc.logDir = cfg.Search.LogDir
	}

	if !flags.Changed("follow") {
		sc.follow = cfg.Search.Follow
	}

	if !flags.Changed("no-fallback") {
		sc.noFallback = cfg.Search.NoFallback
	}

	if !flags.Changed("no-color") {
		sc.noColor = !cfg.Output.Color
	}

	return cfg, nil
}

// render writes the summary in the selected format, plus the optional chart.
func (sc *SearchCommand) render(cmd *cobra.Command, summary report.Summary, result *bisect.Result, events []bisect.ProbeEvent) error {
	out := cmd.OutOrStdout()

	if sc.format == "text" {
		report.Render(out, summary)
	} else {
		err := report.Encode(out, summary, sc.format)
		if err != nil {
			return err
		}
	}

	if sc.plotPath != "" {
		err := report.WritePlot(sc.plotPath, summary, result.Timeline, events)
		if err != nil {
			return err
		}
	}

	return nil
}

func (sc *SearchCommand) writeAuditSummary(audit *auditlog.Log) {
	for _, line := range sc.auditLines {
		audit.Summary(line)
	}
}

// multiplex fans one probe event out to every sink.
func multiplex(sinks []bisect.EventSink) bisect.EventSink {
	if len(sinks) == 1 {
		return sinks[0]
	}

	return func(event bisect.ProbeEvent) {
		for _, sink := range sinks {
			sink(event)
		}
	}
}

// describeSearchError maps the timeline errors to user-facing messages.
func describeSearchError(err error, filePath string) error {
	switch {
	case errors.Is(err, history.ErrInvertedRange):
		return fmt.Errorf("%w: --from must be an ancestor of --to", err)
	case errors.Is(err, history.ErrNoCommitsInRange):
		return fmt.Errorf("%w: no commits touch %q in the given range", err, filePath)
	default:
		return err
	}
}
