package mcp

import (
	"context"
	"fmt"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/gitseek/pkg/bisect"
	"github.com/Sumatoshi-tech/gitseek/pkg/gitlib"
	"github.com/Sumatoshi-tech/gitseek/pkg/history"
	"github.com/Sumatoshi-tech/gitseek/pkg/report"
)

// handleSearch processes gitseek_search tool calls.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input SearchInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateSearchInput(input)
	if err != nil {
		return errorResult(err)
	}

	return s.executeSearch(ctx, input)
}

// executeSearch runs a full search against the repository named in the input.
func (s *Server) executeSearch(ctx context.Context, input SearchInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	repo, err := gitlib.OpenRepository(input.Repo)
	if err != nil {
		return errorResult(fmt.Errorf("open repository: %w", err))
	}
	defer repo.Free()

	reader := history.NewGitReader(repo)

	var events bisect.EventSink
	if s.metrics != nil {
		events = s.metrics.Sink(ctx)
	}

	start := time.Now()

	result, err := bisect.Search(ctx, bisect.SearchOptions{
		Reader: reader,
		Query:  input.Query,
		List: history.ListOptions{
			Path:        input.File,
			EarliestRef: input.From,
			LatestRef:   input.To,
			Follow:      input.Follow,
		},
		Events:          events,
		DisableFallback: input.NoFallback,
	})
	if err != nil {
		return errorResult(fmt.Errorf("search: %w", err))
	}

	summary := report.Build(ctx, reader, result, input.Query, input.File, time.Since(start))

	return jsonResult(summary)
}
