package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolNameSearch is the registered name of the search tool.
const ToolNameSearch = "gitseek_search"

// Sentinel errors for tool input validation.
var (
	// ErrEmptyRepoPath indicates the repo parameter is empty.
	ErrEmptyRepoPath = errors.New("repo parameter is required and must not be empty")
	// ErrRepoPathNotAbsolute indicates the repo path is not absolute.
	ErrRepoPathNotAbsolute = errors.New("repo must be an absolute path")
	// ErrEmptyFilePath indicates the file parameter is empty.
	ErrEmptyFilePath = errors.New("file parameter is required and must not be empty")
	// ErrEmptyQuery indicates the query parameter is empty.
	ErrEmptyQuery = errors.New("query parameter is required and must not be empty")
)

// SearchInput is the input schema for the gitseek_search tool.
type SearchInput struct {
	Repo       string `json:"repo"                  jsonschema:"absolute path to a Git repository"`
	File       string `json:"file"                  jsonschema:"path of the file to search, relative to the repository root"`
	Query      string `json:"query"                 jsonschema:"literal string to locate in the file's history"`
	From       string `json:"from,omitempty"        jsonschema:"earliest ref of the commit range (default: root commit)"`
	To         string `json:"to,omitempty"          jsonschema:"latest ref of the commit range (default: HEAD)"`
	Follow     bool   `json:"follow,omitempty"      jsonschema:"follow the file across renames"`
	NoFallback bool   `json:"no_fallback,omitempty" jsonschema:"disable the linear fallback scan on negative probes"`
}

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

// validateSearchInput checks the search tool input constraints.
func validateSearchInput(input SearchInput) error {
	if input.Repo == "" {
		return ErrEmptyRepoPath
	}

	if !filepath.IsAbs(input.Repo) {
		return fmt.Errorf("%w: %q", ErrRepoPathNotAbsolute, input.Repo)
	}

	if input.File == "" {
		return ErrEmptyFilePath
	}

	if input.Query == "" {
		return ErrEmptyQuery
	}

	return nil
}
