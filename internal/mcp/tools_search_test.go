package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	git2go "github.com/libgit2/git2go/v34"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/gitseek/pkg/report"
)

// fixtureRepo builds a repository whose data.txt carries "needle" in the
// middle revision only.
func fixtureRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	repo, err := git2go.InitRepository(dir, false)
	require.NoError(t, err)

	t.Cleanup(repo.Free)

	for _, content := range []string{"plain\n", "plain needle\n", "plain again\n"} {
		writeErr := os.WriteFile(filepath.Join(dir, "data.txt"), []byte(content), 0o644)
		require.NoError(t, writeErr)

		commitAll(t, repo, content)
	}

	return dir
}

func commitAll(t *testing.T, repo *git2go.Repository, message string) {
	t.Helper()

	index, err := repo.Index()
	require.NoError(t, err)

	defer index.Free()

	require.NoError(t, index.AddAll([]string{"*"}, git2go.IndexAddDefault, nil))
	require.NoError(t, index.Write())

	treeID, err := index.WriteTree()
	require.NoError(t, err)

	tree, err := repo.LookupTree(treeID)
	require.NoError(t, err)

	defer tree.Free()

	sig := &git2go.Signature{Name: "Test User", Email: "test@example.com", When: time.Now()}

	var parents []*git2go.Commit

	head, headErr := repo.Head()
	if headErr == nil {
		parent, lookupErr := repo.LookupCommit(head.Target())
		require.NoError(t, lookupErr)

		defer parent.Free()

		parents = append(parents, parent)
		head.Free()
	}

	_, err = repo.CreateCommit("HEAD", sig, sig, message, tree, parents...)
	require.NoError(t, err)
}

func TestValidateSearchInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   SearchInput
		wantErr error
	}{
		{name: "empty repo", input: SearchInput{File: "a", Query: "q"}, wantErr: ErrEmptyRepoPath},
		{
			name:    "relative repo",
			input:   SearchInput{Repo: "rel/path", File: "a", Query: "q"},
			wantErr: ErrRepoPathNotAbsolute,
		},
		{name: "empty file", input: SearchInput{Repo: "/tmp/r", Query: "q"}, wantErr: ErrEmptyFilePath},
		{name: "empty query", input: SearchInput{Repo: "/tmp/r", File: "a"}, wantErr: ErrEmptyQuery},
		{name: "valid", input: SearchInput{Repo: "/tmp/r", File: "a", Query: "q"}, wantErr: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := validateSearchInput(tc.input)
			if tc.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestHandleSearch_InvalidInputIsToolError(t *testing.T) {
	t.Parallel()

	srv := NewServer(ServerDeps{})

	result, _, err := srv.handleSearch(context.Background(), &mcpsdk.CallToolRequest{}, SearchInput{})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

func TestHandleSearch_FindsRunInFixture(t *testing.T) {
	t.Parallel()

	dir := fixtureRepo(t)
	srv := NewServer(ServerDeps{})

	result, output, err := srv.handleSearch(context.Background(), &mcpsdk.CallToolRequest{}, SearchInput{
		Repo:  dir,
		File:  "data.txt",
		Query: "needle",
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)

	summary, ok := output.Data.(report.Summary)
	require.True(t, ok)

	require.NotNil(t, summary.First)
	assert.Equal(t, 1, summary.First.Index)

	require.NotNil(t, summary.Last)
	assert.Equal(t, 1, summary.Last.Index)

	require.NotNil(t, summary.Disappeared)
	assert.Equal(t, 2, summary.Disappeared.Index)
}

func TestHandleSearch_MissingRepository(t *testing.T) {
	t.Parallel()

	srv := NewServer(ServerDeps{})

	result, _, err := srv.handleSearch(context.Background(), &mcpsdk.CallToolRequest{}, SearchInput{
		Repo:  filepath.Join(t.TempDir(), "nope"),
		File:  "data.txt",
		Query: "needle",
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}
