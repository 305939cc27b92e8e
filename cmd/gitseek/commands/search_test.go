package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	git2go "github.com/libgit2/git2go/v34"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/gitseek/cmd/gitseek/commands"
	"github.com/Sumatoshi-tech/gitseek/pkg/report"
)

// fixtureRepo builds a repository whose notes.txt carries "token-991"
// in the second and third of four revisions.
func fixtureRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	repo, err := git2go.InitRepository(dir, false)
	require.NoError(t, err)

	t.Cleanup(repo.Free)

	revisions := []string{
		"draft\n",
		"draft token-991\n",
		"final token-991\n",
		"final\n",
	}

	for _, content := range revisions {
		writeErr := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(content), 0o644)
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

func runSearch(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := commands.NewSearchCommand()

	var out, errOut bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	cmd.SetContext(context.Background())

	err := cmd.Execute()

	return out.String(), err
}

func TestSearchCommand_FlagsRegistered(t *testing.T) {
	t.Parallel()

	cmd := commands.NewSearchCommand()

	flags := []string{
		"repo",
		"from",
		"to",
		"config",
		"log-dir",
		"format",
		"plot",
		"follow",
		"no-fallback",
		"no-color",
		"no-progress",
	}

	for _, flagName := range flags {
		t.Run(flagName, func(t *testing.T) {
			t.Parallel()

			flag := cmd.Flags().Lookup(flagName)
			require.NotNil(t, flag, "flag --%s should be registered", flagName)
		})
	}
}

func TestSearchCommand_FindsRun(t *testing.T) {
	t.Parallel()

	dir := fixtureRepo(t)

	out, err := runSearch(t, "notes.txt", "token-991", "--repo", dir, "--format", "json")
	require.NoError(t, err)

	var summary report.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))

	require.NotNil(t, summary.First)
	assert.Equal(t, 1, summary.First.Index)

	require.NotNil(t, summary.Last)
	assert.Equal(t, 2, summary.Last.Index)

	require.NotNil(t, summary.Disappeared)
	assert.Equal(t, 3, summary.Disappeared.Index)
}

func TestSearchCommand_StringNeverPresent(t *testing.T) {
	t.Parallel()

	dir := fixtureRepo(t)

	out, err := runSearch(t, "notes.txt", "absent-string", "--repo", dir, "--format", "json")
	require.NoError(t, err)

	var summary report.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))

	assert.Nil(t, summary.First)
	assert.Nil(t, summary.Last)
}

func TestSearchCommand_TextOutput(t *testing.T) {
	t.Parallel()

	dir := fixtureRepo(t)

	out, err := runSearch(t, "notes.txt", "token-991",
		"--repo", dir, "--format", "text", "--no-progress", "--no-color")
	require.NoError(t, err)

	assert.Contains(t, out, "first appears")
	assert.Contains(t, out, "disappeared")
}

func TestSearchCommand_InvertedRange(t *testing.T) {
	t.Parallel()

	dir := fixtureRepo(t)

	_, err := runSearch(t, "notes.txt", "token-991",
		"--repo", dir, "--format", "json", "--from", "HEAD", "--to", "HEAD~2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ancestor")
}

func TestSearchCommand_MissingRepository(t *testing.T) {
	t.Parallel()

	_, err := runSearch(t, "notes.txt", "token-991",
		"--repo", filepath.Join(t.TempDir(), "nope"), "--format", "json")
	require.Error(t, err)
}

func TestSearchCommand_WritesAuditLog(t *testing.T) {
	t.Parallel()

	dir := fixtureRepo(t)
	logDir := t.TempDir()

	_, err := runSearch(t, "notes.txt", "token-991",
		"--repo", dir, "--format", "json", "--log-dir", logDir)
	require.NoError(t, err)

	entries, err := os.ReadDir(logDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "gitseek-")
}

func TestSearchCommand_WritesPlot(t *testing.T) {
	t.Parallel()

	dir := fixtureRepo(t)
	plotPath := filepath.Join(t.TempDir(), "probes.html")

	_, err := runSearch(t, "notes.txt", "token-991",
		"--repo", dir, "--format", "json", "--plot", plotPath)
	require.NoError(t, err)

	info, err := os.Stat(plotPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
