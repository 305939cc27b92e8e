package history_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	git2go "github.com/libgit2/git2go/v34"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/gitseek/pkg/gitlib"
	"github.com/Sumatoshi-tech/gitseek/pkg/history"
)

// fixtureRepo builds a repository with three versions of data.txt and returns
// the commit hashes oldest first.
func fixtureRepo(t *testing.T) (*gitlib.Repository, []string) {
	t.Helper()

	dir := t.TempDir()

	native, err := git2go.InitRepository(dir, false)
	require.NoError(t, err)

	t.Cleanup(native.Free)

	hashes := make([]string, 0, 3)
	for _, content := range []string{"alpha\n", "alpha beta\n", "beta\n"} {
		writeErr := os.WriteFile(filepath.Join(dir, "data.txt"), []byte(content), 0o644)
		require.NoError(t, writeErr)

		hashes = append(hashes, commitAll(t, native, "update data.txt"))
	}

	repo, err := gitlib.OpenRepository(dir)
	require.NoError(t, err)

	t.Cleanup(repo.Free)

	return repo, hashes
}

func commitAll(t *testing.T, repo *git2go.Repository, message string) string {
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

	head, err := repo.Head()
	if err == nil {
		parent, lookupErr := repo.LookupCommit(head.Target())
		require.NoError(t, lookupErr)

		parents = append(parents, parent)

		head.Free()
	}

	oid, err := repo.CreateCommit("HEAD", sig, sig, message, tree, parents...)
	require.NoError(t, err)

	for _, parent := range parents {
		parent.Free()
	}

	return gitlib.HashFromOid(oid).String()
}

func TestGitReaderListCommits(t *testing.T) {
	repo, hashes := fixtureRepo(t)
	reader := history.NewGitReader(repo)

	commits, err := reader.ListCommits(context.Background(), history.ListOptions{Path: "data.txt"})
	require.NoError(t, err)

	// Newest first.
	require.Len(t, commits, 3)
	assert.Equal(t, hashes[2], commits[0].Hash)
	assert.Equal(t, hashes[0], commits[2].Hash)
	assert.Equal(t, "data.txt", commits[0].Path)
}

func TestGitReaderListCommitsUnknownPath(t *testing.T) {
	repo, _ := fixtureRepo(t)
	reader := history.NewGitReader(repo)

	_, err := reader.ListCommits(context.Background(), history.ListOptions{Path: "missing.txt"})
	require.ErrorIs(t, err, history.ErrNoCommitsInRange)
}

func TestGitReaderListCommitsUnknownRef(t *testing.T) {
	repo, _ := fixtureRepo(t)
	reader := history.NewGitReader(repo)

	_, err := reader.ListCommits(context.Background(), history.ListOptions{
		Path:      "data.txt",
		LatestRef: "does-not-exist",
	})
	require.ErrorIs(t, err, history.ErrNotFound)
}

func TestGitReaderInvertedRange(t *testing.T) {
	repo, hashes := fixtureRepo(t)
	reader := history.NewGitReader(repo)

	_, err := reader.ListCommits(context.Background(), history.ListOptions{
		Path:        "data.txt",
		EarliestRef: hashes[2],
		LatestRef:   hashes[0],
	})
	require.ErrorIs(t, err, history.ErrInvertedRange)
}

func TestGitReaderMaterialize(t *testing.T) {
	repo, hashes := fixtureRepo(t)
	reader := history.NewGitReader(repo)

	content, err := reader.Materialize(context.Background(), history.Commit{Hash: hashes[1], Path: "data.txt"})
	require.NoError(t, err)

	assert.Equal(t, []byte("alpha beta\n"), content.Bytes())
	require.NoError(t, content.Close())
}

func TestGitReaderMaterializeMissingPath(t *testing.T) {
	repo, hashes := fixtureRepo(t)
	reader := history.NewGitReader(repo)

	_, err := reader.Materialize(context.Background(), history.Commit{Hash: hashes[0], Path: "other.txt"})
	require.ErrorIs(t, err, history.ErrNotFound)
}

func TestGitReaderTimestamp(t *testing.T) {
	repo, hashes := fixtureRepo(t)
	reader := history.NewGitReader(repo)

	stamp, err := reader.Timestamp(context.Background(), hashes[0])
	require.NoError(t, err)

	parsed, err := time.Parse(time.RFC3339, stamp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), parsed, time.Minute)
}
