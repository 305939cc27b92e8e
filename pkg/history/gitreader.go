package history

import (
	"context"
	"fmt"
	"time"

	"github.com/Sumatoshi-tech/gitseek/pkg/gitlib"
)

// GitReader is the libgit2-backed Reader.
type GitReader struct {
	repo *gitlib.Repository
}

// NewGitReader wraps an open repository. The caller keeps ownership of repo.
func NewGitReader(repo *gitlib.Repository) *GitReader {
	return &GitReader{repo: repo}
}

// ListCommits implements Reader over a first-parent file log walk.
func (g *GitReader) ListCommits(ctx context.Context, opts ListOptions) ([]Commit, error) {
	var logOpts gitlib.FileLogOptions

	logOpts.Path = opts.Path
	logOpts.Follow = opts.Follow

	if opts.LatestRef != "" {
		latest, err := g.repo.ResolveRef(opts.LatestRef)
		if err != nil {
			return nil, fmt.Errorf("%w: latest ref %q", ErrNotFound, opts.LatestRef)
		}

		logOpts.Latest = latest
	}

	if opts.EarliestRef != "" {
		earliest, err := g.repo.ResolveRef(opts.EarliestRef)
		if err != nil {
			return nil, fmt.Errorf("%w: earliest ref %q", ErrNotFound, opts.EarliestRef)
		}

		logOpts.Earliest = earliest
	}

	entries, reachedEarliest, err := g.repo.FileLog(ctx, logOpts)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %v", ErrToolInvocation, err)
	}

	if opts.EarliestRef != "" && !reachedEarliest {
		return nil, fmt.Errorf("%w: %q..%q", ErrInvertedRange, opts.EarliestRef, opts.LatestRef)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCommitsInRange, opts.Path)
	}

	commits := make([]Commit, len(entries))
	for i, entry := range entries {
		commits[i] = Commit{Hash: entry.Hash.String(), Path: entry.Path}
	}

	return commits, nil
}

// Materialize implements Reader by loading the blob at the commit's path.
func (g *GitReader) Materialize(_ context.Context, commit Commit) (Content, error) {
	hash, err := gitlib.ParseHash(commit.Hash)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrToolInvocation, err)
	}

	gitCommit, err := g.repo.LookupCommit(hash)
	if err != nil {
		return nil, fmt.Errorf("%w: commit %s", ErrNotFound, commit.Hash)
	}
	defer gitCommit.Free()

	tree, err := gitCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrToolInvocation, err)
	}
	defer tree.Free()

	blobHash, present := tree.BlobByPath(commit.Path)
	if !present {
		return nil, fmt.Errorf("%w: %s at %s", ErrNotFound, commit.Path, commit.Hash)
	}

	blob, err := g.repo.LookupBlob(blobHash)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrToolInvocation, err)
	}

	return &blobContent{blob: blob}, nil
}

// Timestamp implements Reader with the author time in RFC 3339.
func (g *GitReader) Timestamp(_ context.Context, hashStr string) (string, error) {
	hash, err := gitlib.ParseHash(hashStr)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrToolInvocation, err)
	}

	commit, err := g.repo.LookupCommit(hash)
	if err != nil {
		return "", fmt.Errorf("%w: commit %s", ErrNotFound, hashStr)
	}
	defer commit.Free()

	return commit.Author().When.Format(time.RFC3339), nil
}

// blobContent scopes a blob's lifetime to one probe.
type blobContent struct {
	blob *gitlib.Blob
}

func (b *blobContent) Bytes() []byte {
	return b.blob.Contents()
}

func (b *blobContent) Close() error {
	b.blob.Free()

	return nil
}
