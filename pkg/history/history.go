// Package history models a single file's commit timeline and the reader
// capability that materializes file content at a given commit. The bisection
// engine consumes these interfaces and never talks to git directly, so it can
// be tested against fakes.
package history

import (
	"context"
	"errors"
	"fmt"
)

// Typed failures of the history capability.
var (
	// ErrNoCommitsInRange means no commit touches the path in the requested range.
	ErrNoCommitsInRange = errors.New("no commits touch the path in the requested range")

	// ErrInvertedRange means the earliest reference resolves to a later
	// position than the latest reference.
	ErrInvertedRange = errors.New("earliest commit is not an ancestor of latest commit")

	// ErrNotFound means a reference, commit, or path does not exist.
	ErrNotFound = errors.New("not found in repository")

	// ErrToolInvocation means the underlying version-control tool failed.
	ErrToolInvocation = errors.New("git operation failed")
)

// Commit is one point on a file's timeline. Immutable once constructed.
type Commit struct {
	// Hash is the commit id, unique within a timeline.
	Hash string
	// Path is the tracked file's path as of this commit. It can differ from
	// the requested path in older commits under rename follow.
	Path string
}

// ListOptions selects the commits for one timeline.
type ListOptions struct {
	Path        string
	EarliestRef string // optional lower boundary, inclusive
	LatestRef   string // optional upper boundary, inclusive
	Follow      bool   // track the file across renames
}

// Content is file content materialized from one commit. It must be closed
// after use; Bytes is only valid until Close.
type Content interface {
	Bytes() []byte
	Close() error
}

// Reader lists and materializes a file's history.
type Reader interface {
	// ListCommits returns the commits touching the path within the reference
	// range, newest first. It returns ErrNoCommitsInRange when the set is
	// empty and ErrInvertedRange when the boundaries are reversed.
	ListCommits(ctx context.Context, opts ListOptions) ([]Commit, error)

	// Materialize retrieves the file content of a commit. Failures are
	// typed: ErrNotFound when the commit or path does not exist,
	// ErrToolInvocation otherwise.
	Materialize(ctx context.Context, commit Commit) (Content, error)

	// Timestamp returns a display string for the commit time, best-effort.
	Timestamp(ctx context.Context, hash string) (string, error)
}

// Timeline is an ordered, deduplicated sequence of commits touching one
// file, oldest first. It is constructed once per search and only indexed
// afterwards.
type Timeline struct {
	commits []Commit
}

// NewTimeline builds a timeline from a newest-first commit list, reversing it
// to oldest-first and dropping duplicate hashes (keeping the oldest position).
func NewTimeline(newestFirst []Commit) *Timeline {
	seen := make(map[string]struct{}, len(newestFirst))
	commits := make([]Commit, 0, len(newestFirst))

	for i := len(newestFirst) - 1; i >= 0; i-- {
		commit := newestFirst[i]
		if _, dup := seen[commit.Hash]; dup {
			continue
		}

		seen[commit.Hash] = struct{}{}
		commits = append(commits, commit)
	}

	return &Timeline{commits: commits}
}

// BuildTimeline lists the commits for opts and assembles the timeline.
func BuildTimeline(ctx context.Context, reader Reader, opts ListOptions) (*Timeline, error) {
	commits, err := reader.ListCommits(ctx, opts)
	if err != nil {
		return nil, err
	}

	if len(commits) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCommitsInRange, opts.Path)
	}

	return NewTimeline(commits), nil
}

// Len returns the number of commits.
func (t *Timeline) Len() int {
	return len(t.commits)
}

// At returns the commit at index i, oldest first.
func (t *Timeline) At(i int) Commit {
	return t.commits[i]
}

// Last returns the newest commit.
func (t *Timeline) Last() Commit {
	return t.commits[len(t.commits)-1]
}
