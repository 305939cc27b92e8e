package gitlib

import (
	"context"
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// FileLogEntry is one commit that changes the tracked path.
type FileLogEntry struct {
	Hash Hash
	// Path of the tracked file as of this commit. Differs from the requested
	// path in older commits when rename follow is enabled.
	Path string
}

// FileLogOptions configures a file history walk.
type FileLogOptions struct {
	Path     string
	Latest   Hash // zero means HEAD
	Earliest Hash // zero means walk to the root commit
	Follow   bool // track the file across renames
}

// FileLog walks first-parent history from Latest and returns the commits in
// which the blob at the tracked path differs from the parent's, newest first.
// A commit equal to Earliest terminates the walk after being considered, and
// the second return reports whether Earliest was reached (false with a
// non-zero Earliest means the range boundaries do not share ancestry).
func (r *Repository) FileLog(ctx context.Context, opts FileLogOptions) ([]FileLogEntry, bool, error) {
	start := opts.Latest
	if start.IsZero() {
		head, err := r.Head()
		if err != nil {
			return nil, false, err
		}

		start = head
	}

	walk, err := r.Walk()
	if err != nil {
		return nil, false, err
	}
	defer walk.Free()

	// First-parent keeps the walk linear so the timeline has a single
	// chronological spine even across merges.
	walk.Sorting(git2go.SortTime | git2go.SortTopological)
	walk.SimplifyFirstParent()

	err = walk.Push(start)
	if err != nil {
		return nil, false, err
	}

	var (
		entries  []FileLogEntry
		reached  bool
		walkErr  error
		curPath  = opts.Path
		earliest = opts.Earliest
	)

	iterErr := walk.Iterate(func(commit *Commit) bool {
		defer commit.Free()

		if ctxErr := ctx.Err(); ctxErr != nil {
			walkErr = ctxErr

			return false
		}

		entry, renamedFrom, stepErr := r.fileLogStep(commit, curPath, opts.Follow)
		if stepErr != nil {
			walkErr = stepErr

			return false
		}

		if entry != nil {
			entries = append(entries, *entry)
		}

		if renamedFrom != "" {
			curPath = renamedFrom
		}

		if !earliest.IsZero() && commit.Hash() == earliest {
			reached = true

			return false
		}

		return true
	})

	if walkErr != nil {
		return nil, false, walkErr
	}

	if iterErr != nil {
		return nil, false, iterErr
	}

	return entries, reached, nil
}

// fileLogStep decides whether a single commit belongs in the file log. It
// returns a non-nil entry when the blob at path differs from the first
// parent's, and the pre-rename path when follow is set and this commit
// introduced the file by renaming another one.
func (r *Repository) fileLogStep(commit *Commit, path string, follow bool) (*FileLogEntry, string, error) {
	tree, err := commit.Tree()
	if err != nil {
		return nil, "", err
	}
	defer tree.Free()

	blobHash, present := tree.BlobByPath(path)

	var (
		parentTree *Tree
		parentHash Hash
		parentHas  bool
	)

	if commit.NumParents() > 0 {
		parent, parentErr := r.LookupCommit(commit.ParentHash(0))
		if parentErr != nil {
			return nil, "", parentErr
		}
		defer parent.Free()

		parentTree, parentErr = parent.Tree()
		if parentErr != nil {
			return nil, "", parentErr
		}
		defer parentTree.Free()

		parentHash, parentHas = parentTree.BlobByPath(path)
	}

	if present == parentHas && blobHash == parentHash {
		return nil, "", nil
	}

	entry := &FileLogEntry{Hash: commit.Hash(), Path: path}

	// The file appeared in this commit. Under follow, check whether it
	// arrived via rename so older commits track the previous path.
	if follow && present && !parentHas && parentTree != nil {
		from, findErr := r.renameSource(parentTree, tree, path)
		if findErr != nil {
			return nil, "", findErr
		}

		return entry, from, nil
	}

	return entry, "", nil
}

// renameSource returns the old path when the diff parent->child reports that
// newPath was created by renaming, or "" when it was a plain addition.
func (r *Repository) renameSource(parentTree, tree *Tree, newPath string) (string, error) {
	diffOpts, err := git2go.DefaultDiffOptions()
	if err != nil {
		return "", fmt.Errorf("get diff options: %w", err)
	}

	diff, err := r.repo.DiffTreeToTree(parentTree.tree, tree.tree, &diffOpts)
	if err != nil {
		return "", fmt.Errorf("diff trees: %w", err)
	}
	defer func() { _ = diff.Free() }()

	findOpts, err := git2go.DefaultDiffFindOptions()
	if err != nil {
		return "", fmt.Errorf("get find options: %w", err)
	}

	findOpts.Flags = git2go.DiffFindRenames

	err = diff.FindSimilar(&findOpts)
	if err != nil {
		return "", fmt.Errorf("detect renames: %w", err)
	}

	numDeltas, err := diff.NumDeltas()
	if err != nil {
		return "", fmt.Errorf("get num deltas: %w", err)
	}

	for i := range numDeltas {
		delta, deltaErr := diff.Delta(i)
		if deltaErr != nil {
			continue
		}

		if delta.Status == git2go.DeltaRenamed && delta.NewFile.Path == newPath {
			return delta.OldFile.Path, nil
		}
	}

	return "", nil
}
