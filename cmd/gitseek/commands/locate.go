package commands

import (
	"errors"
	"fmt"
	"path"

	git2go "github.com/libgit2/git2go/v34"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/gitseek/pkg/gitlib"
)

// ErrFileNotInHistory indicates no commit in the walked range carries the file.
var ErrFileNotInHistory = errors.New("file not found in history")

// LocateCommand holds configuration for the locate command.
type LocateCommand struct {
	repoPath string
	ref      string
	limit    int
}

// NewLocateCommand creates the locate command.
func NewLocateCommand() *cobra.Command {
	lc := &LocateCommand{}

	cmd := &cobra.Command{
		Use:   "locate <filename>",
		Short: "Find where a file lives in the repository history",
		Long: `Locate walks the first-parent history from a ref and reports the newest
commit whose tree contains a file with the given base name, together with
the full path it is stored under. Useful for finding the path argument to
search when a file has moved or been deleted.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return lc.run(cobraCmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&lc.repoPath, "repo", "r", ".", "path to the git repository")
	cmd.Flags().StringVar(&lc.ref, "ref", "", "ref to start walking from (default: HEAD)")
	cmd.Flags().IntVar(&lc.limit, "limit", 0, "maximum number of commits to inspect (0 = unlimited)")

	return cmd
}

func (lc *LocateCommand) run(cmd *cobra.Command, name string) error {
	repo, err := gitlib.OpenRepository(lc.repoPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRepositoryOpen, err)
	}
	defer repo.Free()

	start, err := lc.startHash(repo)
	if err != nil {
		return err
	}

	hit, err := lc.findNewestCarrier(cmd, repo, start, name)
	if err != nil {
		return err
	}

	if !hit {
		return fmt.Errorf("%w: %q", ErrFileNotInHistory, name)
	}

	return nil
}

func (lc *LocateCommand) startHash(repo *gitlib.Repository) (gitlib.Hash, error) {
	if lc.ref == "" {
		return repo.Head()
	}

	return repo.ResolveRef(lc.ref)
}

// findNewestCarrier walks newest first and prints the matching paths of the
// first commit that carries the file.
func (lc *LocateCommand) findNewestCarrier(
	cmd *cobra.Command,
	repo *gitlib.Repository,
	start gitlib.Hash,
	name string,
) (bool, error) {
	walk, err := repo.Walk()
	if err != nil {
		return false, err
	}
	defer walk.Free()

	walk.Sorting(git2go.SortTime | git2go.SortTopological)
	walk.SimplifyFirstParent()

	err = walk.Push(start)
	if err != nil {
		return false, err
	}

	var (
		found   bool
		scanned int
		walkErr error
	)

	iterErr := walk.Iterate(func(commit *gitlib.Commit) bool {
		defer commit.Free()

		if lc.limit > 0 && scanned >= lc.limit {
			return false
		}

		scanned++

		matches, matchErr := matchingPaths(commit, name)
		if matchErr != nil {
			walkErr = matchErr

			return false
		}

		if len(matches) == 0 {
			return true
		}

		found = true

		fmt.Fprintf(cmd.OutOrStdout(), "commit %s\n", commit.Hash().Short())

		for _, match := range matches {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", match)
		}

		return false
	})
	if iterErr != nil {
		return false, iterErr
	}

	if walkErr != nil {
		return false, walkErr
	}

	return found, nil
}

// matchingPaths returns the blob paths in the commit's tree whose base name
// equals name.
func matchingPaths(commit *gitlib.Commit, name string) ([]string, error) {
	tree, err := commit.Tree()
	if err != nil {
		return nil, err
	}
	defer tree.Free()

	paths, err := tree.BlobPaths()
	if err != nil {
		return nil, err
	}

	var matches []string

	for _, blobPath := range paths {
		if path.Base(blobPath) == name {
			matches = append(matches, blobPath)
		}
	}

	return matches, nil
}
