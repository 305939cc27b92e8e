package gitlib

import (
	"fmt"
	"path"

	git2go "github.com/libgit2/git2go/v34"
)

// Tree wraps a libgit2 tree.
type Tree struct {
	tree *git2go.Tree
	repo *Repository
}

// BlobByPath returns the blob hash of the entry at path, or ok=false when the
// path does not exist in the tree or is not a blob.
func (t *Tree) BlobByPath(entryPath string) (Hash, bool) {
	entry, err := t.tree.EntryByPath(entryPath)
	if err != nil || entry == nil || entry.Type != git2go.ObjectBlob {
		return Hash{}, false
	}

	return HashFromOid(entry.Id), true
}

// BlobPaths returns the paths of all blobs in the tree, in tree order.
func (t *Tree) BlobPaths() ([]string, error) {
	paths := make([]string, 0)

	err := walkBlobs(t.repo, t.tree, "", func(p string) {
		paths = append(paths, p)
	})
	if err != nil {
		return nil, err
	}

	return paths, nil
}

// Free releases the tree resources.
func (t *Tree) Free() {
	if t.tree != nil {
		t.tree.Free()
		t.tree = nil
	}
}

// walkBlobs visits every blob under tree, prefixing entry names with dir.
func walkBlobs(repo *Repository, tree *git2go.Tree, dir string, visit func(string)) error {
	count := tree.EntryCount()

	for i := uint64(0); i < count; i++ {
		entry := tree.EntryByIndex(i)
		if entry == nil {
			continue
		}

		entryPath := path.Join(dir, entry.Name)

		switch entry.Type {
		case git2go.ObjectBlob:
			visit(entryPath)
		case git2go.ObjectTree:
			sub, err := repo.repo.LookupTree(entry.Id)
			if err != nil {
				return fmt.Errorf("lookup subtree %s: %w", entryPath, err)
			}

			walkErr := walkBlobs(repo, sub, entryPath, visit)

			sub.Free()

			if walkErr != nil {
				return walkErr
			}
		default:
			// Submodules and other entry types are not file content.
		}
	}

	return nil
}
