package gitlib

import (
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// File is a blob reachable from a tree.
type File struct {
	Path string
	Hash Hash
	Size int64
}

func (r *Repository) walkTree(tree *git2go.Tree, prefix string, cb func(File)) error {
	count := tree.EntryCount()

	for i := range count {
		entry := tree.EntryByIndex(i)
		if entry == nil {
			continue
		}

		path := entry.Name
		if prefix != "" {
			path = prefix + "/" + path
		}

		switch entry.Type {
		case git2go.ObjectBlob:
			if entry.Filemode == git2go.FilemodeLink || entry.Filemode == git2go.FilemodeCommit {
				continue
			}

			cb(File{Path: path, Hash: HashFromOid(entry.Id), Size: r.blobSize(entry.Id)})
		case git2go.ObjectTree:
			subtree, err := r.repo.LookupTree(entry.Id)
			if err != nil {
				return fmt.Errorf("lookup tree %s: %w", path, err)
			}

			err = r.walkTree(subtree, path, cb)
			subtree.Free()

			if err != nil {
				return err
			}
		default:
		}
	}

	return nil
}

func (r *Repository) blobSize(oid *git2go.Oid) int64 {
	odb, err := r.repo.Odb()
	if err != nil {
		return 0
	}
	defer odb.Free()

	size, _, err := odb.ReadHeader(oid)
	if err != nil {
		return 0
	}

	return int64(size)
}
