package gitlib

import (
	"fmt"
	"time"

	git2go "github.com/libgit2/git2go/v34"
)

// Signature identifies the author of a commit.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

func signatureFrom(sig *git2go.Signature) Signature {
	if sig == nil {
		return Signature{}
	}

	return Signature{Name: sig.Name, Email: sig.Email, When: sig.When}
}

// Repository wraps a libgit2 repository.
type Repository struct {
	repo *git2go.Repository
	path string
}

// OpenRepository opens the git repository at path.
func OpenRepository(path string) (*Repository, error) {
	repo, err := git2go.OpenRepository(path)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	return &Repository{repo: repo, path: path}, nil
}

// Path returns the repository path.
func (r *Repository) Path() string {
	return r.path
}

// Free releases the repository resources.
func (r *Repository) Free() {
	if r.repo != nil {
		r.repo.Free()
		r.repo = nil
	}
}

// Head returns the commit HEAD points to.
func (r *Repository) Head() (Hash, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return Hash{}, fmt.Errorf("get HEAD: %w", err)
	}
	defer ref.Free()

	return HashFromOid(ref.Target()), nil
}

// Author returns the author signature of a commit.
func (r *Repository) Author(hash Hash) (Signature, error) {
	commit, err := r.repo.LookupCommit(hash.ToOid())
	if err != nil {
		return Signature{}, fmt.Errorf("lookup commit %s: %w", hash, err)
	}
	defer commit.Free()

	return signatureFrom(commit.Author()), nil
}

// Files lists the blobs of a commit's tree with their paths.
func (r *Repository) Files(hash Hash) ([]File, error) {
	commit, err := r.repo.LookupCommit(hash.ToOid())
	if err != nil {
		return nil, fmt.Errorf("lookup commit %s: %w", hash, err)
	}
	defer commit.Free()

	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("commit tree: %w", err)
	}
	defer tree.Free()

	var files []File

	err = r.walkTree(tree, "", func(f File) {
		files = append(files, f)
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// Contents returns the bytes of a blob.
func (r *Repository) Contents(hash Hash) ([]byte, error) {
	blob, err := r.repo.LookupBlob(hash.ToOid())
	if err != nil {
		return nil, fmt.Errorf("lookup blob %s: %w", hash, err)
	}
	defer blob.Free()

	data := blob.Contents()
	out := make([]byte, len(data))
	copy(out, data)

	return out, nil
}
