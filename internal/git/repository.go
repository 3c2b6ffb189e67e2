package git

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repository reads branches straight from the object store without running git.
type Repository struct {
	repo   *gogit.Repository
	logger *slog.Logger
}

// OpenRepository opens the repository containing path.
func OpenRepository(path string, logger *slog.Logger) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	repo, err := gogit.PlainOpenWithOptions(absPath, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}
	return NewRepository(repo, logger), nil
}

func NewRepository(repo *gogit.Repository, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{repo: repo, logger: logger}
}

func (r *Repository) LoadBranches() ([]*Branch, error) {
	cfg, err := r.repo.Config()
	if err != nil {
		return nil, fmt.Errorf("failed to read repository config: %w", err)
	}

	refs, err := r.repo.References()
	if err != nil {
		return nil, fmt.Errorf("failed to list references: %w", err)
	}

	var branches []*Branch
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}

		var (
			name     string
			kind     BranchKind
			upstream string
		)
		switch refName := ref.Name(); {
		case refName.IsBranch():
			name = refName.Short()
			kind = Local
			upstream = upstreamOf(cfg, name)
		case refName.IsRemote():
			name = strings.TrimPrefix(refName.String(), remoteRefPrefix)
			kind = Remote
		default:
			return nil
		}

		tip, err := r.commit(ref.Hash())
		if err != nil {
			return fmt.Errorf("failed to resolve tip of %s: %w", name, err)
		}
		branches = append(branches, NewBranch(name, upstream, tip, kind))
		return nil
	})
	if err != nil {
		return nil, err
	}

	SortBranches(branches)
	r.logger.Debug("loaded branches from object store", "count", len(branches))
	return branches, nil
}

func (r *Repository) commit(hash plumbing.Hash) (*Commit, error) {
	c, err := r.repo.CommitObject(hash)
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		// tag or missing object: keep the hash only
		return &Commit{SHA: hash.String()}, nil
	}
	if err != nil {
		return nil, err
	}
	return commitFromObject(c), nil
}

func commitFromObject(c *object.Commit) *Commit {
	summary, _, _ := strings.Cut(c.Message, "\n")
	return &Commit{
		SHA:         c.Hash.String(),
		Summary:     strings.TrimSpace(summary),
		AuthorName:  c.Author.Name,
		AuthorEmail: c.Author.Email,
		AuthoredAt:  c.Author.When,
	}
}

// upstreamOf mirrors %(upstream:short): the merge ref mapped through the
// remote's fetch refspecs, or just the branch when it tracks the local
// repository. A remote without a config section or without a matching
// refspec yields no upstream.
func upstreamOf(cfg *config.Config, branchName string) string {
	bc, ok := cfg.Branches[branchName]
	if !ok || bc.Merge == "" {
		return ""
	}
	switch bc.Remote {
	case "":
		return ""
	case ".":
		return bc.Merge.Short()
	}

	remote, ok := cfg.Remotes[bc.Remote]
	if !ok {
		return ""
	}
	for _, rs := range remote.Fetch {
		if rs.Match(bc.Merge) {
			return rs.Dst(bc.Merge).Short()
		}
	}
	return ""
}
