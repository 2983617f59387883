package git

import (
	"context"
	"iter"
	"slices"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/issuecheck/pkg/domain/interfaces"
	"github.com/m-mizutani/issuecheck/pkg/domain/model"
	"github.com/m-mizutani/issuecheck/pkg/utils/logging"
)

// Walker walks the first-parent history of a local repository
type Walker struct {
	path string
	repo *git.Repository
}

var _ interfaces.CommitWalker = (*Walker)(nil)

// NewWalker creates a Walker for the repository at path. The repository is opened on first use.
func NewWalker(path string) *Walker {
	return &Walker{path: path}
}

// NewWalkerFromRepository creates a Walker for an already opened repository
func NewWalkerFromRepository(repo *git.Repository) *Walker {
	return &Walker{repo: repo}
}

func (w *Walker) open() (*git.Repository, error) {
	if w.repo != nil {
		return w.repo, nil
	}

	repo, err := git.PlainOpenWithOptions(w.path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open git repository", goerr.V("path", w.path))
	}
	w.repo = repo
	return repo, nil
}

// Walk yields commits after baseSHA up to and including headSHA, oldest first.
//
// At most maxEntries commits of the first-parent chain ending at headSHA are
// visited. Commits are skipped until baseSHA is seen (baseSHA itself is skipped
// too); every later commit is yielded and the walk stops right after headSHA.
// If baseSHA is not within the budget nothing is yielded and no error is raised.
func (w *Walker) Walk(ctx context.Context, baseSHA, headSHA string, maxEntries int) iter.Seq2[*model.Commit, error] {
	return func(yield func(*model.Commit, error) bool) {
		window, err := w.window(headSHA, maxEntries)
		if err != nil {
			yield(nil, err)
			return
		}

		pastBase := false
		for _, c := range window {
			id := c.Hash.String()
			if !pastBase {
				if id == baseSHA {
					pastBase = true
				}
				continue
			}

			if !yield(&model.Commit{ID: id, Message: c.Message}, nil) {
				return
			}
			if id == headSHA {
				return
			}
		}

		logging.From(ctx).Debug("commit walk ended without reaching head",
			"base", baseSHA,
			"head", headSHA,
			"max_entries", maxEntries,
			"visited", len(window),
			"past_base", pastBase,
		)
	}
}

// maxPrealloc bounds the initial window capacity; maxEntries comes from the event.
const maxPrealloc = 256

// window returns up to maxEntries commits of the first-parent chain of headSHA, oldest first
func (w *Walker) window(headSHA string, maxEntries int) ([]*object.Commit, error) {
	if maxEntries <= 0 {
		return nil, nil
	}

	repo, err := w.open()
	if err != nil {
		return nil, err
	}

	commit, err := repo.CommitObject(plumbing.NewHash(headSHA))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read head commit", goerr.V("head", headSHA))
	}

	window := make([]*object.Commit, 0, min(maxEntries, maxPrealloc))
	for len(window) < maxEntries {
		window = append(window, commit)
		if commit.NumParents() == 0 {
			break
		}

		parent, err := commit.Parent(0)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read parent commit", goerr.V("commit", commit.Hash.String()))
		}
		commit = parent
	}

	slices.Reverse(window)
	return window, nil
}
