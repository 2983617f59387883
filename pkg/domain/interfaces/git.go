package interfaces

import (
	"context"
	"iter"

	"github.com/m-mizutani/issuecheck/pkg/domain/model"
)

// CommitWalker enumerates repository history
type CommitWalker interface {
	// Walk yields commits in (baseSHA, headSHA], oldest first, visiting at most
	// maxEntries commits of the first-parent history of headSHA. Traversal ends
	// silently when the budget runs out before headSHA is reached.
	Walk(ctx context.Context, baseSHA, headSHA string, maxEntries int) iter.Seq2[*model.Commit, error]
}
