package interfaces

import (
	"context"

	"github.com/m-mizutani/issuecheck/pkg/domain/model"
)

// IssuePolicyUseCase evaluates the issue reference policy for a change
type IssuePolicyUseCase interface {
	// Evaluate computes the decision for the event. A rejection is a decision, not an error.
	Evaluate(ctx context.Context, event *model.ChangeEvent) (*model.PolicyDecision, error)
}

// CheckRerunUseCase re-triggers a previously executed check
type CheckRerunUseCase interface {
	// FindLatestRun returns the most recently started run of checkName on sha
	FindLatestRun(ctx context.Context, repo model.Repository, sha, checkName string) (*model.CheckRunLookup, error)

	// Rerequest re-runs the check suite and returns the remote status code
	Rerequest(ctx context.Context, repo model.Repository, suiteID int64) (int, error)
}
