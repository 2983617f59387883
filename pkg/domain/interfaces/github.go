package interfaces

import (
	"context"

	"github.com/m-mizutani/issuecheck/pkg/domain/model"
)

// GitHubClient defines operations for interacting with the GitHub checks API
type GitHubClient interface {
	// ListCheckRuns returns the check runs named checkName attached to ref, in response order
	ListCheckRuns(ctx context.Context, repo model.Repository, ref, checkName string) ([]*model.CheckRun, error)

	// RerequestCheckSuite asks GitHub to re-run a check suite and returns the response status code
	RerequestCheckSuite(ctx context.Context, repo model.Repository, suiteID int64) (int, error)
}
