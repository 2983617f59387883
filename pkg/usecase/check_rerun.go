package usecase

import (
	"context"
	"slices"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/issuecheck/pkg/domain/interfaces"
	"github.com/m-mizutani/issuecheck/pkg/domain/model"
	"github.com/m-mizutani/issuecheck/pkg/utils/logging"
)

type checkRerunUseCase struct {
	githubClient interfaces.GitHubClient
}

// NewCheckRerun creates a new instance of CheckRerunUseCase
func NewCheckRerun(githubClient interfaces.GitHubClient) interfaces.CheckRerunUseCase {
	return &checkRerunUseCase{
		githubClient: githubClient,
	}
}

// FindLatestRun selects the most recently started run of checkName on sha.
// Runs with equal start times keep their response order, so the later one in the response wins.
func (uc *checkRerunUseCase) FindLatestRun(ctx context.Context, repo model.Repository, sha, checkName string) (*model.CheckRunLookup, error) {
	logger := logging.From(ctx)

	runs, err := uc.githubClient.ListCheckRuns(ctx, repo, sha, checkName)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to look up check runs",
			goerr.V("repo", repo.FullName()),
			goerr.V("sha", sha),
		)
	}

	matched := make([]*model.CheckRun, 0, len(runs))
	for _, run := range runs {
		if run.Name == checkName {
			matched = append(matched, run)
		}
	}

	lookup := &model.CheckRunLookup{CheckName: checkName}
	if len(matched) == 0 {
		logger.Debug("No check run matched", "check_name", checkName, "listed", len(runs))
		return lookup, nil
	}

	slices.SortStableFunc(matched, func(a, b *model.CheckRun) int {
		return a.StartedAt.Compare(b.StartedAt)
	})
	lookup.Run = matched[len(matched)-1]

	logger.Debug("Selected latest check run",
		"check_name", checkName,
		"run_id", lookup.Run.ID,
		"suite_id", lookup.Run.SuiteID,
		"started_at", lookup.Run.StartedAt,
		"candidates", len(matched),
	)
	return lookup, nil
}

// Rerequest asks the forge to re-run the check suite. The rerun itself is not verified.
func (uc *checkRerunUseCase) Rerequest(ctx context.Context, repo model.Repository, suiteID int64) (int, error) {
	logger := logging.From(ctx)

	logger.Info("Re-requesting check suite",
		"repo", repo.FullName(),
		"suite_id", suiteID,
	)

	status, err := uc.githubClient.RerequestCheckSuite(ctx, repo, suiteID)
	if err != nil {
		return status, goerr.Wrap(err, "failed to re-request check suite",
			goerr.V("repo", repo.FullName()),
			goerr.V("suite_id", suiteID),
		)
	}

	logger.Info("Check suite re-requested", "suite_id", suiteID, "status", status)
	return status, nil
}
