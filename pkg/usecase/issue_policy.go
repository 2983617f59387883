package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/issuecheck/pkg/domain/interfaces"
	"github.com/m-mizutani/issuecheck/pkg/domain/model"
	"github.com/m-mizutani/issuecheck/pkg/domain/types"
	"github.com/m-mizutani/issuecheck/pkg/utils/issueref"
	"github.com/m-mizutani/issuecheck/pkg/utils/logging"
)

// ErrIncompleteRange is returned when the commit walk ended before reaching the head commit
var ErrIncompleteRange = goerr.New("commit range was not fully traversed")

type issuePolicyUseCase struct {
	walker        interfaces.CommitWalker
	skipLabel     string
	budgetPadding int
}

// IssuePolicyOption is a functional option for the issue policy
type IssuePolicyOption func(*issuePolicyUseCase)

// WithSkipLabel sets the label exempting a pull request from the policy
func WithSkipLabel(label string) IssuePolicyOption {
	return func(uc *issuePolicyUseCase) {
		uc.skipLabel = label
	}
}

// WithBudgetPadding sets the number of extra commits visited on top of the pull request commit count
func WithBudgetPadding(padding int) IssuePolicyOption {
	return func(uc *issuePolicyUseCase) {
		uc.budgetPadding = padding
	}
}

// NewIssuePolicy creates a new instance of IssuePolicyUseCase
func NewIssuePolicy(walker interfaces.CommitWalker, opts ...IssuePolicyOption) interfaces.IssuePolicyUseCase {
	uc := &issuePolicyUseCase{
		walker:        walker,
		skipLabel:     types.DefaultSkipLabel,
		budgetPadding: types.DefaultBudgetPadding,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Evaluate computes the issue number of the change
func (uc *issuePolicyUseCase) Evaluate(ctx context.Context, event *model.ChangeEvent) (*model.PolicyDecision, error) {
	logger := logging.From(ctx)

	switch {
	case event.PullRequest != nil:
		if event.PullRequest.HasLabel(uc.skipLabel) {
			logger.Info("Pull request is exempted by label", "label", uc.skipLabel)
			return model.NewSkippedDecision(), nil
		}
		return uc.evaluateRange(ctx, event.PullRequest)

	case event.Push != nil:
		return uc.evaluateCommits(ctx, event.Push.Commits), nil

	default:
		return nil, goerr.New("event has neither push nor pull request data")
	}
}

// evaluateCommits checks commits in the given order. The last commit's first reference wins.
func (uc *issuePolicyUseCase) evaluateCommits(ctx context.Context, commits []model.Commit) *model.PolicyDecision {
	logger := logging.From(ctx)

	last := 0
	for _, commit := range commits {
		n, ok := issueref.First(commit.Message)
		if !ok {
			logger.Debug("Commit has no issue reference", "commit", commit.ID)
			return model.NewRejectedDecision(commit.ID)
		}
		last = n
	}

	logger.Debug("Evaluated pushed commits", "count", len(commits), "issue_number", last)
	return model.NewIssueNumberDecision(last)
}

// evaluateRange walks (base, head] of the pull request. The head commit's first reference wins.
func (uc *issuePolicyUseCase) evaluateRange(ctx context.Context, pr *model.PullRequestEvent) (*model.PolicyDecision, error) {
	logger := logging.From(ctx)

	budget := pr.CommitCount + uc.budgetPadding
	logger.Debug("Walking pull request commits",
		"base", pr.BaseSHA,
		"head", pr.HeadSHA,
		"commits", pr.CommitCount,
		"max_entries", budget,
	)

	var (
		last    int
		visited int
		lastID  string
	)
	for commit, err := range uc.walker.Walk(ctx, pr.BaseSHA, pr.HeadSHA, budget) {
		if err != nil {
			return nil, goerr.Wrap(err, "failed to walk pull request commits",
				goerr.V("base", pr.BaseSHA),
				goerr.V("head", pr.HeadSHA),
			)
		}

		numbers := issueref.All(commit.Message)
		if len(numbers) == 0 {
			logger.Debug("Commit has no issue reference", "commit", commit.ID)
			return model.NewRejectedDecision(commit.ID), nil
		}

		last = numbers[0]
		lastID = commit.ID
		visited++
	}

	if lastID != pr.HeadSHA {
		return nil, goerr.Wrap(ErrIncompleteRange, "head commit was not reached within the traversal budget",
			goerr.V("base", pr.BaseSHA),
			goerr.V("head", pr.HeadSHA),
			goerr.V("max_entries", budget),
			goerr.V("visited", visited),
			goerr.V("last_commit", lastID),
		)
	}

	return model.NewIssueNumberDecision(last), nil
}
