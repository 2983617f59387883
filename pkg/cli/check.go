package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/issuecheck/pkg/cli/config"
	githubcontroller "github.com/m-mizutani/issuecheck/pkg/controller/github"
	"github.com/m-mizutani/issuecheck/pkg/domain/interfaces"
	"github.com/m-mizutani/issuecheck/pkg/domain/model"
	gitinfra "github.com/m-mizutani/issuecheck/pkg/infra/git"
	"github.com/m-mizutani/issuecheck/pkg/usecase"
	"github.com/m-mizutani/issuecheck/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// ErrIssueReferenceMissing is returned when a commit lacks an issue reference
var ErrIssueReferenceMissing = goerr.New("issue reference is missing in commit message")

func cmdCheck() *cli.Command {
	var (
		eventCfg  config.Event
		policyCfg config.Policy
	)

	flags := append(eventCfg.Flags(), policyCfg.Flags()...)

	return &cli.Command{
		Name:    "check",
		Aliases: []string{"c"},
		Usage:   "Ensure every commit references an issue and output the issue number",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := policyCfg.Load(c.IsSet); err != nil {
				return err
			}
			if err := policyCfg.Validate(); err != nil {
				return err
			}

			event, err := githubcontroller.LoadEvent(ctx, eventCfg.Path)
			if err != nil {
				return err
			}

			policyUC := usecase.NewIssuePolicy(gitinfra.NewWalker(policyCfg.RepoPath), policyCfg.Options()...)
			return runCheck(ctx, policyUC, event, eventCfg.OutputFile, os.Stderr)
		},
	}
}

// runCheck evaluates the policy once and emits the result
func runCheck(ctx context.Context, policyUC interfaces.IssuePolicyUseCase, event *model.ChangeEvent, outputFile string, stderr io.Writer) error {
	logger := logging.From(ctx)

	logger.Info("Checking issue references",
		slog.String("repo", event.Repository.FullName()),
		slog.Bool("pull_request", event.IsPullRequest()),
	)

	decision, err := policyUC.Evaluate(ctx, event)
	if err != nil {
		return goerr.Wrap(err, "failed to evaluate issue reference policy")
	}

	if decision.IsRejected() {
		githubcontroller.NewReporter(stderr).Rejected(decision)
		return goerr.Wrap(ErrIssueReferenceMissing, "commit rejected", goerr.V("commit", decision.CommitID))
	}

	if err := githubcontroller.WriteDecisionToFile(outputFile, decision); err != nil {
		return err
	}

	logger.Info("Issue reference check passed",
		slog.String("decision", string(decision.Kind)),
		slog.String("issuenumber", decision.OutputValue()),
	)
	return nil
}
