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
	"github.com/m-mizutani/issuecheck/pkg/usecase"
	"github.com/m-mizutani/issuecheck/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdRerun() *cli.Command {
	var (
		eventCfg  config.Event
		githubCfg config.GitHub
		rerunCfg  config.Rerun
	)

	flags := append(eventCfg.Flags(), githubCfg.Flags()...)
	flags = append(flags, rerunCfg.Flags()...)

	return &cli.Command{
		Name:    "rerun",
		Aliases: []string{"r"},
		Usage:   "Re-trigger the latest run of a check on the event's head commit",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logging.From(ctx).Debug("GitHub configuration", slog.Any("github", githubCfg))

			event, err := githubcontroller.LoadEvent(ctx, eventCfg.Path)
			if err != nil {
				return err
			}

			repo, err := eventCfg.ResolveRepository(event.Repository)
			if err != nil {
				return err
			}

			client, err := githubCfg.NewClient()
			if err != nil {
				return goerr.Wrap(err, "failed to create GitHub client")
			}

			return runRerun(ctx, usecase.NewCheckRerun(client), repo, event, rerunCfg.CheckName, os.Stderr)
		},
	}
}

// runRerun locates the latest run of checkName on the event's head commit and re-requests its suite.
// A missing run is not an error.
func runRerun(ctx context.Context, rerunUC interfaces.CheckRerunUseCase, repo model.Repository, event *model.ChangeEvent, checkName string, stderr io.Writer) error {
	logger := logging.From(ctx)

	sha := event.HeadSHA()
	if sha == "" {
		return goerr.New("head commit is not found in the event")
	}

	lookup, err := rerunUC.FindLatestRun(ctx, repo, sha, checkName)
	if err != nil {
		return err
	}

	if !lookup.Found() {
		githubcontroller.NewReporter(stderr).CheckRunNotFound(lookup)
		logger.Warn("No previous check run found, skipping rerun",
			slog.String("check_name", checkName),
			slog.String("sha", sha),
		)
		return nil
	}

	status, err := rerunUC.Rerequest(ctx, repo, lookup.Run.SuiteID)
	if err != nil {
		return err
	}

	logger.Info("Rerun requested",
		slog.String("check_name", checkName),
		slog.Int64("suite_id", lookup.Run.SuiteID),
		slog.Int("status", status),
	)
	return nil
}
