package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/m-mizutani/issuecheck/pkg/cli/config"
	"github.com/m-mizutani/issuecheck/pkg/domain/types"
	"github.com/m-mizutani/issuecheck/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	var (
		loggerCfg config.Logger
		sentryCfg config.Sentry
		logger    *slog.Logger
	)

	flags := append(loggerCfg.Flags(), sentryCfg.Flags()...)

	app := &cli.Command{
		Name:    "issuecheck",
		Usage:   "CI helper enforcing issue references in commits and re-running checks",
		Version: types.Version,
		Flags:   flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}
			logger = logger.With(slog.String("run_id", uuid.NewString()))

			if err := sentryCfg.Configure(); err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			ctx = logging.With(ctx, logger)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdCheck(),
			cmdRerun(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("CLI execution failed", slog.Any("error", err))
		if isReportable(err) {
			sentryCfg.Report(err)
		}
		return err
	}

	return nil
}

// isReportable reports whether err is a fault worth sending to Sentry. A policy
// rejection is the expected outcome for a bad commit.
func isReportable(err error) bool {
	return err != nil && !errors.Is(err, ErrIssueReferenceMissing)
}
