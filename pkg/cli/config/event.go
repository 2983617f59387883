package config

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/issuecheck/pkg/domain/model"
	"github.com/m-mizutani/issuecheck/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Event holds where the triggering event is read from and where the result goes
type Event struct {
	Path       string
	OutputFile string
	Repository string
}

// Flags returns CLI flags for event configuration
func (c *Event) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "event-path",
			Usage:       "Path to the event description JSON",
			Value:       types.DefaultEventPath,
			Destination: &c.Path,
			Sources:     cli.EnvVars("ISSUECHECK_EVENT_PATH", "GITHUB_EVENT_PATH"),
		},
		&cli.StringFlag{
			Name:        "output-file",
			Usage:       "File the output line is appended to (stdout when empty)",
			Destination: &c.OutputFile,
			Sources:     cli.EnvVars("ISSUECHECK_OUTPUT_FILE", "GITHUB_OUTPUT"),
		},
		&cli.StringFlag{
			Name:        "repository",
			Usage:       "Target repository as owner/name, overriding the event",
			Destination: &c.Repository,
			Sources:     cli.EnvVars("ISSUECHECK_REPOSITORY", "GITHUB_REPOSITORY"),
		},
	}
}

// ResolveRepository returns the configured repository override, or fallback when none is set
func (c *Event) ResolveRepository(fallback model.Repository) (model.Repository, error) {
	if c.Repository == "" {
		if !fallback.IsValid() {
			return model.Repository{}, goerr.New("repository is not found in the event, set --repository")
		}
		return fallback, nil
	}

	owner, name, ok := strings.Cut(c.Repository, "/")
	repo := model.Repository{Owner: owner, Name: name}
	if !ok || !repo.IsValid() || strings.Contains(name, "/") {
		return model.Repository{}, goerr.New("repository must be owner/name", goerr.V("repository", c.Repository))
	}
	return repo, nil
}
