package config

import (
	"github.com/urfave/cli/v3"
)

// Rerun holds the check to re-trigger
type Rerun struct {
	CheckName string
}

// Flags returns CLI flags for rerun configuration
func (c *Rerun) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "check-name",
			Usage:       "Name of the check run to re-trigger",
			Required:    true,
			Destination: &c.CheckName,
			Sources:     cli.EnvVars("INPUT_CHECK_TO_RERUN", "ISSUECHECK_CHECK_NAME"),
		},
	}
}
