package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/issuecheck/pkg/domain/types"
	"github.com/m-mizutani/issuecheck/pkg/usecase"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Policy holds issue reference policy configuration
type Policy struct {
	RepoPath      string
	SkipLabel     string
	BudgetPadding int
	File          string
}

// policyFile is the TOML schema of --policy-file
type policyFile struct {
	SkipLabel     *string `toml:"skip_label"`
	BudgetPadding *int    `toml:"budget_padding"`
}

// Flags returns CLI flags for policy configuration
func (c *Policy) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repo-path",
			Usage:       "Path of the local clone used to walk pull request commits",
			Value:       ".",
			Destination: &c.RepoPath,
			Sources:     cli.EnvVars("ISSUECHECK_REPO_PATH"),
		},
		&cli.StringFlag{
			Name:        "skip-label",
			Usage:       "Pull request label (case-insensitive) that skips the check",
			Value:       types.DefaultSkipLabel,
			Destination: &c.SkipLabel,
			Sources:     cli.EnvVars("ISSUECHECK_SKIP_LABEL"),
		},
		&cli.IntFlag{
			Name:        "budget-padding",
			Usage:       "Extra commits visited beyond the pull request commit count",
			Value:       types.DefaultBudgetPadding,
			Destination: &c.BudgetPadding,
			Sources:     cli.EnvVars("ISSUECHECK_BUDGET_PADDING"),
		},
		&cli.StringFlag{
			Name:        "policy-file",
			Usage:       "TOML file with skip_label and budget_padding",
			Destination: &c.File,
			Sources:     cli.EnvVars("ISSUECHECK_POLICY_FILE"),
		},
	}
}

// Load applies values from the policy file. isSet reports flags given explicitly,
// which take precedence over the file.
func (c *Policy) Load(isSet func(name string) bool) error {
	if c.File == "" {
		return nil
	}

	data, err := os.ReadFile(c.File)
	if err != nil {
		return goerr.Wrap(err, "failed to read policy file", goerr.V("path", c.File))
	}

	var file policyFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return goerr.Wrap(err, "failed to parse policy file", goerr.V("path", c.File))
	}

	if file.SkipLabel != nil && !isSet("skip-label") {
		c.SkipLabel = *file.SkipLabel
	}
	if file.BudgetPadding != nil && !isSet("budget-padding") {
		c.BudgetPadding = *file.BudgetPadding
	}
	return nil
}

// Validate checks the policy values
func (c *Policy) Validate() error {
	if c.SkipLabel == "" {
		return goerr.New("skip label must not be empty")
	}
	if c.BudgetPadding < 0 {
		return goerr.New("budget padding must not be negative", goerr.V("budget_padding", c.BudgetPadding))
	}
	return nil
}

// Options converts the policy into use case options
func (c *Policy) Options() []usecase.IssuePolicyOption {
	return []usecase.IssuePolicyOption{
		usecase.WithSkipLabel(c.SkipLabel),
		usecase.WithBudgetPadding(c.BudgetPadding),
	}
}
