package types

const (
	// OutputKeyIssueNumber is the key of the single output line written by the check command
	OutputKeyIssueNumber = "issuenumber"

	// SkippedByLabel is the output value used when the pull request carries the skip label
	SkippedByLabel = "skipped by label"

	// DefaultSkipLabel is the label name (compared case-insensitively) that exempts a pull request
	DefaultSkipLabel = "skip issue"

	// DefaultBudgetPadding is added to the pull request commit count to absorb merge commits
	DefaultBudgetPadding = 2

	// DefaultEventPath is where the runner mounts the triggering event description
	DefaultEventPath = "/github/workflow/event.json"
)
