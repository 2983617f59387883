package github

import (
	"fmt"
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/issuecheck/pkg/domain/model"
	"github.com/m-mizutani/issuecheck/pkg/domain/types"
)

// WriteDecision writes the single "issuenumber=<value>" line for a decided or skipped outcome
func WriteDecision(w io.Writer, decision *model.PolicyDecision) error {
	if decision.IsRejected() {
		return goerr.New("rejected decision has no output", goerr.V("commit", decision.CommitID))
	}

	if _, err := fmt.Fprintf(w, "%s=%s\n", types.OutputKeyIssueNumber, decision.OutputValue()); err != nil {
		return goerr.Wrap(err, "failed to write output")
	}
	return nil
}

// WriteDecisionToFile appends the output line to path, or writes it to stdout when path is empty
func WriteDecisionToFile(path string, decision *model.PolicyDecision) error {
	if path == "" {
		return WriteDecision(os.Stdout, decision)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return goerr.Wrap(err, "failed to open output file", goerr.V("path", path))
	}
	defer f.Close()

	if err := WriteDecision(f, decision); err != nil {
		return goerr.Wrap(err, "failed to write output file", goerr.V("path", path))
	}
	return nil
}
