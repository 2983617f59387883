package github

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/m-mizutani/issuecheck/pkg/domain/model"
)

// Reporter prints human-facing diagnostics, typically to stderr
type Reporter struct {
	w     io.Writer
	color bool
}

// NewReporter creates a Reporter writing to w. Colors follow color.NoColor.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w, color: !color.NoColor}
}

// Rejected prints the missing reference diagnostic and an Actions error annotation
func (r *Reporter) Rejected(decision *model.PolicyDecision) {
	msg := fmt.Sprintf("No issue number given in the commit message for commit %s", decision.CommitID)

	c := color.New(color.FgRed, color.Bold)
	if !r.color {
		c.DisableColor()
	}
	c.Fprintln(r.w, msg)
	fmt.Fprintf(r.w, "::error::%s\n", msg)
}

// CheckRunNotFound prints the advisory shown when there is nothing to re-run
func (r *Reporter) CheckRunNotFound(lookup *model.CheckRunLookup) {
	c := color.New(color.FgYellow)
	if !r.color {
		c.DisableColor()
	}
	c.Fprintf(r.w, "No previous run of %s found\n", lookup.CheckName)
}
