package model

import (
	"strconv"

	"github.com/m-mizutani/issuecheck/pkg/domain/types"
)

// DecisionKind is the terminal state of a policy evaluation
type DecisionKind string

const (
	DecisionIssueNumber DecisionKind = "issue_number"
	DecisionSkipped     DecisionKind = "skipped"
	DecisionRejected    DecisionKind = "rejected"
)

// PolicyDecision is the outcome of the issue reference policy
type PolicyDecision struct {
	Kind        DecisionKind
	IssueNumber int    // set when Kind is DecisionIssueNumber
	CommitID    string // offending commit when Kind is DecisionRejected
}

// NewIssueNumberDecision creates a decided outcome
func NewIssueNumberDecision(number int) *PolicyDecision {
	return &PolicyDecision{Kind: DecisionIssueNumber, IssueNumber: number}
}

// NewSkippedDecision creates an outcome for an exempted pull request
func NewSkippedDecision() *PolicyDecision {
	return &PolicyDecision{Kind: DecisionSkipped}
}

// NewRejectedDecision creates an outcome for a commit without an issue reference
func NewRejectedDecision(commitID string) *PolicyDecision {
	return &PolicyDecision{Kind: DecisionRejected, CommitID: commitID}
}

// IsRejected reports whether the policy rejected the change
func (d *PolicyDecision) IsRejected() bool {
	return d.Kind == DecisionRejected
}

// OutputValue returns the value written after "issuenumber=". It is empty for a rejection.
func (d *PolicyDecision) OutputValue() string {
	switch d.Kind {
	case DecisionIssueNumber:
		return strconv.Itoa(d.IssueNumber)
	case DecisionSkipped:
		return types.SkippedByLabel
	default:
		return ""
	}
}
