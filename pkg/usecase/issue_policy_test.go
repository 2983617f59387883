package usecase_test

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/issuecheck/pkg/domain/model"
	"github.com/m-mizutani/issuecheck/pkg/usecase"
)

// MockCommitWalker is a mock implementation of CommitWalker that replays a fixed history
type MockCommitWalker struct {
	commits   []model.Commit // oldest first
	err       error
	walkCalls []MockWalkCall
}

type MockWalkCall struct {
	Base       string
	Head       string
	MaxEntries int
}

// Walk mimics the first-parent walk over m.commits: the last maxEntries commits
// are scanned, yielding those after base up to head.
func (m *MockCommitWalker) Walk(ctx context.Context, base, head string, maxEntries int) iter.Seq2[*model.Commit, error] {
	m.walkCalls = append(m.walkCalls, MockWalkCall{Base: base, Head: head, MaxEntries: maxEntries})

	return func(yield func(*model.Commit, error) bool) {
		if m.err != nil {
			yield(nil, m.err)
			return
		}

		end := len(m.commits)
		for i, c := range m.commits {
			if c.ID == head {
				end = i + 1
				break
			}
		}
		start := max(end-maxEntries, 0)

		pastBase := false
		for _, c := range m.commits[start:end] {
			if !pastBase {
				pastBase = c.ID == base
				continue
			}
			if !yield(&c, nil) {
				return
			}
			if c.ID == head {
				return
			}
		}
	}
}

func pullRequest(base, head string, count int, labels ...string) *model.ChangeEvent {
	return &model.ChangeEvent{
		Repository: model.Repository{Owner: "octo", Name: "hello"},
		PullRequest: &model.PullRequestEvent{
			BaseSHA:     base,
			HeadSHA:     head,
			CommitCount: count,
			Labels:      labels,
		},
	}
}

func push(messages ...string) *model.ChangeEvent {
	commits := make([]model.Commit, len(messages))
	for i, msg := range messages {
		commits[i] = model.Commit{ID: string(rune('a' + i)), Message: msg}
	}
	return &model.ChangeEvent{Push: &model.PushEvent{Commits: commits}}
}

func TestIssuePolicy_Push(t *testing.T) {
	tests := []struct {
		name     string
		event    *model.ChangeEvent
		expected *model.PolicyDecision
	}{
		{
			name:     "last commit reference wins",
			event:    push("fix bug #1", "fix bug #42"),
			expected: model.NewIssueNumberDecision(42),
		},
		{
			name:     "first reference of the last commit",
			event:    push("#3 start", "#5 and #6"),
			expected: model.NewIssueNumberDecision(5),
		},
		{
			name:     "unreferenced last commit is rejected",
			event:    push("#1 start", "cleanup"),
			expected: model.NewRejectedDecision("b"),
		},
		{
			name:     "rejects at the first unreferenced commit",
			event:    push("wip", "cleanup", "#3"),
			expected: model.NewRejectedDecision("a"),
		},
		{
			name:     "single unreferenced commit",
			event:    push("fix bug"),
			expected: model.NewRejectedDecision("a"),
		},
		{
			name:     "no commits",
			event:    push(),
			expected: model.NewIssueNumberDecision(0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			walker := &MockCommitWalker{}
			uc := usecase.NewIssuePolicy(walker)

			decision, err := uc.Evaluate(context.Background(), tt.event)
			gt.NoError(t, err)
			gt.Value(t, decision).Equal(tt.expected)
			gt.Value(t, len(walker.walkCalls)).Equal(0)
		})
	}
}

func TestIssuePolicy_PullRequest(t *testing.T) {
	history := []model.Commit{
		{ID: "A", Message: "initial"},
		{ID: "B", Message: "wip #7"},
		{ID: "C", Message: "done #7"},
	}

	t.Run("head reference wins", func(t *testing.T) {
		walker := &MockCommitWalker{commits: history}
		uc := usecase.NewIssuePolicy(walker)

		decision, err := uc.Evaluate(context.Background(), pullRequest("A", "C", 2))
		gt.NoError(t, err)
		gt.Value(t, decision).Equal(model.NewIssueNumberDecision(7))

		gt.Value(t, len(walker.walkCalls)).Equal(1)
		gt.Value(t, walker.walkCalls[0]).Equal(MockWalkCall{Base: "A", Head: "C", MaxEntries: 4})
	})

	t.Run("first reference of the head commit", func(t *testing.T) {
		walker := &MockCommitWalker{commits: []model.Commit{
			{ID: "A", Message: "initial"},
			{ID: "B", Message: "wip #1"},
			{ID: "C", Message: "done #9 see #1"},
		}}
		uc := usecase.NewIssuePolicy(walker)

		decision, err := uc.Evaluate(context.Background(), pullRequest("A", "C", 2))
		gt.NoError(t, err)
		gt.Value(t, decision).Equal(model.NewIssueNumberDecision(9))
	})

	t.Run("unreferenced commit in range is rejected", func(t *testing.T) {
		walker := &MockCommitWalker{commits: []model.Commit{
			{ID: "A", Message: "initial"},
			{ID: "B", Message: "wip"},
			{ID: "C", Message: "done #7"},
		}}
		uc := usecase.NewIssuePolicy(walker)

		decision, err := uc.Evaluate(context.Background(), pullRequest("A", "C", 2))
		gt.NoError(t, err)
		gt.Value(t, decision).Equal(model.NewRejectedDecision("B"))
	})

	t.Run("base commit is not evaluated", func(t *testing.T) {
		walker := &MockCommitWalker{commits: []model.Commit{
			{ID: "X", Message: "older"},
			{ID: "A", Message: "base without reference"},
			{ID: "B", Message: "#2"},
		}}
		uc := usecase.NewIssuePolicy(walker)

		decision, err := uc.Evaluate(context.Background(), pullRequest("A", "B", 1))
		gt.NoError(t, err)
		gt.Value(t, decision).Equal(model.NewIssueNumberDecision(2))
	})

	t.Run("budget too small for the range", func(t *testing.T) {
		walker := &MockCommitWalker{commits: history}
		uc := usecase.NewIssuePolicy(walker, usecase.WithBudgetPadding(0))

		// commit count understates the range: base A is not within the last commit
		decision, err := uc.Evaluate(context.Background(), pullRequest("A", "C", 1))
		gt.Error(t, err)
		gt.Value(t, decision).Nil()
		gt.Value(t, errors.Is(err, usecase.ErrIncompleteRange)).Equal(true)
	})

	t.Run("custom padding", func(t *testing.T) {
		walker := &MockCommitWalker{commits: history}
		uc := usecase.NewIssuePolicy(walker, usecase.WithBudgetPadding(5))

		_, err := uc.Evaluate(context.Background(), pullRequest("A", "C", 2))
		gt.NoError(t, err)
		gt.Value(t, walker.walkCalls[0].MaxEntries).Equal(7)
	})

	t.Run("walker error", func(t *testing.T) {
		walker := &MockCommitWalker{err: errors.New("object not found")}
		uc := usecase.NewIssuePolicy(walker)

		decision, err := uc.Evaluate(context.Background(), pullRequest("A", "C", 2))
		gt.Error(t, err)
		gt.Value(t, decision).Nil()
		gt.String(t, err.Error()).Contains("failed to walk pull request commits")
	})
}

func TestIssuePolicy_SkipLabel(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		opts   []usecase.IssuePolicyOption
		want   *model.PolicyDecision
	}{
		{
			name:   "label with different case",
			labels: []string{"bug", "Skip Issue"},
			want:   model.NewSkippedDecision(),
		},
		{
			name:   "upper case label",
			labels: []string{"SKIP ISSUE"},
			want:   model.NewSkippedDecision(),
		},
		{
			name:   "custom label",
			labels: []string{"no-ticket"},
			opts:   []usecase.IssuePolicyOption{usecase.WithSkipLabel("No-Ticket")},
			want:   model.NewSkippedDecision(),
		},
		{
			name:   "similar label does not exempt",
			labels: []string{"skip-issue"},
			want:   model.NewRejectedDecision("B"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			walker := &MockCommitWalker{commits: []model.Commit{
				{ID: "A", Message: "initial"},
				{ID: "B", Message: "no reference at all"},
			}}
			uc := usecase.NewIssuePolicy(walker, tt.opts...)

			decision, err := uc.Evaluate(context.Background(), pullRequest("A", "B", 1, tt.labels...))
			gt.NoError(t, err)
			gt.Value(t, decision).Equal(tt.want)

			if tt.want.Kind == model.DecisionSkipped {
				gt.Value(t, len(walker.walkCalls)).Equal(0)
			}
		})
	}
}

func TestIssuePolicy_EmptyEvent(t *testing.T) {
	uc := usecase.NewIssuePolicy(&MockCommitWalker{})

	decision, err := uc.Evaluate(context.Background(), &model.ChangeEvent{})
	gt.Error(t, err)
	gt.Value(t, decision).Nil()
}
