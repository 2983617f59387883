package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/issuecheck/pkg/domain/model"
	"github.com/m-mizutani/issuecheck/pkg/usecase"
)

// MockGitHubClient is a mock implementation of GitHubClient
type MockGitHubClient struct {
	listCheckRunsFunc       func(ctx context.Context, repo model.Repository, ref, checkName string) ([]*model.CheckRun, error)
	rerequestCheckSuiteFunc func(ctx context.Context, repo model.Repository, suiteID int64) (int, error)

	listCalls      []MockListCall
	rerequestCalls []int64
}

type MockListCall struct {
	Repo      model.Repository
	Ref       string
	CheckName string
}

func (m *MockGitHubClient) ListCheckRuns(ctx context.Context, repo model.Repository, ref, checkName string) ([]*model.CheckRun, error) {
	m.listCalls = append(m.listCalls, MockListCall{Repo: repo, Ref: ref, CheckName: checkName})
	if m.listCheckRunsFunc != nil {
		return m.listCheckRunsFunc(ctx, repo, ref, checkName)
	}
	return nil, errors.New("mock not configured")
}

func (m *MockGitHubClient) RerequestCheckSuite(ctx context.Context, repo model.Repository, suiteID int64) (int, error) {
	m.rerequestCalls = append(m.rerequestCalls, suiteID)
	if m.rerequestCheckSuiteFunc != nil {
		return m.rerequestCheckSuiteFunc(ctx, repo, suiteID)
	}
	return 0, errors.New("mock not configured")
}

var (
	repo = model.Repository{Owner: "octo", Name: "hello"}
	t1   = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	t2   = t1.Add(time.Hour)
)

func fixedRuns(runs ...*model.CheckRun) func(context.Context, model.Repository, string, string) ([]*model.CheckRun, error) {
	return func(context.Context, model.Repository, string, string) ([]*model.CheckRun, error) {
		return runs, nil
	}
}

func TestCheckRerun_FindLatestRun(t *testing.T) {
	t.Run("most recently started run is selected", func(t *testing.T) {
		client := &MockGitHubClient{listCheckRunsFunc: fixedRuns(
			&model.CheckRun{ID: 2, Name: "build", StartedAt: t2, SuiteID: 200},
			&model.CheckRun{ID: 1, Name: "build", StartedAt: t1, SuiteID: 100},
		)}
		uc := usecase.NewCheckRerun(client)

		lookup, err := uc.FindLatestRun(context.Background(), repo, "X", "build")
		gt.NoError(t, err)
		gt.Value(t, lookup.Found()).Equal(true)
		gt.Value(t, lookup.Run.SuiteID).Equal(int64(200))

		gt.Value(t, len(client.listCalls)).Equal(1)
		gt.Value(t, client.listCalls[0]).Equal(MockListCall{Repo: repo, Ref: "X", CheckName: "build"})
	})

	t.Run("other names are ignored", func(t *testing.T) {
		client := &MockGitHubClient{listCheckRunsFunc: fixedRuns(
			&model.CheckRun{ID: 1, Name: "build", StartedAt: t1, SuiteID: 100},
			&model.CheckRun{ID: 2, Name: "Build", StartedAt: t2, SuiteID: 200},
			&model.CheckRun{ID: 3, Name: "build-extra", StartedAt: t2, SuiteID: 300},
		)}
		uc := usecase.NewCheckRerun(client)

		lookup, err := uc.FindLatestRun(context.Background(), repo, "X", "build")
		gt.NoError(t, err)
		gt.Value(t, lookup.Run.SuiteID).Equal(int64(100))
	})

	t.Run("equal start times keep response order", func(t *testing.T) {
		client := &MockGitHubClient{listCheckRunsFunc: fixedRuns(
			&model.CheckRun{ID: 1, Name: "build", StartedAt: t2, SuiteID: 100},
			&model.CheckRun{ID: 2, Name: "build", StartedAt: t2, SuiteID: 200},
			&model.CheckRun{ID: 3, Name: "build", StartedAt: t1, SuiteID: 300},
		)}
		uc := usecase.NewCheckRerun(client)

		lookup, err := uc.FindLatestRun(context.Background(), repo, "X", "build")
		gt.NoError(t, err)
		gt.Value(t, lookup.Run.SuiteID).Equal(int64(200))
	})

	t.Run("no matching run", func(t *testing.T) {
		client := &MockGitHubClient{listCheckRunsFunc: fixedRuns(
			&model.CheckRun{ID: 1, Name: "build", StartedAt: t1, SuiteID: 100},
		)}
		uc := usecase.NewCheckRerun(client)

		lookup, err := uc.FindLatestRun(context.Background(), repo, "X", "deploy")
		gt.NoError(t, err)
		gt.Value(t, lookup.Found()).Equal(false)
		gt.Value(t, lookup.CheckName).Equal("deploy")
		gt.Value(t, len(client.rerequestCalls)).Equal(0)
	})

	t.Run("repeated lookups select the same run", func(t *testing.T) {
		client := &MockGitHubClient{listCheckRunsFunc: fixedRuns(
			&model.CheckRun{ID: 1, Name: "build", StartedAt: t1, SuiteID: 100},
			&model.CheckRun{ID: 2, Name: "build", StartedAt: t2, SuiteID: 200},
			&model.CheckRun{ID: 3, Name: "build", StartedAt: t2, SuiteID: 300},
		)}
		uc := usecase.NewCheckRerun(client)

		first, err := uc.FindLatestRun(context.Background(), repo, "X", "build")
		gt.NoError(t, err)
		second, err := uc.FindLatestRun(context.Background(), repo, "X", "build")
		gt.NoError(t, err)
		gt.Value(t, second.Run).Equal(first.Run)
	})

	t.Run("API failure", func(t *testing.T) {
		client := &MockGitHubClient{
			listCheckRunsFunc: func(context.Context, model.Repository, string, string) ([]*model.CheckRun, error) {
				return nil, errors.New("connection refused")
			},
		}
		uc := usecase.NewCheckRerun(client)

		lookup, err := uc.FindLatestRun(context.Background(), repo, "X", "build")
		gt.Error(t, err)
		gt.Value(t, lookup).Nil()
		gt.String(t, err.Error()).Contains("failed to look up check runs")
	})
}

func TestCheckRerun_Rerequest(t *testing.T) {
	t.Run("returns remote status", func(t *testing.T) {
		client := &MockGitHubClient{
			rerequestCheckSuiteFunc: func(ctx context.Context, repo model.Repository, suiteID int64) (int, error) {
				return http.StatusCreated, nil
			},
		}
		uc := usecase.NewCheckRerun(client)

		status, err := uc.Rerequest(context.Background(), repo, 200)
		gt.NoError(t, err)
		gt.Value(t, status).Equal(http.StatusCreated)
		gt.Value(t, client.rerequestCalls).Equal([]int64{200})
	})

	t.Run("remote failure", func(t *testing.T) {
		client := &MockGitHubClient{
			rerequestCheckSuiteFunc: func(ctx context.Context, repo model.Repository, suiteID int64) (int, error) {
				return http.StatusForbidden, errors.New("forbidden")
			},
		}
		uc := usecase.NewCheckRerun(client)

		status, err := uc.Rerequest(context.Background(), repo, 200)
		gt.Error(t, err)
		gt.Value(t, status).Equal(http.StatusForbidden)
	})
}
