package github

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/issuecheck/pkg/domain/interfaces"
	"github.com/m-mizutani/issuecheck/pkg/domain/model"
)

const checkRunsPerPage = 100

type client struct {
	githubClient *github.Client
}

type config struct {
	baseURL    string
	httpClient *http.Client
}

// Option is a functional option for the GitHub client
type Option func(*config)

// WithBaseURL sets the REST API endpoint, e.g. for GitHub Enterprise Server
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *config) {
		c.httpClient = httpClient
	}
}

func newConfig(opts []Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// NewClient creates a new GitHub client authenticated with a token
func NewClient(token string, opts ...Option) (interfaces.GitHubClient, error) {
	if token == "" {
		return nil, goerr.New("GitHub token is required")
	}

	cfg := newConfig(opts)
	githubClient := github.NewClient(cfg.httpClient).WithAuthToken(token)
	if err := setBaseURL(githubClient, cfg.baseURL); err != nil {
		return nil, err
	}

	return &client{githubClient: githubClient}, nil
}

// NewAppClient creates a new GitHub client with App installation authentication
func NewAppClient(appID, installationID int64, privateKey []byte, opts ...Option) (interfaces.GitHubClient, error) {
	cfg := newConfig(opts)

	base := http.DefaultTransport
	if cfg.httpClient != nil && cfg.httpClient.Transport != nil {
		base = cfg.httpClient.Transport
	}

	itr, err := ghinstallation.New(base, appID, installationID, privateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport",
			goerr.V("app_id", appID),
			goerr.V("installation_id", installationID),
		)
	}
	if cfg.baseURL != "" {
		itr.BaseURL = strings.TrimSuffix(cfg.baseURL, "/")
	}

	githubClient := github.NewClient(&http.Client{Transport: itr})
	if err := setBaseURL(githubClient, cfg.baseURL); err != nil {
		return nil, err
	}

	return &client{githubClient: githubClient}, nil
}

func setBaseURL(githubClient *github.Client, baseURL string) error {
	if baseURL == "" {
		return nil
	}

	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return goerr.Wrap(err, "invalid GitHub API URL", goerr.V("url", baseURL))
	}
	githubClient.BaseURL = u
	return nil
}

// ListCheckRuns returns check runs named checkName on ref, across all pages, in response order
func (c *client) ListCheckRuns(ctx context.Context, repo model.Repository, ref, checkName string) ([]*model.CheckRun, error) {
	opts := &github.ListCheckRunsOptions{
		CheckName:   github.Ptr(checkName),
		ListOptions: github.ListOptions{PerPage: checkRunsPerPage},
	}

	var runs []*model.CheckRun
	for {
		result, resp, err := c.githubClient.Checks.ListCheckRunsForRef(ctx, repo.Owner, repo.Name, ref, opts)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list check runs",
				goerr.V("repo", repo.FullName()),
				goerr.V("ref", ref),
				goerr.V("check_name", checkName),
			)
		}

		for _, run := range result.CheckRuns {
			if run.GetName() != checkName {
				continue
			}
			runs = append(runs, toCheckRun(run))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return runs, nil
}

// RerequestCheckSuite triggers a re-run of the check suite
func (c *client) RerequestCheckSuite(ctx context.Context, repo model.Repository, suiteID int64) (int, error) {
	resp, err := c.githubClient.Checks.ReRequestCheckSuite(ctx, repo.Owner, repo.Name, suiteID)
	if err != nil {
		return statusCode(resp), goerr.Wrap(err, "failed to rerequest check suite",
			goerr.V("repo", repo.FullName()),
			goerr.V("suite_id", suiteID),
			goerr.V("status", statusCode(resp)),
		)
	}

	return resp.StatusCode, nil
}

func statusCode(resp *github.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}

func toCheckRun(run *github.CheckRun) *model.CheckRun {
	cr := &model.CheckRun{
		ID:      run.GetID(),
		Name:    run.GetName(),
		SuiteID: run.GetCheckSuite().GetID(),
	}
	if run.StartedAt != nil {
		cr.StartedAt = run.StartedAt.Time
	}
	return cr
}
