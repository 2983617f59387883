package github

import (
	"context"
	"encoding/json"
	"os"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/issuecheck/pkg/domain/model"
	"github.com/m-mizutani/issuecheck/pkg/utils/logging"
)

// ErrInvalidEvent is returned when the event description lacks required fields
var ErrInvalidEvent = goerr.New("invalid event description")

// LoadEvent reads and parses the event description at path
func LoadEvent(ctx context.Context, path string) (*model.ChangeEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read event description", goerr.V("path", path))
	}

	event, err := ParseEvent(ctx, data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse event description", goerr.V("path", path))
	}
	return event, nil
}

// ParseEvent parses an event description. A payload with a "pull_request" key is
// a pull request event, a payload with a "commits" key is a push event.
func ParseEvent(ctx context.Context, data []byte) (*model.ChangeEvent, error) {
	logger := logging.From(ctx)

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, goerr.Wrap(err, "event description is not a JSON object")
	}

	var eventType string
	switch {
	case hasKey(keys, "pull_request"):
		eventType = "pull_request"
	case hasKey(keys, "commits"):
		eventType = "push"
	default:
		return nil, goerr.Wrap(ErrInvalidEvent, "neither pull_request nor commits is found")
	}

	payload, err := github.ParseWebHook(eventType, data)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid event payload", goerr.V("event_type", eventType))
	}

	switch e := payload.(type) {
	case *github.PullRequestEvent:
		event, err := extractPullRequest(e)
		if err != nil {
			return nil, err
		}
		topLabels, err := parseLabels(keys["labels"])
		if err != nil {
			return nil, err
		}
		event.PullRequest.Labels = append(event.PullRequest.Labels, topLabels...)
		logger.Debug("Parsed pull request event",
			"repo", event.Repository.FullName(),
			"base", event.PullRequest.BaseSHA,
			"head", event.PullRequest.HeadSHA,
			"commits", event.PullRequest.CommitCount,
			"labels", event.PullRequest.Labels,
		)
		return event, nil

	case *github.PushEvent:
		event := extractPush(e)
		logger.Debug("Parsed push event",
			"repo", event.Repository.FullName(),
			"commits", len(event.Push.Commits),
		)
		return event, nil

	default:
		return nil, goerr.Wrap(ErrInvalidEvent, "unexpected payload type", goerr.V("event_type", eventType))
	}
}

// extractPullRequest converts a pull request payload into a ChangeEvent
func extractPullRequest(e *github.PullRequestEvent) (*model.ChangeEvent, error) {
	pr := e.GetPullRequest()
	if pr == nil {
		return nil, goerr.Wrap(ErrInvalidEvent, "missing pull_request")
	}

	baseSHA := pr.GetBase().GetSHA()
	headSHA := pr.GetHead().GetSHA()
	if baseSHA == "" || headSHA == "" {
		return nil, goerr.Wrap(ErrInvalidEvent, "missing base or head sha",
			goerr.V("base", baseSHA),
			goerr.V("head", headSHA),
		)
	}

	labels := make([]string, 0, len(pr.Labels))
	for _, label := range pr.Labels {
		labels = append(labels, label.GetName())
	}

	baseRepo := pr.GetBase().GetRepo()
	repo := model.Repository{
		Owner: baseRepo.GetOwner().GetLogin(),
		Name:  baseRepo.GetName(),
	}
	if !repo.IsValid() {
		repo = model.Repository{
			Owner: e.GetRepo().GetOwner().GetLogin(),
			Name:  e.GetRepo().GetName(),
		}
	}

	return &model.ChangeEvent{
		Repository: repo,
		PullRequest: &model.PullRequestEvent{
			BaseSHA:     baseSHA,
			HeadSHA:     headSHA,
			CommitCount: pr.GetCommits(),
			Labels:      labels,
		},
	}, nil
}

// extractPush converts a push payload into a ChangeEvent
func extractPush(e *github.PushEvent) *model.ChangeEvent {
	commits := make([]model.Commit, 0, len(e.Commits))
	for _, c := range e.Commits {
		commits = append(commits, model.Commit{
			ID:      c.GetID(),
			Message: c.GetMessage(),
		})
	}

	owner := e.GetRepo().GetOwner().GetLogin()
	if owner == "" {
		owner = e.GetRepo().GetOwner().GetName()
	}

	return &model.ChangeEvent{
		Repository: model.Repository{
			Owner: owner,
			Name:  e.GetRepo().GetName(),
		},
		Push: &model.PushEvent{
			Commits: commits,
			After:   e.GetAfter(),
		},
	}
}

func hasKey(keys map[string]json.RawMessage, key string) bool {
	v, ok := keys[key]
	return ok && string(v) != "null"
}

// parseLabels reads label names from a top level "labels" array
func parseLabels(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var labels []*github.Label
	if err := json.Unmarshal(raw, &labels); err != nil {
		return nil, goerr.Wrap(ErrInvalidEvent, "labels is not a list of labels", goerr.V("error", err.Error()))
	}

	names := make([]string, 0, len(labels))
	for _, label := range labels {
		names = append(names, label.GetName())
	}
	return names, nil
}
