package model

import "strings"

// Commit represents a single commit, either from the event description or from repository history
type Commit struct {
	ID      string
	Message string
}

// Repository identifies a repository on the forge
type Repository struct {
	Owner string
	Name  string
}

// FullName returns "owner/name"
func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

// IsValid checks that both owner and name are set
func (r Repository) IsValid() bool {
	return r.Owner != "" && r.Name != ""
}

// PushEvent carries the commits pushed in order
type PushEvent struct {
	Commits []Commit
	After   string // SHA of the pushed head
}

// PullRequestEvent carries the commit range of a pull request
type PullRequestEvent struct {
	BaseSHA     string
	HeadSHA     string
	CommitCount int
	Labels      []string
}

// HasLabel reports whether the pull request carries a label whose name equals name, ignoring case
func (e *PullRequestEvent) HasLabel(name string) bool {
	for _, label := range e.Labels {
		if strings.EqualFold(label, name) {
			return true
		}
	}
	return false
}

// ChangeEvent is the parsed event description. Exactly one of Push and PullRequest is set.
type ChangeEvent struct {
	Repository  Repository
	Push        *PushEvent
	PullRequest *PullRequestEvent
}

// IsPullRequest reports whether the event describes a pull request
func (e *ChangeEvent) IsPullRequest() bool {
	return e.PullRequest != nil
}

// HeadSHA returns the commit the event points at
func (e *ChangeEvent) HeadSHA() string {
	switch {
	case e.PullRequest != nil:
		return e.PullRequest.HeadSHA
	case e.Push != nil:
		return e.Push.After
	default:
		return ""
	}
}
