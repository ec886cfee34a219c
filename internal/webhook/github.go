package webhook

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gitcord/internal/model"
	"gitcord/internal/relay"
)

// Fallback commit message when the payload carries no head commit.
const noCommitMessage = "No commit message provided"

// GitHubWebhookParser normalizes GitHub webhook payloads
type GitHubWebhookParser struct{}

func NewGitHubParser() *GitHubWebhookParser {
	return &GitHubWebhookParser{}
}

// ParsePushEvent parses a GitHub push/delete event into the canonical form.
// A payload without a ref is not a real push event (GitHub sends such
// bodies when a hook is first configured) and yields ErrMalformedEvent;
// callers acknowledge those rather than erroring.
func (p *GitHubWebhookParser) ParsePushEvent(payload []byte) (*model.RepoEvent, error) {
	var event struct {
		Ref        string `json:"ref"`
		Deleted    bool   `json:"deleted"`
		Repository struct {
			Name    string `json:"name"`
			HTMLURL string `json:"html_url"`
		} `json:"repository"`
		Pusher struct {
			Name string `json:"name"`
		} `json:"pusher"`
		Sender struct {
			Login string `json:"login"`
		} `json:"sender"`
		HeadCommit *struct {
			Message string `json:"message"`
			URL     string `json:"url"`
		} `json:"head_commit"`
	}

	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", relay.ErrMalformedEvent, err)
	}

	if event.Ref == "" {
		return nil, relay.ErrMalformedEvent
	}

	// Extract branch name from ref (refs/heads/Main → main)
	branch := event.Ref
	if idx := strings.LastIndex(branch, "/"); idx >= 0 {
		branch = branch[idx+1:]
	}
	branch = strings.ToLower(branch)

	author := event.Pusher.Name
	if author == "" {
		author = event.Sender.Login
	}

	message := noCommitMessage
	if event.HeadCommit != nil && event.HeadCommit.Message != "" {
		message = event.HeadCommit.Message
	}
	if event.Deleted {
		message = "Branch deletion " + branch
	}

	sourceURL := event.Repository.HTMLURL
	if event.HeadCommit != nil && event.HeadCommit.URL != "" {
		sourceURL = event.HeadCommit.URL
	}

	return &model.RepoEvent{
		RepoKey:    strings.ToLower(event.Repository.Name),
		Branch:     branch,
		Author:     author,
		Message:    message,
		SourceURL:  sourceURL,
		IsDeletion: event.Deleted,
		ReceivedAt: time.Now(),
	}, nil
}
