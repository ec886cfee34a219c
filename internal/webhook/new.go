package webhook

import (
	"gitcord/internal/relay"
	pkgLog "gitcord/pkg/log"
)

type Handler struct {
	relayUC      relay.UseCase
	githubParser *GitHubWebhookParser
	l            pkgLog.Logger
}

func NewHandler(relayUC relay.UseCase, l pkgLog.Logger) *Handler {
	return &Handler{
		relayUC:      relayUC,
		githubParser: NewGitHubParser(),
		l:            l,
	}
}
