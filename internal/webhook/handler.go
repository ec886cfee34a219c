package webhook

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"gitcord/internal/relay"
	pkgResponse "gitcord/pkg/response"
)

// HandleGitHubWebhook processes GitHub push/delete webhook events.
// The event is processed synchronously so the response can report the
// outcome: 200 on success (or a benign non-event), 400 for resolution and
// lifecycle failures, 500 for delivery failures. Bodies are plain text.
func (h *Handler) HandleGitHubWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.l.Errorf(ctx, "Failed to read webhook body: %v", err)
		pkgResponse.Text(c, http.StatusBadRequest, "failed to read request body")
		return
	}

	event, err := h.githubParser.ParsePushEvent(body)
	if err != nil {
		if errors.Is(err, relay.ErrMalformedEvent) {
			// Hook configuration ping or other non-push payload.
			h.l.Infof(ctx, "Acknowledging non-push payload: %v", err)
			pkgResponse.Text(c, http.StatusOK, "No payload received")
			return
		}
		h.l.Errorf(ctx, "Failed to parse GitHub event: %v", err)
		pkgResponse.Text(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.relayUC.ProcessEvent(ctx, *event)
	if err != nil {
		pkgResponse.Text(c, statusFor(err), err.Error())
		return
	}

	pkgResponse.Text(c, http.StatusOK, summarize(result))
}

// statusFor maps the relay error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, relay.ErrNoDestination),
		errors.Is(err, relay.ErrGuildUnreachable),
		errors.Is(err, relay.ErrCategoryMissing),
		errors.Is(err, relay.ErrChannelCreateFailed),
		errors.Is(err, relay.ErrChannelDeleteFailed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func summarize(result relay.ProcessResult) string {
	switch {
	case result.ChannelDeleted && result.WebhookNotified:
		return "Branch channel deleted and webhook notified"
	case result.ChannelDeleted:
		return "Branch channel deleted"
	case result.ChannelNotified && result.WebhookNotified:
		return "Webhook received and message sent to Discord!"
	case result.WebhookNotified:
		return "Message sent to Discord via webhook"
	case result.ChannelNotified:
		return "Message sent to branch channel"
	default:
		return "Webhook received"
	}
}
