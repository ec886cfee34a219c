package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gitcord/internal/model"
	"gitcord/internal/relay"
	"gitcord/pkg/discord"
)

// buildEmbed formats the canonical event as a Discord embed.
func buildEmbed(event model.RepoEvent) discord.Embed {
	receivedAt := event.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}

	return discord.Embed{
		Title:       fmt.Sprintf("New Event on %s", event.RepoKey),
		Description: fmt.Sprintf("Branch: %s\nAuthor: %s\nMessage: %s", event.Branch, event.Author, event.Message),
		URL:         event.SourceURL,
		Color:       embedColor,
		Footer:      &discord.EmbedFooter{Text: embedFooterText},
		Timestamp:   receivedAt.UTC().Format(time.RFC3339),
	}
}

// dispatch delivers the notice to the branch channel (when one survives the
// lifecycle step) and to the fallback webhook. The two sinks are
// independent: a failure on one never suppresses the other. Dispatch
// succeeds when at least one attempted sink succeeded; it fails when every
// attempted sink failed.
func (uc *implUseCase) dispatch(ctx context.Context, dest model.ResolvedDestination, event model.RepoEvent, channel *discord.Channel, result *relay.ProcessResult) error {
	embed := buildEmbed(event)

	var channelErr error
	if channel != nil {
		if err := uc.discord.SendEmbed(ctx, channel.ID, embed); err != nil {
			channelErr = fmt.Errorf("%w: channel %s: %v", relay.ErrChannelSendFailed, channel.ID, err)
		} else {
			result.ChannelNotified = true
		}
	}

	var webhookErr error
	if err := uc.discord.ExecuteWebhook(ctx, dest.WebhookURL, embed); err != nil {
		webhookErr = fmt.Errorf("%w: %v", relay.ErrWebhookSendFailed, err)
	} else {
		result.WebhookNotified = true
	}

	if webhookErr != nil {
		if channel == nil {
			// The webhook was the only sink for this event; its failure
			// means nothing was delivered.
			return webhookErr
		}
		if channelErr != nil {
			return errors.Join(channelErr, webhookErr)
		}
		uc.l.Warnf(ctx, "relay: webhook delivery failed, branch channel succeeded: %v", webhookErr)
		return nil
	}
	if channelErr != nil {
		uc.l.Warnf(ctx, "relay: branch channel delivery failed, webhook succeeded: %v", channelErr)
	}
	return nil
}
