package usecase

import (
	"context"

	"github.com/google/uuid"

	"gitcord/internal/model"
	"gitcord/internal/relay"
)

// ProcessEvent runs the full pipeline for one canonical event:
// resolve destination → branch channel lifecycle → fan-out delivery.
func (uc *implUseCase) ProcessEvent(ctx context.Context, event model.RepoEvent) (relay.ProcessResult, error) {
	deliveryID := uuid.NewString()
	uc.l.Infof(ctx, "relay[%s]: %s/%s deletion=%v author=%s", deliveryID, event.RepoKey, event.Branch, event.IsDeletion, event.Author)

	dest, err := uc.resolve(ctx, event.RepoKey)
	if err != nil {
		uc.l.Warnf(ctx, "relay[%s]: resolution failed: %v", deliveryID, err)
		return relay.ProcessResult{}, err
	}

	var result relay.ProcessResult
	channel, err := uc.applyLifecycle(ctx, dest, event, &result)
	if err != nil {
		uc.l.Errorf(ctx, "relay[%s]: lifecycle failed: %v", deliveryID, err)
		return result, err
	}

	if err := uc.dispatch(ctx, dest, event, channel, &result); err != nil {
		uc.l.Errorf(ctx, "relay[%s]: dispatch failed: %v", deliveryID, err)
		return result, err
	}

	uc.l.Infof(ctx, "relay[%s]: done created=%v deleted=%v channel=%v webhook=%v",
		deliveryID, result.ChannelCreated, result.ChannelDeleted, result.ChannelNotified, result.WebhookNotified)
	return result, nil
}
