package usecase

import (
	"context"
	"fmt"

	"gitcord/internal/model"
	"gitcord/internal/relay"
)

// resolve looks the repository up in the destination store and validates
// the registered guild against the Discord API. Read-only.
func (uc *implUseCase) resolve(ctx context.Context, repoKey string) (model.ResolvedDestination, error) {
	record, err := uc.repo.FindByRepo(ctx, repoKey)
	if err != nil {
		return model.ResolvedDestination{}, fmt.Errorf("destination lookup for %s: %w", repoKey, err)
	}

	if record == nil || record.WebhookURL == "" || record.GuildID == "" {
		return model.ResolvedDestination{}, fmt.Errorf("%w: %s", relay.ErrNoDestination, repoKey)
	}

	guild, err := uc.discord.GetGuild(ctx, record.GuildID)
	if err != nil {
		return model.ResolvedDestination{}, fmt.Errorf("%w: guild %s: %v", relay.ErrGuildUnreachable, record.GuildID, err)
	}

	return model.ResolvedDestination{
		GuildID:    record.GuildID,
		WebhookURL: record.WebhookURL,
		Guild:      guild,
	}, nil
}
