package usecase

import (
	"context"
	"fmt"

	"gitcord/internal/model"
	"gitcord/internal/relay"
	"gitcord/pkg/discord"
)

// applyLifecycle enforces the one-channel-per-branch invariant and returns
// the branch channel the notice should go to, or nil after a deletion.
//
// Transitions for one (repoKey, branch) key are serialized: the key lock is
// held across the existence check and the create/delete call, and the
// Discord client invalidates its channel cache on every mutation, so the
// next holder re-observes the resulting state instead of racing on a stale
// check. Distinct keys proceed in parallel.
func (uc *implUseCase) applyLifecycle(ctx context.Context, dest model.ResolvedDestination, event model.RepoEvent, result *relay.ProcessResult) (*discord.Channel, error) {
	unlock := uc.locks.Lock(event.RepoKey + "/" + event.Branch)
	defer unlock()

	// A guild whose channels cannot be listed is as unreachable as one the
	// resolver could not look up; both land in the same error bucket.
	channels, err := uc.discord.GuildChannels(ctx, dest.GuildID)
	if err != nil {
		return nil, fmt.Errorf("%w: listing channels of guild %s: %v", relay.ErrGuildUnreachable, dest.GuildID, err)
	}

	category := discord.FindCategory(channels, event.RepoKey)
	var branchChannel *discord.Channel
	if category != nil {
		branchChannel = discord.FindTextChannel(channels, event.Branch, category.ID)
	}

	// Absence in the cached list is not proof of absence. Confirm against
	// the API before acting on it.
	if category == nil || branchChannel == nil {
		channels, err = uc.discord.RefreshGuildChannels(ctx, dest.GuildID)
		if err != nil {
			return nil, fmt.Errorf("%w: listing channels of guild %s: %v", relay.ErrGuildUnreachable, dest.GuildID, err)
		}
		category = discord.FindCategory(channels, event.RepoKey)
		if category == nil {
			return nil, fmt.Errorf("%w: %s in guild %s", relay.ErrCategoryMissing, event.RepoKey, dest.GuildID)
		}
		branchChannel = discord.FindTextChannel(channels, event.Branch, category.ID)
	}

	if event.IsDeletion {
		if branchChannel == nil {
			// Already absent.
			return nil, nil
		}
		if err := uc.discord.DeleteChannel(ctx, dest.GuildID, branchChannel.ID); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", relay.ErrChannelDeleteFailed, branchChannel.ID, err)
		}
		result.ChannelDeleted = true
		return nil, nil
	}

	if branchChannel != nil {
		result.ChannelID = branchChannel.ID
		return branchChannel, nil
	}

	created, err := uc.discord.CreateChannel(ctx, dest.GuildID, discord.CreateChannelRequest{
		Name:     event.Branch,
		Type:     discord.ChannelTypeGuildText,
		ParentID: category.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s under %s: %v", relay.ErrChannelCreateFailed, event.Branch, category.Name, err)
	}

	result.ChannelCreated = true
	result.ChannelID = created.ID
	return created, nil
}
