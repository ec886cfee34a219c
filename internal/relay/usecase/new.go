package usecase

import (
	"gitcord/internal/relay"
	"gitcord/internal/relay/repository"
	"gitcord/pkg/discord"
	"gitcord/pkg/keymutex"
	pkgLog "gitcord/pkg/log"
)

type implUseCase struct {
	l       pkgLog.Logger
	repo    repository.DestinationRepository
	discord *discord.Client
	locks   *keymutex.KeyMutex
}

// Ensure implUseCase implements the relay UseCase interface
var _ relay.UseCase = (*implUseCase)(nil)

// New creates a new relay UseCase instance.
// Convention: Factory function returns concrete type (not interface) for internal packages
func New(l pkgLog.Logger, repo repository.DestinationRepository, discordClient *discord.Client) *implUseCase {
	return &implUseCase{
		l:       l,
		repo:    repo,
		discord: discordClient,
		locks:   keymutex.New(),
	}
}
