package relay

import (
	"context"

	"gitcord/internal/model"
)

// UseCase defines the business logic interface for the relay domain.
type UseCase interface {
	// ProcessEvent resolves the event's destination, applies the branch
	// channel lifecycle transition, and fans the notice out to the branch
	// channel and the fallback webhook.
	ProcessEvent(ctx context.Context, event model.RepoEvent) (ProcessResult, error)
}
