package repository

import (
	"context"

	"gitcord/internal/model"
)

// DestinationRepository is the interface for destination mapping access.
// FindByRepo returns (nil, nil) when no record exists.
type DestinationRepository interface {
	FindByRepo(ctx context.Context, repoKey string) (*model.DestinationRecord, error)
	Insert(ctx context.Context, record model.DestinationRecord) error
	DeleteByRepo(ctx context.Context, repoKey string) error
	List(ctx context.Context) ([]model.DestinationRecord, error)
}
