package command

import (
	"context"
	"fmt"
	"strings"

	"gitcord/internal/model"
	"gitcord/internal/relay/repository"
)

// registerCommand maps a repository to its guild and fallback webhook.
// Registering an already-known repository replaces the mapping.
func registerCommand(repo repository.DestinationRepository) Command {
	return Command{
		Name:        "register",
		Description: "Register a repository's fallback webhook and guild",
		Execute: func(ctx context.Context, opts Options) (string, error) {
			repoKey := strings.ToLower(strings.TrimSpace(opts["repo"]))
			webhookURL := strings.TrimSpace(opts["webhook"])
			guildID := strings.TrimSpace(opts["guild"])

			if repoKey == "" || webhookURL == "" || guildID == "" {
				return "", fmt.Errorf("register needs repo, webhook and guild options")
			}

			if err := repo.Insert(ctx, model.DestinationRecord{
				RepoKey:    repoKey,
				WebhookURL: webhookURL,
				GuildID:    guildID,
			}); err != nil {
				return "", fmt.Errorf("failed to register %s: %w", repoKey, err)
			}
			return fmt.Sprintf("Registered %s", repoKey), nil
		},
	}
}

func unregisterCommand(repo repository.DestinationRepository) Command {
	return Command{
		Name:        "unregister",
		Description: "Remove a repository's destination mapping",
		Execute: func(ctx context.Context, opts Options) (string, error) {
			repoKey := strings.ToLower(strings.TrimSpace(opts["repo"]))
			if repoKey == "" {
				return "", fmt.Errorf("unregister needs a repo option")
			}

			if err := repo.DeleteByRepo(ctx, repoKey); err != nil {
				return "", fmt.Errorf("failed to unregister %s: %w", repoKey, err)
			}
			return fmt.Sprintf("Unregistered %s", repoKey), nil
		},
	}
}

func listCommand(repo repository.DestinationRepository) Command {
	return Command{
		Name:        "repos",
		Description: "List registered repositories",
		Execute: func(ctx context.Context, opts Options) (string, error) {
			records, err := repo.List(ctx)
			if err != nil {
				return "", fmt.Errorf("failed to list repositories: %w", err)
			}
			if len(records) == 0 {
				return "No repositories registered", nil
			}

			names := make([]string, 0, len(records))
			for _, record := range records {
				names = append(names, record.RepoKey)
			}
			return "Registered: " + strings.Join(names, ", "), nil
		},
	}
}
