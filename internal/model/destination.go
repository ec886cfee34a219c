package model

import "gitcord/pkg/discord"

// DestinationRecord maps a repository to its registered chat destination.
// At most one record exists per RepoKey.
type DestinationRecord struct {
	RepoKey    string // Lower-cased repository name, primary key
	WebhookURL string // Guild-wide fallback webhook
	GuildID    string // Owning guild
}

// ResolvedDestination is a DestinationRecord validated against the live
// Discord client: the guild handle is populated or resolution failed.
type ResolvedDestination struct {
	GuildID    string
	WebhookURL string
	Guild      *discord.Guild
}
