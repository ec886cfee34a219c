package model

import "time"

// RepoEvent is the canonical, provider-agnostic form of an inbound
// push/delete notification. Built per request, never persisted.
type RepoEvent struct {
	RepoKey    string    // Lower-cased repository name
	Branch     string    // Lower-cased last segment of the ref
	Author     string    // Pusher name, falling back to sender login
	Message    string    // Head commit summary, or synthesized deletion notice
	SourceURL  string    // Head commit URL, or repository web URL
	IsDeletion bool      // Branch deletion flag from the payload
	ReceivedAt time.Time // When the webhook was received
}
