package discord

// Channel type constants from the Discord API.
const (
	ChannelTypeGuildText     = 0
	ChannelTypeGuildCategory = 4
)

// Guild represents a Discord guild (server).
type Guild struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Channel represents a Discord channel. ParentID is the owning category
// for nested text channels, empty for top-level channels and categories.
type Channel struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     int    `json:"type"`
	ParentID string `json:"parent_id,omitempty"`
}

// CreateChannelRequest is the payload for guild channel creation.
type CreateChannelRequest struct {
	Name     string `json:"name"`
	Type     int    `json:"type"`
	ParentID string `json:"parent_id,omitempty"`
}

// Embed is a Discord rich embed.
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	URL         string       `json:"url,omitempty"`
	Color       int          `json:"color,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

// EmbedFooter is the footer block of an embed.
type EmbedFooter struct {
	Text string `json:"text"`
}

// sendMessageRequest is the payload for channel message creation and
// webhook execution; both carry the same embeds array shape.
type sendMessageRequest struct {
	Embeds []Embed `json:"embeds"`
}
