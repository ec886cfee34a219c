package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

const (
	defaultAPIURL = "https://discord.com/api/v10"

	// Channel listings are cached per guild; mutations invalidate the
	// guild entry so the next lookup re-reads from the API.
	channelCacheSize = 128
	channelCacheTTL  = 30 * time.Second
)

// Client is the Discord REST API client.
type Client struct {
	token      string
	apiURL     string
	httpClient *http.Client
	limiter    *rate.Limiter
	channels   *expirable.LRU[string, []Channel]
}

// NewClient creates a new Discord client with the given bot token.
func NewClient(token string) *Client {
	return &Client{
		token:      token,
		apiURL:     defaultAPIURL,
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(rate.Limit(25), 5),
		channels:   expirable.NewLRU[string, []Channel](channelCacheSize, nil, channelCacheTTL),
	}
}

// SetAPIURL overrides the default Discord API URL for testing purposes.
func (c *Client) SetAPIURL(url string) {
	c.apiURL = url
}

// SetRateLimit adjusts the outbound request ceiling (requests per second).
func (c *Client) SetRateLimit(rps float64) {
	if rps > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 5)
	}
}

// GetGuild fetches a guild by ID.
func (c *Client) GetGuild(ctx context.Context, guildID string) (*Guild, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/guilds/%s", c.apiURL, guildID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build get guild request: %w", err)
	}
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bot %s", c.token))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call discord get guild API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("discord API get guild error %d: %s", resp.StatusCode, string(raw))
	}

	var guild Guild
	if err := json.NewDecoder(resp.Body).Decode(&guild); err != nil {
		return nil, fmt.Errorf("failed to decode get guild response: %w", err)
	}
	return &guild, nil
}

// GuildChannels lists all channels of a guild. Results are served from a
// short-lived cache; create/delete calls invalidate the guild entry.
func (c *Client) GuildChannels(ctx context.Context, guildID string) ([]Channel, error) {
	if cached, ok := c.channels.Get(guildID); ok {
		return cached, nil
	}
	return c.RefreshGuildChannels(ctx, guildID)
}

// RefreshGuildChannels lists a guild's channels straight from the API,
// bypassing the cache. Callers that are about to act on a channel being
// absent must use this rather than a possibly stale cached list.
func (c *Client) RefreshGuildChannels(ctx context.Context, guildID string) ([]Channel, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/guilds/%s/channels", c.apiURL, guildID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build list channels request: %w", err)
	}
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bot %s", c.token))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call discord list channels API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("discord API list channels error %d: %s", resp.StatusCode, string(raw))
	}

	var channels []Channel
	if err := json.NewDecoder(resp.Body).Decode(&channels); err != nil {
		return nil, fmt.Errorf("failed to decode list channels response: %w", err)
	}

	c.channels.Add(guildID, channels)
	return channels, nil
}

// InvalidateChannels drops the cached channel list for a guild.
func (c *Client) InvalidateChannels(guildID string) {
	c.channels.Remove(guildID)
}

// CreateChannel creates a channel in the guild.
func (c *Client) CreateChannel(ctx context.Context, guildID string, req CreateChannelRequest) (*Channel, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/guilds/%s/channels", c.apiURL, guildID)
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal create channel request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build create channel request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bot %s", c.token))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call discord create channel API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("discord API create channel error %d: %s", resp.StatusCode, string(raw))
	}

	var channel Channel
	if err := json.NewDecoder(resp.Body).Decode(&channel); err != nil {
		return nil, fmt.Errorf("failed to decode create channel response: %w", err)
	}

	c.channels.Remove(guildID)
	return &channel, nil
}

// DeleteChannel deletes a channel. The guild ID is only used to invalidate
// the channel cache.
func (c *Client) DeleteChannel(ctx context.Context, guildID, channelID string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	url := fmt.Sprintf("%s/channels/%s", c.apiURL, channelID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build delete channel request: %w", err)
	}
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bot %s", c.token))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to call discord delete channel API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("discord API delete channel error %d: %s", resp.StatusCode, string(raw))
	}

	c.channels.Remove(guildID)
	return nil
}

// SendEmbed posts an embed message to a channel.
func (c *Client) SendEmbed(ctx context.Context, channelID string, embed Embed) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	url := fmt.Sprintf("%s/channels/%s/messages", c.apiURL, channelID)
	body, err := json.Marshal(sendMessageRequest{Embeds: []Embed{embed}})
	if err != nil {
		return fmt.Errorf("failed to marshal send message request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to build send message request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bot %s", c.token))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to call discord send message API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("discord API send message error %d: %s", resp.StatusCode, string(raw))
	}

	return nil
}

// ExecuteWebhook posts an embed to a Discord webhook URL. Webhooks carry
// their own token in the URL, so no Authorization header is sent.
func (c *Client) ExecuteWebhook(ctx context.Context, webhookURL string, embed Embed) error {
	body, err := json.Marshal(sendMessageRequest{Embeds: []Embed{embed}})
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to call discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("discord webhook error %d: %s", resp.StatusCode, string(raw))
	}

	return nil
}
