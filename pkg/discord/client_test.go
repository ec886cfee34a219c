package discord_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"gitcord/pkg/discord"
)

func newTestClient(handler http.Handler) (*discord.Client, *httptest.Server) {
	ts := httptest.NewServer(handler)
	c := discord.NewClient("test-token")
	c.SetAPIURL(ts.URL)
	c.SetRateLimit(1000)
	return c, ts
}

func TestGetGuild(t *testing.T) {
	var gotAuth string
	c, ts := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/guilds/g1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(discord.Guild{ID: "g1", Name: "dev guild"})
	}))
	defer ts.Close()

	guild, err := c.GetGuild(context.Background(), "g1")
	if err != nil {
		t.Fatalf("GetGuild failed: %v", err)
	}
	if guild.Name != "dev guild" {
		t.Errorf("unexpected guild name %q", guild.Name)
	}
	if gotAuth != "Bot test-token" {
		t.Errorf("unexpected auth header %q", gotAuth)
	}
}

func TestGetGuildNotFound(t *testing.T) {
	c, ts := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Unknown Guild"}`, http.StatusNotFound)
	}))
	defer ts.Close()

	if _, err := c.GetGuild(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for unknown guild")
	}
}

func TestGuildChannelsCaching(t *testing.T) {
	var fetches int64
	c, ts := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			atomic.AddInt64(&fetches, 1)
			json.NewEncoder(w).Encode([]discord.Channel{
				{ID: "cat1", Name: "acme", Type: discord.ChannelTypeGuildCategory},
			})
		case r.Method == http.MethodPost:
			json.NewEncoder(w).Encode(discord.Channel{ID: "ch1", Name: "main", Type: discord.ChannelTypeGuildText, ParentID: "cat1"})
		}
	}))
	defer ts.Close()

	ctx := context.Background()

	if _, err := c.GuildChannels(ctx, "g1"); err != nil {
		t.Fatalf("GuildChannels failed: %v", err)
	}
	if _, err := c.GuildChannels(ctx, "g1"); err != nil {
		t.Fatalf("GuildChannels failed: %v", err)
	}
	if got := atomic.LoadInt64(&fetches); got != 1 {
		t.Errorf("expected 1 upstream fetch for cached lookups, got %d", got)
	}

	// A create must invalidate the cache for read-after-write.
	if _, err := c.CreateChannel(ctx, "g1", discord.CreateChannelRequest{Name: "main", Type: discord.ChannelTypeGuildText, ParentID: "cat1"}); err != nil {
		t.Fatalf("CreateChannel failed: %v", err)
	}
	if _, err := c.GuildChannels(ctx, "g1"); err != nil {
		t.Fatalf("GuildChannels failed: %v", err)
	}
	if got := atomic.LoadInt64(&fetches); got != 2 {
		t.Errorf("expected refetch after create, got %d fetches", got)
	}
}

func TestDeleteChannelInvalidatesCache(t *testing.T) {
	var fetches int64
	c, ts := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			atomic.AddInt64(&fetches, 1)
			json.NewEncoder(w).Encode([]discord.Channel{})
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer ts.Close()

	ctx := context.Background()
	c.GuildChannels(ctx, "g1")

	if err := c.DeleteChannel(ctx, "g1", "ch1"); err != nil {
		t.Fatalf("DeleteChannel failed: %v", err)
	}
	c.GuildChannels(ctx, "g1")

	if got := atomic.LoadInt64(&fetches); got != 2 {
		t.Errorf("expected refetch after delete, got %d fetches", got)
	}
}

func TestSendEmbed(t *testing.T) {
	var gotPath string
	var gotBody struct {
		Embeds []discord.Embed `json:"embeds"`
	}
	c, ts := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	err := c.SendEmbed(context.Background(), "ch1", discord.Embed{Title: "New Event on acme"})
	if err != nil {
		t.Fatalf("SendEmbed failed: %v", err)
	}
	if gotPath != "/channels/ch1/messages" {
		t.Errorf("unexpected path %s", gotPath)
	}
	if len(gotBody.Embeds) != 1 || gotBody.Embeds[0].Title != "New Event on acme" {
		t.Errorf("unexpected embeds payload: %+v", gotBody.Embeds)
	}
}

func TestExecuteWebhookNon2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer ts.Close()

	c := discord.NewClient("test-token")
	if err := c.ExecuteWebhook(context.Background(), ts.URL, discord.Embed{}); err == nil {
		t.Fatal("expected error for non-2xx webhook response")
	}
}

func TestFindChannelHelpers(t *testing.T) {
	channels := []discord.Channel{
		{ID: "cat1", Name: "acme", Type: discord.ChannelTypeGuildCategory},
		{ID: "cat2", Name: "other", Type: discord.ChannelTypeGuildCategory},
		{ID: "ch1", Name: "main", Type: discord.ChannelTypeGuildText, ParentID: "cat1"},
		{ID: "ch2", Name: "main", Type: discord.ChannelTypeGuildText, ParentID: "cat2"},
	}

	cat := discord.FindCategory(channels, "Acme")
	if cat == nil || cat.ID != "cat1" {
		t.Fatalf("expected category cat1, got %+v", cat)
	}

	// Parent disambiguation: same branch name under two categories.
	ch := discord.FindTextChannel(channels, "main", "cat2")
	if ch == nil || ch.ID != "ch2" {
		t.Fatalf("expected channel ch2, got %+v", ch)
	}

	if got := discord.FindTextChannel(channels, "develop", "cat1"); got != nil {
		t.Errorf("expected nil for absent channel, got %+v", got)
	}
}
