package usecase

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"

	"gitcord/internal/model"
	"gitcord/internal/relay"
	"gitcord/pkg/discord"
)

type testEnv struct {
	uc   *implUseCase
	fake *fakeDiscord
	repo *mockDestinationRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	fake := newFakeDiscord()
	fake.addGuild("g1", "dev guild")
	fake.addChannel("g1", "cat-acme", "acme", discord.ChannelTypeGuildCategory, "")

	ts := httptest.NewServer(fake.handler())
	t.Cleanup(ts.Close)

	client := discord.NewClient("test-token")
	client.SetAPIURL(ts.URL)
	client.SetRateLimit(10000)

	repo := &mockDestinationRepo{records: map[string]model.DestinationRecord{
		"acme": {RepoKey: "acme", WebhookURL: ts.URL + "/webhooks/1/token", GuildID: "g1"},
	}}

	return &testEnv{
		uc:   New(&mockLogger{}, repo, client),
		fake: fake,
		repo: repo,
	}
}

func pushEvent() model.RepoEvent {
	return model.RepoEvent{
		RepoKey:   "acme",
		Branch:    "main",
		Author:    "bob",
		Message:   "fix bug",
		SourceURL: "http://x/1",
	}
}

func deleteEvent() model.RepoEvent {
	event := pushEvent()
	event.IsDeletion = true
	event.Message = "Branch deletion main"
	return event
}

func TestProcessEvent_CreatesChannelAndNotifies(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.uc.ProcessEvent(context.Background(), pushEvent())
	if err != nil {
		t.Fatalf("ProcessEvent failed: %v", err)
	}

	if !result.ChannelCreated {
		t.Error("expected ChannelCreated")
	}
	if !result.ChannelNotified || !result.WebhookNotified {
		t.Errorf("expected both sinks notified, got channel=%v webhook=%v", result.ChannelNotified, result.WebhookNotified)
	}
	if env.fake.creates != 1 {
		t.Errorf("expected exactly 1 channel creation, got %d", env.fake.creates)
	}
	if got := env.fake.channelsNamed("main"); got != 1 {
		t.Errorf("expected exactly 1 main channel, got %d", got)
	}
	if got := env.fake.totalChannelMsgs(); got != 1 {
		t.Errorf("expected 1 channel message, got %d", got)
	}
	if env.fake.webhookMsgs != 1 {
		t.Errorf("expected 1 webhook message, got %d", env.fake.webhookMsgs)
	}
}

func TestProcessEvent_ExistingChannelIsReused(t *testing.T) {
	env := newTestEnv(t)
	env.fake.addChannel("g1", "ch-main", "main", discord.ChannelTypeGuildText, "cat-acme")

	result, err := env.uc.ProcessEvent(context.Background(), pushEvent())
	if err != nil {
		t.Fatalf("ProcessEvent failed: %v", err)
	}

	if result.ChannelCreated {
		t.Error("expected no lifecycle change for existing channel")
	}
	if result.ChannelID != "ch-main" {
		t.Errorf("expected notice to target ch-main, got %s", result.ChannelID)
	}
	if env.fake.creates != 0 {
		t.Errorf("expected no creates, got %d", env.fake.creates)
	}
}

func TestProcessEvent_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.uc.ProcessEvent(ctx, pushEvent()); err != nil {
		t.Fatalf("first event failed: %v", err)
	}
	if _, err := env.uc.ProcessEvent(ctx, pushEvent()); err != nil {
		t.Fatalf("second event failed: %v", err)
	}

	if env.fake.creates != 1 {
		t.Errorf("expected 1 creation across both events, got %d", env.fake.creates)
	}
	if got := env.fake.channelsNamed("main"); got != 1 {
		t.Errorf("expected exactly 1 main channel, got %d", got)
	}
	if got := env.fake.totalChannelMsgs(); got != 2 {
		t.Errorf("expected 2 channel messages, got %d", got)
	}
}

func TestProcessEvent_ConcurrentSameBranch(t *testing.T) {
	env := newTestEnv(t)
	const n = 8

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := env.uc.ProcessEvent(context.Background(), pushEvent()); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent event failed: %v", err)
	}
	if env.fake.creates != 1 {
		t.Errorf("expected exactly 1 creation under concurrency, got %d", env.fake.creates)
	}
	if got := env.fake.channelsNamed("main"); got != 1 {
		t.Errorf("expected exactly 1 main channel, got %d", got)
	}
	if got := env.fake.totalChannelMsgs(); got != n {
		t.Errorf("expected %d channel messages (no lost events), got %d", n, got)
	}
	if env.fake.webhookMsgs != n {
		t.Errorf("expected %d webhook messages, got %d", n, env.fake.webhookMsgs)
	}
}

func TestProcessEvent_DeletionRemovesChannel(t *testing.T) {
	env := newTestEnv(t)
	env.fake.addChannel("g1", "ch-main", "main", discord.ChannelTypeGuildText, "cat-acme")

	result, err := env.uc.ProcessEvent(context.Background(), deleteEvent())
	if err != nil {
		t.Fatalf("ProcessEvent failed: %v", err)
	}

	if !result.ChannelDeleted {
		t.Error("expected ChannelDeleted")
	}
	if got := env.fake.channelsNamed("main"); got != 0 {
		t.Errorf("expected channel gone, still have %d", got)
	}
	if got := env.fake.totalChannelMsgs(); got != 0 {
		t.Errorf("deleted channel must not be notified, got %d messages", got)
	}
	// The fallback webhook still gets the deletion notice.
	if env.fake.webhookMsgs != 1 {
		t.Errorf("expected 1 webhook message, got %d", env.fake.webhookMsgs)
	}
}

func TestProcessEvent_DeletionWithoutChannelIsNoop(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.uc.ProcessEvent(context.Background(), deleteEvent())
	if err != nil {
		t.Fatalf("expected no-op success, got %v", err)
	}
	if result.ChannelDeleted {
		t.Error("no channel existed, nothing should have been deleted")
	}
	if env.fake.deletes != 0 {
		t.Errorf("expected no delete calls, got %d", env.fake.deletes)
	}
	if env.fake.webhookMsgs != 1 {
		t.Errorf("expected webhook still notified, got %d", env.fake.webhookMsgs)
	}
}

func TestProcessEvent_DeletionWebhookFailure(t *testing.T) {
	env := newTestEnv(t)
	env.fake.addChannel("g1", "ch-main", "main", discord.ChannelTypeGuildText, "cat-acme")
	env.fake.failWebhook = true

	result, err := env.uc.ProcessEvent(context.Background(), deleteEvent())
	if !errors.Is(err, relay.ErrWebhookSendFailed) {
		t.Fatalf("webhook was the only sink after deletion; expected ErrWebhookSendFailed, got %v", err)
	}
	if !result.ChannelDeleted {
		t.Error("the deletion itself succeeded and should be reported")
	}
	if result.WebhookNotified {
		t.Error("failed webhook sink must not be reported as notified")
	}
}

func TestProcessEvent_UnregisteredRepo(t *testing.T) {
	env := newTestEnv(t)

	event := pushEvent()
	event.RepoKey = "unknown"

	_, err := env.uc.ProcessEvent(context.Background(), event)
	if !errors.Is(err, relay.ErrNoDestination) {
		t.Fatalf("expected ErrNoDestination, got %v", err)
	}
	if env.fake.apiCalls != 0 || env.fake.webhookMsgs != 0 {
		t.Errorf("unregistered repo must trigger no Discord calls, got %d API calls, %d webhook messages", env.fake.apiCalls, env.fake.webhookMsgs)
	}
}

func TestProcessEvent_IncompleteRecordIsNoDestination(t *testing.T) {
	env := newTestEnv(t)
	env.repo.records["acme"] = model.DestinationRecord{RepoKey: "acme", WebhookURL: "", GuildID: "g1"}

	_, err := env.uc.ProcessEvent(context.Background(), pushEvent())
	if !errors.Is(err, relay.ErrNoDestination) {
		t.Fatalf("expected ErrNoDestination for empty webhook URL, got %v", err)
	}
}

func TestProcessEvent_GuildUnreachable(t *testing.T) {
	env := newTestEnv(t)
	env.repo.records["acme"] = model.DestinationRecord{RepoKey: "acme", WebhookURL: "https://hook", GuildID: "gone"}

	_, err := env.uc.ProcessEvent(context.Background(), pushEvent())
	if !errors.Is(err, relay.ErrGuildUnreachable) {
		t.Fatalf("expected ErrGuildUnreachable, got %v", err)
	}
}

func TestProcessEvent_ChannelListFailureIsGuildUnreachable(t *testing.T) {
	env := newTestEnv(t)
	env.fake.failList = true

	_, err := env.uc.ProcessEvent(context.Background(), pushEvent())
	if !errors.Is(err, relay.ErrGuildUnreachable) {
		t.Fatalf("expected ErrGuildUnreachable when channels cannot be listed, got %v", err)
	}
	if env.fake.creates != 0 || env.fake.webhookMsgs != 0 {
		t.Errorf("no lifecycle change or delivery expected, got %d creates, %d webhook messages", env.fake.creates, env.fake.webhookMsgs)
	}
}

func TestProcessEvent_CategoryMissing(t *testing.T) {
	env := newTestEnv(t)

	event := pushEvent()
	event.RepoKey = "acme"
	env.fake.mu.Lock()
	delete(env.fake.channels, "cat-acme")
	delete(env.fake.guildOf, "cat-acme")
	env.fake.mu.Unlock()

	_, err := env.uc.ProcessEvent(context.Background(), event)
	if !errors.Is(err, relay.ErrCategoryMissing) {
		t.Fatalf("expected ErrCategoryMissing, got %v", err)
	}
	if env.fake.creates != 0 {
		t.Errorf("expected no channel creation, got %d", env.fake.creates)
	}
}

func TestProcessEvent_ChannelSendFailureDoesNotSuppressWebhook(t *testing.T) {
	env := newTestEnv(t)
	env.fake.failSend = true

	result, err := env.uc.ProcessEvent(context.Background(), pushEvent())
	if err != nil {
		t.Fatalf("one surviving sink should mean success, got %v", err)
	}
	if result.ChannelNotified {
		t.Error("channel sink should have failed")
	}
	if !result.WebhookNotified {
		t.Error("webhook sink must still be attempted and succeed")
	}
	if env.fake.webhookMsgs != 1 {
		t.Errorf("expected 1 webhook message, got %d", env.fake.webhookMsgs)
	}
}

func TestProcessEvent_BothSinksFail(t *testing.T) {
	env := newTestEnv(t)
	env.fake.failSend = true
	env.fake.failWebhook = true

	_, err := env.uc.ProcessEvent(context.Background(), pushEvent())
	if !errors.Is(err, relay.ErrChannelSendFailed) {
		t.Errorf("combined failure should report the channel cause, got %v", err)
	}
	if !errors.Is(err, relay.ErrWebhookSendFailed) {
		t.Errorf("combined failure should report the webhook cause, got %v", err)
	}
}

func TestProcessEvent_CreateFailureAbortsDispatch(t *testing.T) {
	env := newTestEnv(t)
	env.fake.failCreate = true

	_, err := env.uc.ProcessEvent(context.Background(), pushEvent())
	if !errors.Is(err, relay.ErrChannelCreateFailed) {
		t.Fatalf("expected ErrChannelCreateFailed, got %v", err)
	}
	if got := env.fake.totalChannelMsgs(); got != 0 {
		t.Errorf("expected no channel messages after failed create, got %d", got)
	}
	if env.fake.webhookMsgs != 0 {
		t.Errorf("expected no webhook delivery after failed create, got %d", env.fake.webhookMsgs)
	}
}

func TestProcessEvent_DeleteFailureAbortsDispatch(t *testing.T) {
	env := newTestEnv(t)
	env.fake.addChannel("g1", "ch-main", "main", discord.ChannelTypeGuildText, "cat-acme")
	env.fake.failDelete = true

	_, err := env.uc.ProcessEvent(context.Background(), deleteEvent())
	if !errors.Is(err, relay.ErrChannelDeleteFailed) {
		t.Fatalf("expected ErrChannelDeleteFailed, got %v", err)
	}
	if env.fake.webhookMsgs != 0 {
		t.Errorf("expected no delivery after failed delete, got %d webhook messages", env.fake.webhookMsgs)
	}
}
