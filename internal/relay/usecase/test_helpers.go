package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"gitcord/internal/model"
	"gitcord/pkg/discord"
)

// Mock logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Debugf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Info(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Infof(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Warnf(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Error(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Errorf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, args ...any)                 {}
func (m *mockLogger) DPanicf(ctx context.Context, format string, args ...any) {}
func (m *mockLogger) Panic(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Panicf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Fatalf(ctx context.Context, format string, args ...any)  {}

// Mock destination repository
type mockDestinationRepo struct {
	records map[string]model.DestinationRecord
}

func (m *mockDestinationRepo) FindByRepo(ctx context.Context, repoKey string) (*model.DestinationRecord, error) {
	record, ok := m.records[repoKey]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (m *mockDestinationRepo) Insert(ctx context.Context, record model.DestinationRecord) error {
	m.records[record.RepoKey] = record
	return nil
}

func (m *mockDestinationRepo) DeleteByRepo(ctx context.Context, repoKey string) error {
	delete(m.records, repoKey)
	return nil
}

func (m *mockDestinationRepo) List(ctx context.Context) ([]model.DestinationRecord, error) {
	var records []model.DestinationRecord
	for _, r := range m.records {
		records = append(records, r)
	}
	return records, nil
}

// fakeDiscord simulates the subset of the Discord REST API the relay
// touches, including the real API's tolerance for duplicate channel names:
// a second create for the same name succeeds and produces a second channel.
type fakeDiscord struct {
	mu sync.Mutex

	guilds   map[string]string          // guild id → name
	channels map[string]discord.Channel // channel id → channel
	guildOf  map[string]string          // channel id → guild id
	nextID   int

	creates     int
	deletes     int
	channelMsgs map[string]int // channel id → messages received
	webhookMsgs int
	apiCalls    int

	failSend    bool
	failCreate  bool
	failDelete  bool
	failWebhook bool
	failList    bool
}

func newFakeDiscord() *fakeDiscord {
	return &fakeDiscord{
		guilds:      make(map[string]string),
		channels:    make(map[string]discord.Channel),
		guildOf:     make(map[string]string),
		channelMsgs: make(map[string]int),
	}
}

func (f *fakeDiscord) addGuild(id, name string) {
	f.guilds[id] = name
}

func (f *fakeDiscord) addChannel(guildID, id, name string, channelType int, parentID string) {
	f.channels[id] = discord.Channel{ID: id, Name: name, Type: channelType, ParentID: parentID}
	f.guildOf[id] = guildID
}

func (f *fakeDiscord) channelsOf(guildID string) []discord.Channel {
	channels := []discord.Channel{}
	for id, ch := range f.channels {
		if f.guildOf[id] == guildID {
			channels = append(channels, ch)
		}
	}
	return channels
}

func (f *fakeDiscord) channelsNamed(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, ch := range f.channels {
		if ch.Name == name && ch.Type == discord.ChannelTypeGuildText {
			n++
		}
	}
	return n
}

func (f *fakeDiscord) totalChannelMsgs() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.channelMsgs {
		n += c
	}
	return n
}

func (f *fakeDiscord) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

		switch {
		// POST /webhooks/{id}/{token}
		case r.Method == http.MethodPost && parts[0] == "webhooks":
			if f.failWebhook {
				http.Error(w, "webhook down", http.StatusInternalServerError)
				return
			}
			f.webhookMsgs++
			w.WriteHeader(http.StatusNoContent)

		// GET /guilds/{id}
		case r.Method == http.MethodGet && parts[0] == "guilds" && len(parts) == 2:
			f.apiCalls++
			name, ok := f.guilds[parts[1]]
			if !ok {
				http.Error(w, `{"message":"Unknown Guild"}`, http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(discord.Guild{ID: parts[1], Name: name})

		// GET /guilds/{id}/channels
		case r.Method == http.MethodGet && parts[0] == "guilds" && len(parts) == 3:
			f.apiCalls++
			if f.failList {
				http.Error(w, `{"message":"Missing Access"}`, http.StatusForbidden)
				return
			}
			json.NewEncoder(w).Encode(f.channelsOf(parts[1]))

		// POST /guilds/{id}/channels
		case r.Method == http.MethodPost && parts[0] == "guilds" && len(parts) == 3:
			f.apiCalls++
			if f.failCreate {
				http.Error(w, `{"message":"Missing Permissions"}`, http.StatusForbidden)
				return
			}
			var req discord.CreateChannelRequest
			json.NewDecoder(r.Body).Decode(&req)
			f.nextID++
			id := "ch-" + strconv.Itoa(f.nextID)
			f.channels[id] = discord.Channel{ID: id, Name: req.Name, Type: req.Type, ParentID: req.ParentID}
			f.guildOf[id] = parts[1]
			f.creates++
			json.NewEncoder(w).Encode(f.channels[id])

		// DELETE /channels/{id}
		case r.Method == http.MethodDelete && parts[0] == "channels" && len(parts) == 2:
			f.apiCalls++
			if f.failDelete {
				http.Error(w, `{"message":"Missing Permissions"}`, http.StatusForbidden)
				return
			}
			delete(f.channels, parts[1])
			delete(f.guildOf, parts[1])
			f.deletes++
			w.WriteHeader(http.StatusOK)

		// POST /channels/{id}/messages
		case r.Method == http.MethodPost && parts[0] == "channels" && len(parts) == 3:
			f.apiCalls++
			if f.failSend {
				http.Error(w, `{"message":"Missing Access"}`, http.StatusForbidden)
				return
			}
			if _, ok := f.channels[parts[1]]; !ok {
				http.Error(w, `{"message":"Unknown Channel"}`, http.StatusNotFound)
				return
			}
			f.channelMsgs[parts[1]]++
			w.WriteHeader(http.StatusOK)

		default:
			http.Error(w, fmt.Sprintf("unexpected request %s %s", r.Method, r.URL.Path), http.StatusNotFound)
		}
	})
}
