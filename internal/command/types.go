package command

import "context"

// Interaction wire constants (subset of the Discord interactions API).
const (
	InteractionTypePing    = 1
	InteractionTypeCommand = 2

	ResponseTypePong           = 1
	ResponseTypeChannelMessage = 4

	MessageFlagEphemeral = 64
)

// Interaction is an inbound interaction event.
type Interaction struct {
	Type int              `json:"type"`
	Data *InteractionData `json:"data,omitempty"`
}

// InteractionData carries the invoked command name and its options.
type InteractionData struct {
	Name    string              `json:"name"`
	Options []InteractionOption `json:"options,omitempty"`
}

// InteractionOption is a single named command argument.
type InteractionOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// InteractionResponse is the reply sent back to the interaction originator.
type InteractionResponse struct {
	Type int                      `json:"type"`
	Data *InteractionResponseData `json:"data,omitempty"`
}

type InteractionResponseData struct {
	Content string `json:"content,omitempty"`
	Flags   int    `json:"flags,omitempty"`
}

// Options gives by-name access to a command's arguments.
type Options map[string]string

// Command couples a slash command name with its executable handler.
// Execute returns the reply text shown to the originator.
type Command struct {
	Name        string
	Description string
	Execute     func(ctx context.Context, opts Options) (string, error)
}
