package relay

import "errors"

// Domain-specific errors for the relay package. The HTTP boundary maps
// these onto status codes: malformed events are acknowledged, resolution
// and lifecycle failures are 400, delivery failures are 500.
var (
	ErrMalformedEvent      = errors.New("payload is not a push or delete event")
	ErrNoDestination       = errors.New("no destination registered for repository")
	ErrGuildUnreachable    = errors.New("registered guild is not reachable")
	ErrCategoryMissing     = errors.New("no category channel provisioned for repository")
	ErrChannelCreateFailed = errors.New("failed to create branch channel")
	ErrChannelDeleteFailed = errors.New("failed to delete branch channel")
	ErrChannelSendFailed   = errors.New("failed to send notice to branch channel")
	ErrWebhookSendFailed   = errors.New("failed to send notice to fallback webhook")
)
