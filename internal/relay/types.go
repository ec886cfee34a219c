package relay

// ProcessResult reports what a processed event did, per sink.
type ProcessResult struct {
	ChannelID       string // Branch channel the notice targeted, if any
	ChannelCreated  bool   // Lifecycle transition absent→present happened
	ChannelDeleted  bool   // Lifecycle transition present→absent happened
	ChannelNotified bool   // Notice delivered to the branch channel
	WebhookNotified bool   // Notice delivered to the fallback webhook
}
