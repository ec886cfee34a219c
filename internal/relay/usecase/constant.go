package usecase

// Embed appearance.
const (
	embedColor      = 0x00ff00
	embedFooterText = "GitHub -> Discord Integration"
)
