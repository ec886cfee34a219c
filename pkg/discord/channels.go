package discord

import "strings"

// FindCategory returns the category channel with the given name, or nil.
// Name comparison is case-insensitive, matching Discord's lowercasing of
// channel names.
func FindCategory(channels []Channel, name string) *Channel {
	for i := range channels {
		if channels[i].Type == ChannelTypeGuildCategory && strings.EqualFold(channels[i].Name, name) {
			return &channels[i]
		}
	}
	return nil
}

// FindTextChannel returns the text channel with the given name under the
// given parent category, or nil. The parent match matters: branch names are
// not unique across repositories sharing a guild.
func FindTextChannel(channels []Channel, name, parentID string) *Channel {
	for i := range channels {
		if channels[i].Type == ChannelTypeGuildText &&
			strings.EqualFold(channels[i].Name, name) &&
			channels[i].ParentID == parentID {
			return &channels[i]
		}
	}
	return nil
}
