package notify

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// MessageSender is the part of *discordgo.Session the channel notifier needs
type MessageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// ChannelNotifier posts announcements to a Discord channel
type ChannelNotifier struct {
	sender    MessageSender
	channelID string
}

// NewChannelNotifier creates a channel notifier
func NewChannelNotifier(sender MessageSender, channelID string) *ChannelNotifier {
	if sender == nil {
		panic("message sender is required")
	}
	return &ChannelNotifier{sender: sender, channelID: channelID}
}

// Announce sends one message for learned formulas, one for removed ones
// and one per updated item
func (n *ChannelNotifier) Announce(ctx context.Context, announcement *Announcement) error {
	for _, content := range announcement.Messages() {
		if _, err := n.sender.ChannelMessageSend(n.channelID, content, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("failed to post announcement: %w", err)
		}
	}
	return nil
}
