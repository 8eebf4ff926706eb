package discord

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// fakeSession records every call and signals posted prompts on sent
type fakeSession struct {
	mu        sync.Mutex
	messages  []*discordgo.MessageSend
	channels  []string
	edits     []*discordgo.MessageEdit
	responses []*discordgo.InteractionResponse
	followups []*discordgo.WebhookParams

	sendErr error
	sent    chan *discordgo.MessageSend
}

func newFakeSession() *fakeSession {
	return &fakeSession{sent: make(chan *discordgo.MessageSend, 10)}
}

func (f *fakeSession) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}

	f.mu.Lock()
	f.messages = append(f.messages, data)
	f.channels = append(f.channels, channelID)
	id := fmt.Sprintf("msg-%d", len(f.messages))
	f.mu.Unlock()

	f.sent <- data
	return &discordgo.Message{ID: id, ChannelID: channelID}, nil
}

func (f *fakeSession) ChannelMessageEditComplex(edit *discordgo.MessageEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, edit)
	return &discordgo.Message{ID: edit.ID, ChannelID: edit.Channel}, nil
}

func (f *fakeSession) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, resp)
	return nil
}

func (f *fakeSession) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.followups = append(f.followups, data)
	return &discordgo.Message{}, nil
}

func (f *fakeSession) lastResponse() *discordgo.InteractionResponse {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.responses) == 0 {
		return nil
	}
	return f.responses[len(f.responses)-1]
}

func (f *fakeSession) editCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.edits)
}

// buttonIDs returns the custom IDs of a prompt's Yes and No buttons
func buttonIDs(msg *discordgo.MessageSend) (yes, no string) {
	row := msg.Components[0].(discordgo.ActionsRow)
	return row.Components[0].(discordgo.Button).CustomID, row.Components[1].(discordgo.Button).CustomID
}

func click(userID, customID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:     "interaction-" + userID,
		Type:   discordgo.InteractionMessageComponent,
		Member: &discordgo.Member{User: &discordgo.User{ID: userID}},
		Data: discordgo.MessageComponentInteractionData{
			CustomID:      customID,
			ComponentType: discordgo.ButtonComponent,
		},
	}}
}
