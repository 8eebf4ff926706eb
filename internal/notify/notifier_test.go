package notify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/KirkDiggler/alchemist-formulas/internal/domain/character"
	"github.com/KirkDiggler/alchemist-formulas/internal/domain/formula"
	"github.com/KirkDiggler/alchemist-formulas/internal/events"
	"github.com/KirkDiggler/alchemist-formulas/internal/notify"
	mocknotify "github.com/KirkDiggler/alchemist-formulas/internal/notify/mock"
)

var (
	acidModerate = &formula.Recipe{ID: "acid-2", Name: "Acid Flask (Moderate)", Level: 3}
	acidLesser   = &formula.Recipe{ID: "acid-1", Name: "Acid Flask (Lesser)", Level: 1}
	elixirLesser = &formula.Recipe{ID: "elixir-2", Name: "Elixir of Life (Lesser)", Level: 5}
)

type sentMessage struct {
	channelID string
	content   string
}

type fakeSender struct {
	sent []sentMessage
	err  error
}

func (f *fakeSender) ChannelMessageSend(channelID, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, sentMessage{channelID: channelID, content: content})
	return &discordgo.Message{ChannelID: channelID, Content: content}, nil
}

func TestMessages(t *testing.T) {
	assert.Equal(t,
		"**Fizzwick** has learned the following new formulas:\n\nAcid Flask (Moderate)\nElixir of Life (Lesser)",
		notify.LearnedMessage("Fizzwick", []*formula.Recipe{acidModerate, elixirLesser}))
	assert.Equal(t,
		"**Fizzwick** has removed the following lower-level formulas:\n\nAcid Flask (Lesser)",
		notify.RemovedMessage("Fizzwick", []*formula.Recipe{acidLesser}))

	assert.Empty(t, notify.LearnedMessage("Fizzwick", nil))
	assert.Empty(t, notify.RemovedMessage("Fizzwick", nil))

	assert.Equal(t,
		"**Powerful Alchemy:** Acid Flask (Moderate) has been updated to use Class DC 21!",
		notify.ClassDCMessage("Acid Flask (Moderate)", 21))
}

func TestChannelNotifier_ItemUpdates(t *testing.T) {
	sender := &fakeSender{}
	n := notify.NewChannelNotifier(sender, "chan-1")

	err := n.Announce(context.Background(), &notify.Announcement{
		ActorName: "Fizzwick",
		Items:     []notify.ItemUpdate{{Name: "Bottled Lightning (Lesser)", ClassDC: 19}},
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].content, "Bottled Lightning (Lesser) has been updated to use Class DC 19")
}

func TestChannelNotifier(t *testing.T) {
	sender := &fakeSender{}
	n := notify.NewChannelNotifier(sender, "chan-1")

	err := n.Announce(context.Background(), &notify.Announcement{
		ActorName: "Fizzwick",
		Learned:   []*formula.Recipe{acidModerate},
		Removed:   []*formula.Recipe{acidLesser},
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 2)
	assert.Equal(t, "chan-1", sender.sent[0].channelID)
	assert.Contains(t, sender.sent[0].content, "has learned")
	assert.Contains(t, sender.sent[1].content, "has removed")
}

func TestChannelNotifier_NothingToSay(t *testing.T) {
	sender := &fakeSender{}
	n := notify.NewChannelNotifier(sender, "chan-1")

	require.NoError(t, n.Announce(context.Background(), &notify.Announcement{ActorName: "Fizzwick"}))
	require.NoError(t, n.Announce(context.Background(), nil))
	assert.Empty(t, sender.sent)
}

func TestChannelNotifier_SendError(t *testing.T) {
	n := notify.NewChannelNotifier(&fakeSender{err: errors.New("missing access")}, "chan-1")

	err := n.Announce(context.Background(), &notify.Announcement{
		ActorName: "Fizzwick",
		Learned:   []*formula.Recipe{acidModerate},
	})
	assert.ErrorContains(t, err, "missing access")
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := notify.NewLogNotifier(zap.New(core))

	err := n.Announce(context.Background(), &notify.Announcement{
		ActorID:   "actor-1",
		ActorName: "Fizzwick",
		Removed:   []*formula.Recipe{acidLesser},
	})
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Lower-level formulas removed", entries[0].Message)
	assert.Equal(t, "actor-1", entries[0].ContextMap()["actor_id"])

	err = n.Announce(context.Background(), &notify.Announcement{
		ActorID: "actor-1",
		Items:   []notify.ItemUpdate{{Name: "Acid Flask (Lesser)", ClassDC: 21}},
	})
	require.NoError(t, err)
	require.Len(t, logs.All(), 2)
	last := logs.All()[1]
	assert.Equal(t, "Item updated to class DC", last.Message)
	assert.EqualValues(t, 21, last.ContextMap()["class_dc"])
}

func TestMulti_JoinsErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	first := mocknotify.NewMockNotifier(ctrl)
	second := mocknotify.NewMockNotifier(ctrl)
	announcement := &notify.Announcement{ActorName: "Fizzwick", Learned: []*formula.Recipe{acidModerate}}

	first.EXPECT().Announce(gomock.Any(), announcement).Return(errors.New("chat down"))
	second.EXPECT().Announce(gomock.Any(), announcement).Return(nil)

	err := notify.Multi{first, second}.Announce(context.Background(), announcement)
	assert.ErrorContains(t, err, "chat down")
}

func TestListener(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mocknotify.NewMockNotifier(ctrl)
	listener := notify.NewListener(notifier)

	notifier.EXPECT().Announce(gomock.Any(), &notify.Announcement{
		ActorID:   "actor-1",
		ActorName: "Fizzwick",
		Learned:   []*formula.Recipe{acidModerate},
	}).Return(nil)

	bus := events.NewBus(nil)
	bus.Subscribe(events.EventTypeFormulasReconciled, listener)

	err := bus.Emit(context.Background(), events.NewFormulasReconciledEvent(
		"run-1", "actor-1", "Fizzwick", []*formula.Recipe{acidModerate}, nil))
	require.NoError(t, err)

	// other events are ignored
	require.NoError(t, listener.HandleEvent(context.Background(), events.NewActorUpdatedEvent("actor-1", character.User{}, 3)))
}
