package discord

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/alchemist-formulas/internal/domain/formula"
	"github.com/KirkDiggler/alchemist-formulas/internal/events"
	"github.com/KirkDiggler/alchemist-formulas/internal/reconciler"
	"github.com/KirkDiggler/alchemist-formulas/internal/repositories/actors"
	"github.com/KirkDiggler/alchemist-formulas/internal/services/formulas"
	mockformulas "github.com/KirkDiggler/alchemist-formulas/internal/services/formulas/mock"
	"github.com/KirkDiggler/alchemist-formulas/internal/testutils"
)

// updateRecorder captures level change events and the channel they carry
type updateRecorder struct {
	mu       sync.Mutex
	updates  []*events.ActorUpdatedEvent
	channels []string
	err      error
}

func (r *updateRecorder) ID() string    { return "update-recorder" }
func (r *updateRecorder) Priority() int { return events.PriorityBookkeeping }
func (r *updateRecorder) HandleEvent(ctx context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, event.(*events.ActorUpdatedEvent))
	channelID, _ := ChannelFromContext(ctx)
	r.channels = append(r.channels, channelID)
	return r.err
}

type HandlerTestSuite struct {
	suite.Suite

	ctrl     *gomock.Controller
	session  *fakeSession
	repo     *actors.InMemoryRepository
	service  *mockformulas.MockService
	recorder *updateRecorder
	handler  *Handler
	ctx      context.Context
}

func (s *HandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.session = newFakeSession()
	s.repo = actors.NewInMemoryRepository()
	s.service = mockformulas.NewMockService(s.ctrl)
	s.recorder = &updateRecorder{}
	s.ctx = context.Background()

	bus := events.NewBus(nil)
	bus.Subscribe(events.EventTypeActorUpdated, s.recorder)

	s.Require().NoError(s.repo.Create(s.ctx, testutils.CreateTestAlchemist("actor-1", "player-1", "Fizzwick", 3)))

	s.handler = NewHandler(&HandlerConfig{
		Session:  s.session,
		Actors:   s.repo,
		Formulas: s.service,
		EventBus: bus,
		Prompter: NewPrompter(&PrompterConfig{Session: s.session}),
		GMRoleID: "role-gm",
	})
}

func (s *HandlerTestSuite) TearDownTest() {
	s.handler.Close()
}

func command(userID string, roles []string, name string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:        "interaction-1",
		Type:      discordgo.InteractionApplicationCommand,
		ChannelID: "chan-1",
		Member:    &discordgo.Member{User: &discordgo.User{ID: userID, Username: userID}, Roles: roles},
		Data: discordgo.ApplicationCommandInteractionData{
			Name:    name,
			Options: options,
		},
	}}
}

func stringOpt(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

func intOpt(name string, value int) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionInteger,
		Value: float64(value),
	}
}

func subcommand(name string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:    name,
		Type:    discordgo.ApplicationCommandOptionSubCommand,
		Options: options,
	}
}

func (s *HandlerTestSuite) TestLevelUp_OwnerEmitsUpdate() {
	err := s.handler.Handle(s.ctx, command("player-1", nil, CommandLevelUp,
		stringOpt(optionActor, "actor-1"), intOpt(optionLevel, 5)))
	s.Require().NoError(err)
	s.handler.Wait()

	s.Equal(discordgo.InteractionResponseDeferredChannelMessageWithSource, s.session.responses[0].Type)

	actor, err := s.repo.Get(s.ctx, "actor-1")
	s.Require().NoError(err)
	s.Equal(5, actor.Level)
	s.Equal(1, actor.PreviousLevel)

	s.Require().Len(s.recorder.updates, 1)
	update := s.recorder.updates[0]
	s.Equal("actor-1", update.GetActorID())
	s.Equal(5, *update.Level)
	s.Equal("player-1", update.User.ID)
	s.False(update.User.IsGM)
	s.Len(update.Online, 1)
	s.Equal("chan-1", s.recorder.channels[0])

	s.Require().Len(s.session.followups, 1)
	s.Equal("**Fizzwick** is now level 5.", s.session.followups[0].Content)
}

func (s *HandlerTestSuite) TestLevelUp_GMRoleMayUpdateAnyActor() {
	err := s.handler.Handle(s.ctx, command("gm-1", []string{"role-gm"}, CommandLevelUp,
		stringOpt(optionActor, "actor-1"), intOpt(optionLevel, 4)))
	s.Require().NoError(err)
	s.handler.Wait()

	s.Require().Len(s.recorder.updates, 1)
	s.True(s.recorder.updates[0].User.IsGM)
}

func (s *HandlerTestSuite) TestLevelUp_ListenerFailureIsReported() {
	s.recorder.err = errors.New("catalog offline")

	err := s.handler.Handle(s.ctx, command("player-1", nil, CommandLevelUp,
		stringOpt(optionActor, "actor-1"), intOpt(optionLevel, 5)))
	s.Require().NoError(err)
	s.handler.Wait()

	s.Require().Len(s.session.followups, 1)
	s.Contains(s.session.followups[0].Content, "updating formulas failed")
	s.Contains(s.session.followups[0].Content, "catalog offline")
}

func (s *HandlerTestSuite) TestLevelUp_Rejected() {
	tests := []struct {
		name    string
		userID  string
		options []*discordgo.ApplicationCommandInteractionDataOption
		want    string
	}{
		{
			name:    "not the owner",
			userID:  "player-2",
			options: []*discordgo.ApplicationCommandInteractionDataOption{stringOpt(optionActor, "actor-1"), intOpt(optionLevel, 5)},
			want:    "You do not own **Fizzwick**.",
		},
		{
			name:    "unknown actor",
			userID:  "player-1",
			options: []*discordgo.ApplicationCommandInteractionDataOption{stringOpt(optionActor, "actor-9"), intOpt(optionLevel, 5)},
			want:    "No actor with ID `actor-9`.",
		},
		{
			name:    "level out of range",
			userID:  "player-1",
			options: []*discordgo.ApplicationCommandInteractionDataOption{stringOpt(optionActor, "actor-1"), intOpt(optionLevel, 21)},
			want:    "Provide an actor and a level between 1 and 20.",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			err := s.handler.Handle(s.ctx, command(tt.userID, nil, CommandLevelUp, tt.options...))
			s.Require().NoError(err)

			resp := s.session.lastResponse()
			s.Equal(tt.want, resp.Data.Content)
			s.Equal(discordgo.MessageFlagsEphemeral, resp.Data.Flags)
		})
	}
	s.Empty(s.recorder.updates)
}

func (s *HandlerTestSuite) TestFormulasPlan() {
	actor := testutils.CreateTestAlchemist("actor-1", "player-1", "Fizzwick", 3)
	s.service.EXPECT().Plan(gomock.Any(), "actor-1", 5).Return(&formulas.PlanResult{
		Actor:         actor,
		PreviousLevel: 1,
		NewLevel:      5,
		Outcome: &reconciler.Outcome{
			Accepted: []*formula.Recipe{
				{ID: "elixir-2", Name: "Elixir of Life (Lesser)", Level: 5},
				{ID: "acid-2", Name: "Acid Flask (Moderate)", Level: 3},
			},
			Removed: []*formula.Recipe{{ID: "acid-1", Name: "Acid Flask (Lesser)", Level: 1}},
		},
		Unresolved: []string{"Compendium.deleted.Item.old"},
	}, nil)

	err := s.handler.Handle(s.ctx, command("player-1", nil, CommandFormulas,
		subcommand(SubcommandPlan, stringOpt(optionActor, "actor-1"), intOpt(optionLevel, 5))))
	s.Require().NoError(err)

	s.Equal("**Fizzwick** (level 1 → 5)\n"+
		"Would learn:\n"+
		"- Level 3: Acid Flask (Moderate)\n"+
		"- Level 5: Elixir of Life (Lesser)\n"+
		"Would remove:\n"+
		"- Level 1: Acid Flask (Lesser)\n"+
		"Unresolved: Compendium.deleted.Item.old", s.session.lastResponse().Data.Content)
}

func (s *HandlerTestSuite) TestFormulasPlan_NothingToDo() {
	s.service.EXPECT().Plan(gomock.Any(), "actor-1", 3).Return(&formulas.PlanResult{
		Actor:         testutils.CreateTestAlchemist("actor-1", "player-1", "Fizzwick", 3),
		PreviousLevel: 3,
		NewLevel:      3,
	}, nil)

	err := s.handler.Handle(s.ctx, command("player-1", nil, CommandFormulas,
		subcommand(SubcommandPlan, stringOpt(optionActor, "actor-1"), intOpt(optionLevel, 3))))
	s.Require().NoError(err)

	s.Equal("**Fizzwick** (level 3 → 3): no formula changes.", s.session.lastResponse().Data.Content)
}

func (s *HandlerTestSuite) TestFormulasSync() {
	err := s.handler.Handle(s.ctx, command("player-1", nil, CommandFormulas, subcommand(SubcommandSync)))
	s.Require().NoError(err)
	s.Equal("Only a GM can sync levels.", s.session.lastResponse().Data.Content)

	s.service.EXPECT().SyncPreviousLevels(gomock.Any(), []string(nil)).Return(2, nil)
	err = s.handler.Handle(s.ctx, command("gm-1", []string{"role-gm"}, CommandFormulas, subcommand(SubcommandSync)))
	s.Require().NoError(err)
	s.Equal("Recorded levels for 2 alchemist(s).", s.session.lastResponse().Data.Content)

	s.service.EXPECT().SyncPreviousLevels(gomock.Any(), []string{"actor-1"}).Return(1, nil)
	err = s.handler.Handle(s.ctx, command("gm-1", []string{"role-gm"}, CommandFormulas,
		subcommand(SubcommandSync, stringOpt(optionActor, "actor-1"))))
	s.Require().NoError(err)
	s.Equal("Recorded levels for 1 alchemist(s).", s.session.lastResponse().Data.Content)
}

func (s *HandlerTestSuite) TestComponentsReachPrompter() {
	err := s.handler.Handle(s.ctx, click("player-1", "formula:confirm:gone:yes"))
	s.Require().NoError(err)
	s.Equal("This prompt has expired.", s.session.lastResponse().Data.Content)
}

func (s *HandlerTestSuite) TestCommandsDefinition() {
	commands := Commands()
	s.Require().Len(commands, 2)
	s.Equal(CommandLevelUp, commands[0].Name)
	s.Equal(float64(MaxLevel), commands[0].Options[1].MaxValue)
	s.Len(commands[1].Options, 2)
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
