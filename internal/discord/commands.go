package discord

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/KirkDiggler/alchemist-formulas/internal/domain/character"
	"github.com/KirkDiggler/alchemist-formulas/internal/domain/formula"
	alcherr "github.com/KirkDiggler/alchemist-formulas/internal/errors"
	"github.com/KirkDiggler/alchemist-formulas/internal/events"
	"github.com/KirkDiggler/alchemist-formulas/internal/repositories/actors"
	"github.com/KirkDiggler/alchemist-formulas/internal/services/formulas"
)

const (
	CommandLevelUp  = "levelup"
	CommandFormulas = "formulas"

	SubcommandPlan = "plan"
	SubcommandSync = "sync"

	optionActor = "actor"
	optionLevel = "level"

	// MaxLevel is the highest character level the commands accept
	MaxLevel = 20

	// levelUpTimeout bounds a /levelup run including every prompt it raises
	levelUpTimeout = 15 * time.Minute
)

// Commands returns the application commands the handler serves
func Commands() []*discordgo.ApplicationCommand {
	minLevel := float64(1)
	actorOption := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        optionActor,
		Description: "Actor ID",
		Required:    true,
	}
	levelOption := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        optionLevel,
		Description: "New level",
		Required:    true,
		MinValue:    &minLevel,
		MaxValue:    MaxLevel,
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        CommandLevelUp,
			Description: "Set an actor's level and update alchemist formulas",
			Options:     []*discordgo.ApplicationCommandOption{actorOption, levelOption},
		},
		{
			Name:        CommandFormulas,
			Description: "Alchemist formula bookkeeping",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        SubcommandPlan,
					Description: "Show what a level change would do to the formula book",
					Options:     []*discordgo.ApplicationCommandOption{actorOption, levelOption},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        SubcommandSync,
					Description: "Record current levels as processed (GM only)",
					Options: []*discordgo.ApplicationCommandOption{{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        optionActor,
						Description: "Actor ID, all party alchemists when empty",
					}},
				},
			},
		},
	}
}

// HandlerConfig holds dependencies for the interaction handler
type HandlerConfig struct {
	Session  Session
	Actors   actors.Repository
	Formulas formulas.Service
	EventBus *events.Bus

	// Prompter receives button clicks. Optional.
	Prompter *Prompter

	// GMRoleID marks members treated as GM. Administrators always are.
	GMRoleID string

	Logger *zap.Logger
}

// Handler serves the formula slash commands and prompt buttons
type Handler struct {
	session  Session
	actors   actors.Repository
	formulas formulas.Service
	bus      *events.Bus
	prompter *Prompter
	gmRoleID string
	logger   *zap.Logger

	// ctx bounds background level ups and is cancelled by Close
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewHandler creates the interaction handler
func NewHandler(cfg *HandlerConfig) *Handler {
	if cfg.Session == nil {
		panic("discord session is required")
	}
	if cfg.Actors == nil {
		panic("actor repository is required")
	}
	if cfg.Formulas == nil {
		panic("formula service is required")
	}
	if cfg.EventBus == nil {
		panic("event bus is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Handler{
		ctx:      ctx,
		cancel:   cancel,
		session:  cfg.Session,
		actors:   cfg.Actors,
		formulas: cfg.Formulas,
		bus:      cfg.EventBus,
		prompter: cfg.Prompter,
		gmRoleID: cfg.GMRoleID,
		logger:   logger.Named("discord"),
	}
}

// HandleInteraction is registered with discordgo's AddHandler
func (h *Handler) HandleInteraction(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := h.Handle(h.ctx, i); err != nil {
		h.logger.Error("Interaction failed", zap.String("interaction_id", i.ID), zap.Error(err))
	}
}

// Handle routes one interaction
func (h *Handler) Handle(ctx context.Context, i *discordgo.InteractionCreate) error {
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		if h.prompter == nil {
			return nil
		}
		_, err := h.prompter.HandleComponent(ctx, i)
		return err
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		switch data.Name {
		case CommandLevelUp:
			return h.handleLevelUp(ctx, i, data.Options)
		case CommandFormulas:
			if len(data.Options) == 0 {
				return nil
			}
			sub := data.Options[0]
			switch sub.Name {
			case SubcommandPlan:
				return h.handlePlan(ctx, i, sub.Options)
			case SubcommandSync:
				return h.handleSync(ctx, i, sub.Options)
			}
		}
	}
	return nil
}

// Wait blocks until running level ups finish
func (h *Handler) Wait() {
	h.wg.Wait()
}

// Close cancels running level ups and waits for them
func (h *Handler) Close() {
	h.cancel()
	h.wg.Wait()
}

// userFor maps the interaction member to a session user
func (h *Handler) userFor(i *discordgo.InteractionCreate) character.User {
	user := character.User{ID: interactionUserID(i), Active: true}
	if i.Member == nil {
		return user
	}
	if i.Member.User != nil {
		user.Name = i.Member.User.Username
	}
	if i.Member.Nick != "" {
		user.Name = i.Member.Nick
	}
	user.IsGM = i.Member.Permissions&discordgo.PermissionAdministrator != 0 ||
		(h.gmRoleID != "" && slices.Contains(i.Member.Roles, h.gmRoleID))
	return user
}

func (h *Handler) handleLevelUp(ctx context.Context, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	opts := optionMap(options)
	actorID := stringOption(opts, optionActor)
	level := int(intOption(opts, optionLevel))
	user := h.userFor(i)

	if actorID == "" || level < 1 || level > MaxLevel {
		return respondEphemeral(h.session, i, fmt.Sprintf("Provide an actor and a level between 1 and %d.", MaxLevel))
	}

	actor, err := h.actors.Get(ctx, actorID)
	if err != nil {
		if alcherr.IsNotFound(err) {
			return respondEphemeral(h.session, i, fmt.Sprintf("No actor with ID `%s`.", actorID))
		}
		return fmt.Errorf("failed to load actor %s: %w", actorID, err)
	}
	if !user.IsGM && !actor.IsOwnedBy(user.ID) {
		return respondEphemeral(h.session, i, fmt.Sprintf("You do not own **%s**.", actor.Name))
	}

	// Prompts can outlive the 3 second interaction window
	err = h.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		return fmt.Errorf("failed to defer level up: %w", err)
	}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()

		runCtx, cancel := context.WithTimeout(WithChannel(h.ctx, i.ChannelID), levelUpTimeout)
		defer cancel()

		content := h.levelUp(runCtx, actor, user, level)
		if _, err := h.session.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{Content: content}); err != nil {
			h.logger.Warn("Failed to send level up follow up", zap.String("actor_id", actor.ID), zap.Error(err))
		}
	}()
	return nil
}

// levelUp stores the level and lets listeners reconcile formulas
func (h *Handler) levelUp(ctx context.Context, actor *character.Character, user character.User, level int) string {
	log := h.logger.With(zap.String("actor_id", actor.ID), zap.Int("level", level))

	if err := h.actors.SetLevel(ctx, actor.ID, level); err != nil {
		log.Error("Failed to set level", zap.Error(err))
		return fmt.Sprintf("Could not update **%s**: %v", actor.Name, err)
	}

	event := events.NewActorUpdatedEvent(actor.ID, user, level)
	event.Online = []character.User{user}
	if err := h.bus.Emit(ctx, event); err != nil {
		log.Error("Formula update failed", zap.Error(err))
		return fmt.Sprintf("**%s** is now level %d, but updating formulas failed: %v", actor.Name, level, err)
	}

	return fmt.Sprintf("**%s** is now level %d.", actor.Name, level)
}

func (h *Handler) handlePlan(ctx context.Context, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	opts := optionMap(options)
	actorID := stringOption(opts, optionActor)
	level := int(intOption(opts, optionLevel))

	plan, err := h.formulas.Plan(ctx, actorID, level)
	if err != nil {
		return respondEphemeral(h.session, i, fmt.Sprintf("Cannot plan: %v", err))
	}
	return respondEphemeral(h.session, i, PlanText(plan))
}

func (h *Handler) handleSync(ctx context.Context, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	if !h.userFor(i).IsGM {
		return respondEphemeral(h.session, i, "Only a GM can sync levels.")
	}

	var ids []string
	if actorID := stringOption(optionMap(options), optionActor); actorID != "" {
		ids = []string{actorID}
	}

	synced, err := h.formulas.SyncPreviousLevels(ctx, ids)
	if err != nil {
		return respondEphemeral(h.session, i, fmt.Sprintf("Sync failed: %v", err))
	}
	return respondEphemeral(h.session, i, fmt.Sprintf("Recorded levels for %d alchemist(s).", synced))
}

// PlanText renders a dry run for chat
func PlanText(plan *formulas.PlanResult) string {
	name := plan.Actor.Name
	if plan.Outcome == nil || !plan.Outcome.Changed() {
		return fmt.Sprintf("**%s** (level %d → %d): no formula changes.", name, plan.PreviousLevel, plan.NewLevel)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s** (level %d → %d)\n", name, plan.PreviousLevel, plan.NewLevel)
	writeRecipes(&b, "Would learn", plan.Outcome.Accepted)
	writeRecipes(&b, "Would remove", plan.Outcome.Removed)
	if len(plan.Unresolved) > 0 {
		fmt.Fprintf(&b, "Unresolved: %s\n", strings.Join(plan.Unresolved, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeRecipes(b *strings.Builder, heading string, recipes []*formula.Recipe) {
	if len(recipes) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", heading)
	for _, recipe := range byLevel(recipes) {
		fmt.Fprintf(b, "- Level %d: %s\n", recipe.Level, recipe.Name)
	}
}

func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		opts[opt.Name] = opt
	}
	return opts
}

func stringOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if opt, ok := opts[name]; ok {
		return strings.TrimSpace(opt.StringValue())
	}
	return ""
}

func intOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) int64 {
	if opt, ok := opts[name]; ok {
		return opt.IntValue()
	}
	return 0
}
