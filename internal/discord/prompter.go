package discord

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/KirkDiggler/alchemist-formulas/internal/domain/character"
	alcherr "github.com/KirkDiggler/alchemist-formulas/internal/errors"
	"github.com/KirkDiggler/alchemist-formulas/internal/reconciler"
	"github.com/KirkDiggler/alchemist-formulas/internal/uuid"
)

const (
	// DefaultPromptTimeout is how long a prompt waits before counting as declined
	DefaultPromptTimeout = 2 * time.Minute

	expireEditTimeout = 5 * time.Second
)

// PrompterConfig holds configuration for the button prompter
type PrompterConfig struct {
	Session Session

	// DefaultChannelID is used when the context carries no channel
	DefaultChannelID string

	Timeout       time.Duration
	UUIDGenerator uuid.Generator
	Logger        *zap.Logger
}

// Prompter asks formula questions with Yes/No buttons and waits for the click
type Prompter struct {
	session          Session
	defaultChannelID string
	timeout          time.Duration
	uuidGenerator    uuid.Generator
	logger           *zap.Logger

	mu      sync.Mutex
	pending map[string]*pendingPrompt
}

type pendingPrompt struct {
	userID string
	prompt *reconciler.Prompt
	answer chan bool
}

// NewPrompter creates a button prompter
func NewPrompter(cfg *PrompterConfig) *Prompter {
	if cfg.Session == nil {
		panic("discord session is required")
	}

	p := &Prompter{
		session:          cfg.Session,
		defaultChannelID: cfg.DefaultChannelID,
		timeout:          cfg.Timeout,
		uuidGenerator:    cfg.UUIDGenerator,
		logger:           cfg.Logger,
		pending:          make(map[string]*pendingPrompt),
	}
	if p.timeout <= 0 {
		p.timeout = DefaultPromptTimeout
	}
	if p.uuidGenerator == nil {
		p.uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	p.logger = p.logger.Named("prompter")
	return p
}

// ConfirmerFor returns a confirmer that only accepts clicks from user.
// Its signature matches formulas.ConfirmerFactory.
func (p *Prompter) ConfirmerFor(ctx context.Context, user character.User, actorID string) reconciler.Confirmer {
	channelID, ok := ChannelFromContext(ctx)
	if !ok {
		channelID = p.defaultChannelID
	}

	return reconciler.ConfirmFunc(func(ctx context.Context, prompt *reconciler.Prompt) (bool, error) {
		return p.Ask(ctx, channelID, user.ID, prompt)
	})
}

// Pending returns the number of unanswered prompts
func (p *Prompter) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

// Ask posts the prompt in channelID and blocks until userID answers, the
// prompt times out or ctx is done. A timeout returns an Unavailable error.
func (p *Prompter) Ask(ctx context.Context, channelID, userID string, prompt *reconciler.Prompt) (bool, error) {
	if channelID == "" {
		return false, alcherr.InvalidArgument("no channel to prompt in")
	}

	promptID := p.uuidGenerator.New()
	waiting := &pendingPrompt{
		userID: userID,
		prompt: prompt,
		answer: make(chan bool, 1),
	}

	p.mu.Lock()
	p.pending[promptID] = waiting
	p.mu.Unlock()
	defer p.forget(promptID)

	msg, err := p.session.ChannelMessageSendComplex(channelID, promptMessage(promptID, userID, prompt), discordgo.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("failed to post prompt: %w", err)
	}

	log := p.logger.With(
		zap.String("prompt_id", promptID),
		zap.String("actor_id", prompt.ActorID),
		zap.String("kind", string(prompt.Kind)))
	log.Debug("Waiting for answer")

	timer := time.NewTimer(p.timeout)
	defer timer.Stop()

	select {
	case accepted := <-waiting.answer:
		log.Debug("Prompt answered", zap.Bool("accepted", accepted))
		return accepted, nil
	case <-timer.C:
		log.Info("Prompt timed out")
		p.expire(ctx, msg, prompt, "Timed out, treated as No")
		return false, alcherr.New(alcherr.CodeUnavailable, "prompt timed out").
			WithMeta("prompt_id", promptID)
	case <-ctx.Done():
		p.expire(ctx, msg, prompt, "Cancelled")
		return false, ctx.Err()
	}
}

// HandleComponent routes a button click to the waiting prompt. It reports
// false for interactions that are not formula prompt buttons.
func (p *Prompter) HandleComponent(ctx context.Context, i *discordgo.InteractionCreate) (bool, error) {
	if i.Type != discordgo.InteractionMessageComponent {
		return false, nil
	}

	id, err := ParseCustomID(i.MessageComponentData().CustomID)
	if err != nil || id.Domain != DomainFormula || id.Action != ActionConfirm || len(id.Args) != 1 {
		return false, nil
	}

	userID := interactionUserID(i)

	p.mu.Lock()
	waiting, ok := p.pending[id.Target]
	if ok && waiting.userID == userID {
		delete(p.pending, id.Target)
	}
	p.mu.Unlock()

	if !ok {
		return true, respondEphemeral(p.session, i, "This prompt has expired.", discordgo.WithContext(ctx))
	}
	if waiting.userID != userID {
		return true, respondEphemeral(p.session, i,
			fmt.Sprintf("Only <@%s> can answer this prompt.", waiting.userID), discordgo.WithContext(ctx))
	}

	accepted := id.Args[0] == AnswerYes
	status := "Declined"
	if accepted {
		status = "Accepted"
	}

	waiting.answer <- accepted

	return true, p.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     answeredEmbed(waiting.prompt, status),
			Components: []discordgo.MessageComponent{},
		},
	}, discordgo.WithContext(ctx))
}

func (p *Prompter) forget(promptID string) {
	p.mu.Lock()
	delete(p.pending, promptID)
	p.mu.Unlock()
}

// expire strips the buttons from an unanswered prompt
func (p *Prompter) expire(ctx context.Context, msg *discordgo.Message, prompt *reconciler.Prompt, status string) {
	if msg == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), expireEditTimeout)
	defer cancel()

	embeds := answeredEmbed(prompt, status)
	components := []discordgo.MessageComponent{}
	_, err := p.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         msg.ID,
		Channel:    msg.ChannelID,
		Embeds:     &embeds,
		Components: &components,
	}, discordgo.WithContext(ctx))
	if err != nil {
		p.logger.Warn("Failed to expire prompt", zap.String("message_id", msg.ID), zap.Error(err))
	}
}
