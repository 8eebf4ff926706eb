package formulas

import (
	"context"

	"go.uber.org/zap"

	"github.com/KirkDiggler/alchemist-formulas/internal/domain/character"
	alcherr "github.com/KirkDiggler/alchemist-formulas/internal/errors"
	"github.com/KirkDiggler/alchemist-formulas/internal/events"
	"github.com/KirkDiggler/alchemist-formulas/internal/reconciler"
)

// ConfirmerFactory builds the prompt channel for the user handling a level change
type ConfirmerFactory func(ctx context.Context, user character.User, actorID string) reconciler.Confirmer

// ListenerConfig holds configuration for the level change listener
type ListenerConfig struct {
	Service Service

	// Confirmers may be nil, in which case the service default answers prompts
	Confirmers ConfirmerFactory

	Logger *zap.Logger
}

// Listener reconciles formulas when an ActorUpdatedEvent carries a new level
type Listener struct {
	service    Service
	confirmers ConfirmerFactory
	logger     *zap.Logger
}

// NewListener creates the level change listener
func NewListener(cfg *ListenerConfig) *Listener {
	if cfg.Service == nil {
		panic("formula service is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Listener{
		service:    cfg.Service,
		confirmers: cfg.Confirmers,
		logger:     logger,
	}
}

func (l *Listener) ID() string    { return "formula-level-up" }
func (l *Listener) Priority() int { return events.PriorityBookkeeping }

// HandleEvent runs HandleLevelChange for level updates. Users without
// permission are ignored so the permitted user's client handles the change.
func (l *Listener) HandleEvent(ctx context.Context, event events.Event) error {
	updated, ok := event.(*events.ActorUpdatedEvent)
	if !ok {
		return nil
	}
	if !updated.LevelChanged() {
		l.logger.Debug("No level change detected", zap.String("actor_id", updated.GetActorID()))
		return nil
	}

	input := &LevelChangeInput{
		ActorID:    updated.GetActorID(),
		NewLevel:   *updated.Level,
		ActingUser: updated.User,
		Online:     updated.Online,
	}
	if l.confirmers != nil {
		input.Confirmer = l.confirmers(ctx, updated.User, updated.GetActorID())
	}

	_, err := l.service.HandleLevelChange(ctx, input)
	if alcherr.IsPermissionDenied(err) {
		l.logger.Debug("User cannot manage formulas, ignoring",
			zap.String("actor_id", input.ActorID),
			zap.String("user_id", input.ActingUser.ID))
		return nil
	}
	return err
}
