package alchemy

import (
	"context"

	"go.uber.org/zap"

	"github.com/KirkDiggler/alchemist-formulas/internal/domain/character"
	"github.com/KirkDiggler/alchemist-formulas/internal/domain/formula"
	"github.com/KirkDiggler/alchemist-formulas/internal/domain/item"
	alcherr "github.com/KirkDiggler/alchemist-formulas/internal/errors"
	"github.com/KirkDiggler/alchemist-formulas/internal/events"
	"github.com/KirkDiggler/alchemist-formulas/internal/notify"
	"github.com/KirkDiggler/alchemist-formulas/internal/repositories/actors"
)

// ListenerID identifies the Powerful Alchemy listener on the event bus
const ListenerID = "powerful-alchemy"

// ListenerConfig holds configuration for the Powerful Alchemy listener
type ListenerConfig struct {
	Actors actors.Repository

	// Notifier announces rewritten items. Optional.
	Notifier notify.Notifier

	Logger *zap.Logger
}

// Listener raises the DCs of infused items to the creator's class DC
type Listener struct {
	actors   actors.Repository
	notifier notify.Notifier
	logger   *zap.Logger
}

// NewListener creates the Powerful Alchemy listener
func NewListener(cfg *ListenerConfig) *Listener {
	if cfg.Actors == nil {
		panic("actor repository is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Listener{
		actors:   cfg.Actors,
		notifier: cfg.Notifier,
		logger:   logger.Named("alchemy"),
	}
}

func (l *Listener) ID() string    { return ListenerID }
func (l *Listener) Priority() int { return events.PriorityBookkeeping }

// HandleEvent rewrites ItemCreatedEvent items in place when the actor has
// Powerful Alchemy and the item is an infused alchemical weapon or consumable
func (l *Listener) HandleEvent(ctx context.Context, event events.Event) error {
	created, ok := event.(*events.ItemCreatedEvent)
	if !ok || created.Item == nil {
		return nil
	}

	log := l.logger.With(
		zap.String("actor_id", created.GetActorID()),
		zap.String("item", created.Item.Name))

	actor, err := l.actors.Get(ctx, created.GetActorID())
	if alcherr.IsNotFound(err) {
		log.Debug("Actor for item not found")
		return nil
	}
	if err != nil {
		return err
	}

	dc, ok := l.classDC(actor, log)
	if !ok || !eligible(created.Item, log) {
		return nil
	}

	change := ApplyClassDC(created.Item, dc)
	if !change.Any() {
		log.Debug("No DCs to update")
		return nil
	}
	created.Updated = true
	created.ClassDC = dc
	log.Info("Item updated to class DC",
		zap.Int("class_dc", dc),
		zap.Bool("description", change.Description),
		zap.Bool("rules", change.Rules))

	if change.Description && l.notifier != nil {
		err := l.notifier.Announce(ctx, &notify.Announcement{
			ActorID:   actor.ID,
			ActorName: actor.Name,
			Items:     []notify.ItemUpdate{{Name: created.Item.Name, ClassDC: dc}},
		})
		if err != nil {
			log.Warn("Failed to announce class DC update", zap.Error(err))
		}
	}
	return nil
}

func (l *Listener) classDC(actor *character.Character, log *zap.Logger) (int, bool) {
	qualification := actor.Qualification()
	if !qualification.Qualifies {
		log.Debug("Actor is not an alchemist, ignoring")
		return 0, false
	}
	if qualification.DC <= 0 {
		log.Warn("Class DC not found for actor")
		return 0, false
	}
	if !actor.HasFeat(character.FeatPowerfulAlchemy) {
		log.Debug("Actor does not have Powerful Alchemy, ignoring")
		return 0, false
	}
	return qualification.DC, true
}

func eligible(it *item.Item, log *zap.Logger) bool {
	switch {
	case !it.IsWeaponOrConsumable():
		log.Debug("Item is not a weapon or consumable", zap.String("type", it.Type))
		return false
	case !it.HasTrait(formula.TraitAlchemical):
		log.Debug("Item is not alchemical")
		return false
	case !it.HasTrait(item.TraitInfused):
		log.Debug("Item is not infused")
		return false
	}
	return true
}
