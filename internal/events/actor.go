package events

import (
	"github.com/KirkDiggler/alchemist-formulas/internal/domain/character"
	"github.com/KirkDiggler/alchemist-formulas/internal/domain/formula"
)

// ActorUpdatedEvent describes a change to an actor. Level is nil when the
// update did not touch the level.
type ActorUpdatedEvent struct {
	BaseEvent

	// User made the change
	User character.User

	// Online lists the users connected when the change happened
	Online []character.User

	Level *int
}

// NewActorUpdatedEvent creates an update event, pass level < 0 when the level did not change
func NewActorUpdatedEvent(actorID string, user character.User, level int) *ActorUpdatedEvent {
	e := &ActorUpdatedEvent{
		BaseEvent: BaseEvent{Type: EventTypeActorUpdated, ActorID: actorID},
		User:      user,
	}
	if level >= 0 {
		e.Level = &level
	}
	return e
}

// LevelChanged reports whether the update carries a new level
func (e *ActorUpdatedEvent) LevelChanged() bool {
	return e.Level != nil
}

// FormulasReconciledEvent reports the outcome of a reconciliation run
type FormulasReconciledEvent struct {
	BaseEvent
	RunID     string
	ActorName string
	Learned   []*formula.Recipe
	Removed   []*formula.Recipe
}

// NewFormulasReconciledEvent creates a reconciled event
func NewFormulasReconciledEvent(runID, actorID, actorName string, learned, removed []*formula.Recipe) *FormulasReconciledEvent {
	return &FormulasReconciledEvent{
		BaseEvent: BaseEvent{Type: EventTypeFormulasReconciled, ActorID: actorID},
		RunID:     runID,
		ActorName: actorName,
		Learned:   learned,
		Removed:   removed,
	}
}
