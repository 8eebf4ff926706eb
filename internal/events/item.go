package events

import (
	"github.com/KirkDiggler/alchemist-formulas/internal/domain/item"
)

// ItemCreatedEvent carries an item being added to an actor. Listeners may
// rewrite Item in place; Updated reports whether any of them did.
type ItemCreatedEvent struct {
	BaseEvent
	Item *item.Item

	Updated bool

	// ClassDC is the DC written into the item when Updated is set
	ClassDC int
}

// NewItemCreatedEvent creates an item event
func NewItemCreatedEvent(actorID string, created *item.Item) *ItemCreatedEvent {
	return &ItemCreatedEvent{
		BaseEvent: BaseEvent{Type: EventTypeItemCreated, ActorID: actorID},
		Item:      created,
	}
}
