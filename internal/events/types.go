package events

// EventType represents the type of actor lifecycle event
type EventType string

// Event is the base interface for all actor events
type Event interface {
	GetType() EventType
	GetActorID() string
	IsCancelled() bool
	Cancel()
}

// BaseEvent provides common implementation for all events
type BaseEvent struct {
	Type      EventType
	ActorID   string
	Cancelled bool
}

func (e *BaseEvent) GetType() EventType { return e.Type }
func (e *BaseEvent) GetActorID() string { return e.ActorID }
func (e *BaseEvent) IsCancelled() bool  { return e.Cancelled }
func (e *BaseEvent) Cancel()            { e.Cancelled = true }
