package events

// Event type constants
const (
	// EventTypeActorUpdated fires after an actor record changes
	EventTypeActorUpdated EventType = "actor_updated"

	// EventTypeFormulasReconciled fires after a formula book was rewritten
	EventTypeFormulasReconciled EventType = "formulas_reconciled"

	// EventTypeItemCreated fires when an item is added to an actor
	EventTypeItemCreated EventType = "item_created"
)

// Priority levels for listener ordering
const (
	PriorityValidation    = 0   // Reject malformed events
	PriorityBookkeeping   = 100 // Formula and level bookkeeping
	PriorityAnnouncements = 300 // Chat and log output
	PriorityMetrics       = 500
)
