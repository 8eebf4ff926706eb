package notify

import (
	"context"

	"github.com/KirkDiggler/alchemist-formulas/internal/events"
)

// Listener forwards reconciled events to a notifier
type Listener struct {
	notifier Notifier
}

// NewListener wraps a notifier as an event listener
func NewListener(notifier Notifier) *Listener {
	return &Listener{notifier: notifier}
}

func (l *Listener) ID() string    { return "formula-announcements" }
func (l *Listener) Priority() int { return events.PriorityAnnouncements }

// HandleEvent ignores everything but FormulasReconciledEvent
func (l *Listener) HandleEvent(ctx context.Context, event events.Event) error {
	reconciled, ok := event.(*events.FormulasReconciledEvent)
	if !ok {
		return nil
	}

	return l.notifier.Announce(ctx, &Announcement{
		ActorID:   reconciled.GetActorID(),
		ActorName: reconciled.ActorName,
		Learned:   reconciled.Learned,
		Removed:   reconciled.Removed,
	})
}
