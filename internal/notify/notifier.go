package notify

//go:generate mockgen -destination=mock/mock.go -package=mocknotify -source=notifier.go

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/KirkDiggler/alchemist-formulas/internal/domain/formula"
)

// Announcement is what changed on one actor's formula book or items
type Announcement struct {
	ActorID   string
	ActorName string
	Learned   []*formula.Recipe
	Removed   []*formula.Recipe

	// Items lists infused items rewritten to the class DC
	Items []ItemUpdate
}

// ItemUpdate is an item whose DCs were raised to the class DC
type ItemUpdate struct {
	Name    string
	ClassDC int
}

// IsEmpty reports whether there is nothing to say
func (a *Announcement) IsEmpty() bool {
	return a == nil || (len(a.Learned) == 0 && len(a.Removed) == 0 && len(a.Items) == 0)
}

// Messages renders every chat line of the announcement, in order
func (a *Announcement) Messages() []string {
	if a.IsEmpty() {
		return nil
	}

	var messages []string
	for _, content := range []string{
		LearnedMessage(a.ActorName, a.Learned),
		RemovedMessage(a.ActorName, a.Removed),
	} {
		if content != "" {
			messages = append(messages, content)
		}
	}
	for _, update := range a.Items {
		messages = append(messages, ClassDCMessage(update.Name, update.ClassDC))
	}
	return messages
}

// Notifier publishes formula changes
type Notifier interface {
	Announce(ctx context.Context, announcement *Announcement) error
}

// LearnedMessage renders the chat line for newly learned formulas.
// Empty when nothing was learned.
func LearnedMessage(actorName string, recipes []*formula.Recipe) string {
	if len(recipes) == 0 {
		return ""
	}
	return fmt.Sprintf("**%s** has learned the following new formulas:\n\n%s",
		actorName, strings.Join(formula.Names(recipes), "\n"))
}

// RemovedMessage renders the chat line for removed lower tiers
func RemovedMessage(actorName string, recipes []*formula.Recipe) string {
	if len(recipes) == 0 {
		return ""
	}
	return fmt.Sprintf("**%s** has removed the following lower-level formulas:\n\n%s",
		actorName, strings.Join(formula.Names(recipes), "\n"))
}

// ClassDCMessage renders the chat line for an item rewritten by Powerful Alchemy
func ClassDCMessage(itemName string, dc int) string {
	return fmt.Sprintf("**Powerful Alchemy:** %s has been updated to use Class DC %d!", itemName, dc)
}

// Multi fans an announcement out to several notifiers and joins their errors
type Multi []Notifier

func (m Multi) Announce(ctx context.Context, announcement *Announcement) error {
	var errs []error
	for _, n := range m {
		if err := n.Announce(ctx, announcement); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
