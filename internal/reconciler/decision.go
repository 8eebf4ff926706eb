package reconciler

import (
	"context"

	"github.com/KirkDiggler/alchemist-formulas/internal/domain/formula"
)

// Subject identifies the actor a prompt is about
type Subject struct {
	ID   string
	Name string
}

// Decision records one confirmation round trip
type Decision struct {
	Kind      PromptKind
	RecipeIDs []string
	Accepted  bool

	// Err is the confirmer failure that was treated as a decline
	Err error
}

// ask runs one prompt. Confirmer failures become declines; a cancelled
// context aborts the whole run instead.
func ask(ctx context.Context, confirmer Confirmer, subject Subject, kind PromptKind, recipes []*formula.Recipe) (Decision, error) {
	decision := Decision{
		Kind:      kind,
		RecipeIDs: formula.IDs(recipes),
	}

	if err := ctx.Err(); err != nil {
		return decision, err
	}

	accepted, err := confirmer.Confirm(ctx, &Prompt{
		Kind:      kind,
		ActorID:   subject.ID,
		ActorName: subject.Name,
		Recipes:   recipes,
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return decision, ctxErr
	}
	if err != nil {
		decision.Err = err
		return decision, nil
	}

	decision.Accepted = accepted
	return decision, nil
}
