package formulas

//go:generate mockgen -destination=mock/mock.go -package=mockformulas -source=types.go

import (
	"context"

	"github.com/KirkDiggler/alchemist-formulas/internal/catalog"
	"github.com/KirkDiggler/alchemist-formulas/internal/domain/character"
	"github.com/KirkDiggler/alchemist-formulas/internal/domain/formula"
	"github.com/KirkDiggler/alchemist-formulas/internal/reconciler"
)

// Service keeps alchemist formula books in step with actor levels
type Service interface {
	// HandleLevelChange reconciles formulas for one level change and persists the result
	HandleLevelChange(ctx context.Context, input *LevelChangeInput) (*LevelChangeResult, error)

	// Plan reports what a level change would do, accepting every prompt, without writing
	Plan(ctx context.Context, actorID string, newLevel int) (*PlanResult, error)

	// SyncPreviousLevels records the current level as the previous level.
	// An empty list selects every alchemist in the party.
	SyncPreviousLevels(ctx context.Context, actorIDs []string) (int, error)
}

// Catalog assembles the recipes a reconciliation needs
type Catalog interface {
	Assemble(ctx context.Context, known formula.KnownSet) (*catalog.Assembly, error)
}

// LevelChangeInput contains data for a level change
type LevelChangeInput struct {
	ActorID  string
	NewLevel int

	// ActingUser triggered the change and answers prompts
	ActingUser character.User

	// Online lists the connected users, used by the actor_owner permission
	Online []character.User

	// Confirmer answers prompts. Nil falls back to the service default.
	Confirmer reconciler.Confirmer
}

// SkipReason explains why a level change did not reconcile
type SkipReason string

const (
	SkipNone         SkipReason = ""
	SkipNotAlchemist SkipReason = "not_alchemist"
	SkipLevelDropped SkipReason = "level_dropped"
	SkipNoFormulas   SkipReason = "no_formulas"
)

// LevelChangeResult contains the result of a level change
type LevelChangeResult struct {
	RunID         string
	ActorID       string
	ActorName     string
	PreviousLevel int
	NewLevel      int

	Skipped SkipReason

	// Outcome is nil when the run was skipped
	Outcome *reconciler.Outcome

	// Unresolved lists known ids no compendium could resolve
	Unresolved []string
}

// Learned returns the accepted grants
func (r *LevelChangeResult) Learned() []*formula.Recipe {
	if r.Outcome == nil {
		return nil
	}
	return r.Outcome.Accepted
}

// Removed returns the removed lower tiers
func (r *LevelChangeResult) Removed() []*formula.Recipe {
	if r.Outcome == nil {
		return nil
	}
	return r.Outcome.Removed
}

// PlanResult is a dry run
type PlanResult struct {
	Actor         *character.Character
	PreviousLevel int
	NewLevel      int
	Outcome       *reconciler.Outcome
	Unresolved    []string
}
