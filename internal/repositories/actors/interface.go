package actors

//go:generate mockgen -destination=mock/mock.go -package=mockactors -source=interface.go

import (
	"context"

	"github.com/KirkDiggler/alchemist-formulas/internal/domain/character"
)

// Repository defines the interface for actor persistence
type Repository interface {
	// Create stores a new actor
	Create(ctx context.Context, actor *character.Character) error

	// Get retrieves an actor by ID
	Get(ctx context.Context, id string) (*character.Character, error)

	// List returns every stored actor ordered by ID
	List(ctx context.Context) ([]*character.Character, error)

	// ReplaceFormulas swaps the formula book only if it still equals expected.
	// A mismatch returns a conflict error and leaves the actor untouched.
	ReplaceFormulas(ctx context.Context, id string, expected, next []string) error

	// SetLevel records a new level without touching the previous level
	SetLevel(ctx context.Context, id string, level int) error

	// SetPreviousLevel records the level formulas were last reconciled at
	SetPreviousLevel(ctx context.Context, id string, level int) error
}
