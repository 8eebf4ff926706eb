package actors

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/KirkDiggler/alchemist-formulas/internal/domain/character"
	alcherr "github.com/KirkDiggler/alchemist-formulas/internal/errors"
)

// InMemoryRepository is an in-memory implementation of the actor repository
// Useful for testing and development
type InMemoryRepository struct {
	mu     sync.RWMutex
	actors map[string]*character.Character
	now    func() time.Time
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		actors: make(map[string]*character.Character),
		now:    time.Now,
	}
}

// Create stores a new actor
func (r *InMemoryRepository) Create(ctx context.Context, actor *character.Character) error {
	if actor == nil {
		return alcherr.InvalidArgument("actor cannot be nil")
	}
	if actor.ID == "" {
		return alcherr.InvalidArgument("actor ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.actors[actor.ID]; exists {
		return alcherr.AlreadyExistsf("actor with ID '%s' already exists", actor.ID).
			WithMeta("actor_id", actor.ID)
	}

	r.actors[actor.ID] = actor.Clone()
	return nil
}

// Get retrieves an actor by ID
func (r *InMemoryRepository) Get(ctx context.Context, id string) (*character.Character, error) {
	if id == "" {
		return nil, alcherr.InvalidArgument("actor ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	actor, exists := r.actors[id]
	if !exists {
		return nil, notFound(id)
	}
	return actor.Clone(), nil
}

// List returns all actors ordered by ID
func (r *InMemoryRepository) List(ctx context.Context) ([]*character.Character, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*character.Character, 0, len(r.actors))
	for _, actor := range r.actors {
		result = append(result, actor.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// ReplaceFormulas swaps the formula book if nobody changed it since it was read
func (r *InMemoryRepository) ReplaceFormulas(ctx context.Context, id string, expected, next []string) error {
	if id == "" {
		return alcherr.InvalidArgument("actor ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	actor, exists := r.actors[id]
	if !exists {
		return notFound(id)
	}
	if !slices.Equal(actor.Formulas, expected) {
		return conflict(id)
	}

	actor.Formulas = slices.Clone(next)
	actor.UpdatedAt = r.now()
	return nil
}

// SetLevel updates the actor level
func (r *InMemoryRepository) SetLevel(ctx context.Context, id string, level int) error {
	return r.update(id, func(actor *character.Character) {
		actor.Level = level
	})
}

// SetPreviousLevel updates the level formulas were last reconciled at
func (r *InMemoryRepository) SetPreviousLevel(ctx context.Context, id string, level int) error {
	return r.update(id, func(actor *character.Character) {
		actor.PreviousLevel = level
	})
}

func (r *InMemoryRepository) update(id string, fn func(actor *character.Character)) error {
	if id == "" {
		return alcherr.InvalidArgument("actor ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	actor, exists := r.actors[id]
	if !exists {
		return notFound(id)
	}
	fn(actor)
	actor.UpdatedAt = r.now()
	return nil
}

func notFound(id string) error {
	return alcherr.NotFoundf("actor with ID '%s' not found", id).
		WithMeta("actor_id", id)
}

func conflict(id string) error {
	return alcherr.Conflictf("formulas for actor '%s' changed during reconciliation", id).
		WithMeta("actor_id", id)
}
