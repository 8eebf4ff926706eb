//go:build integration
// +build integration

package actors_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/alchemist-formulas/internal/domain/character"
	alcherr "github.com/KirkDiggler/alchemist-formulas/internal/errors"
	"github.com/KirkDiggler/alchemist-formulas/internal/repositories/actors"
	"github.com/KirkDiggler/alchemist-formulas/internal/testutils"
)

func TestRedisRepository_Integration(t *testing.T) {
	// This test requires Docker
	repo := actors.NewRedis(testutils.CreateTestRedisClientOrSkip(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &character.Character{
		ID:        "actor-1",
		Name:      "Fizzwick",
		ClassSlug: character.ClassAlchemist,
		Level:     1,
		Formulas:  []string{"acid-1"},
	}))

	t.Run("duplicate create fails", func(t *testing.T) {
		err := repo.Create(ctx, &character.Character{ID: "actor-1"})
		assert.True(t, alcherr.Is(err, alcherr.CodeAlreadyExists))
	})

	t.Run("replace formulas", func(t *testing.T) {
		require.NoError(t, repo.ReplaceFormulas(ctx, "actor-1", []string{"acid-1"}, []string{"acid-2"}))

		actor, err := repo.Get(ctx, "actor-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"acid-2"}, actor.Formulas)

		err = repo.ReplaceFormulas(ctx, "actor-1", []string{"acid-1"}, []string{"acid-3"})
		assert.True(t, alcherr.IsConflict(err))
	})

	t.Run("levels", func(t *testing.T) {
		require.NoError(t, repo.SetLevel(ctx, "actor-1", 4))
		require.NoError(t, repo.SetPreviousLevel(ctx, "actor-1", 4))

		actor, err := repo.Get(ctx, "actor-1")
		require.NoError(t, err)
		assert.Equal(t, 4, actor.Level)
		assert.Equal(t, 4, actor.LastLevel())
		assert.Equal(t, []string{"acid-2"}, actor.Formulas)
	})

	t.Run("concurrent replacements admit one winner", func(t *testing.T) {
		var wg sync.WaitGroup
		results := make([]error, 8)
		for i := range results {
			i := i
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i] = repo.ReplaceFormulas(ctx, "actor-1", []string{"acid-2"}, []string{"acid-2", "elixir-1"})
			}()
		}
		wg.Wait()

		wins := 0
		for _, err := range results {
			if err == nil {
				wins++
				continue
			}
			assert.True(t, alcherr.IsConflict(err), "unexpected error: %v", err)
		}
		assert.Equal(t, 1, wins)
	})

	t.Run("list", func(t *testing.T) {
		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Fizzwick", list[0].Name)
	})
}
