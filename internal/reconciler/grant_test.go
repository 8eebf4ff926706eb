package reconciler_test

import (
	"context"
	"errors"
	"testing"

	"github.com/KirkDiggler/alchemist-formulas/internal/domain/formula"
	alcherr "github.com/KirkDiggler/alchemist-formulas/internal/errors"
	"github.com/KirkDiggler/alchemist-formulas/internal/reconciler"
	mockreconciler "github.com/KirkDiggler/alchemist-formulas/internal/reconciler/mock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestComputeGrantable_SingleTierUnlocked(t *testing.T) {
	catalog := testCatalog()

	got, err := reconciler.ComputeGrantable(&formula.Request{
		PreviousLevel: 1,
		NewLevel:      3,
		Known:         formula.NewKnownSet("acid-flask-1"),
		Catalog:       catalog,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"acid-flask-2"}, formula.IDs(got))
}

func TestComputeGrantable_LevelWindow(t *testing.T) {
	catalog := testCatalog()

	tests := []struct {
		name     string
		previous int
		next     int
		want     []string
	}{
		{name: "lower bound is exclusive", previous: 3, next: 4, want: []string{}},
		{name: "upper bound is inclusive", previous: 2, next: 3, want: []string{"acid-flask-2"}},
		{name: "wide window sorted by name then tier", previous: 1, next: 20, want: []string{"acid-flask-3", "acid-flask-2", "elixir-2"}},
		{name: "no level change", previous: 5, next: 5, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reconciler.ComputeGrantable(&formula.Request{
				PreviousLevel: tt.previous,
				NewLevel:      tt.next,
				Known:         formula.NewKnownSet("acid-flask-1", "elixir-1"),
				Catalog:       catalog,
			})
			require.NoError(t, err)

			if diff := cmp.Diff(tt.want, formula.IDs(got)); diff != "" {
				t.Errorf("candidates mismatch (-want +got):\n%s", diff)
			}
			for _, r := range got {
				assert.Greater(t, r.Tier(), tt.previous)
				assert.LessOrEqual(t, r.Tier(), tt.next)
			}
		})
	}
}

func TestComputeGrantable_ExcludesIneligible(t *testing.T) {
	catalog := testCatalog()

	got, err := reconciler.ComputeGrantable(&formula.Request{
		PreviousLevel: 1,
		NewLevel:      5,
		Known:         formula.NewKnownSet("elixir-1"),
		Catalog:       catalog,
	})
	require.NoError(t, err)

	// elixir-rare is uncommon, elixir-magic is not alchemical, frost vial is an unknown family
	assert.Equal(t, []string{"elixir-2"}, formula.IDs(got))
}

func TestComputeGrantable_UnresolvableKnownIDsAreIgnored(t *testing.T) {
	got, err := reconciler.ComputeGrantable(&formula.Request{
		PreviousLevel: 1,
		NewLevel:      3,
		Known:         formula.NewKnownSet("Compendium.deleted.Item.gone", "acid-flask-1"),
		Catalog:       testCatalog(),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"acid-flask-2"}, formula.IDs(got))

	got, err = reconciler.ComputeGrantable(&formula.Request{
		PreviousLevel: 1,
		NewLevel:      3,
		Known:         formula.NewKnownSet("Compendium.deleted.Item.gone"),
		Catalog:       testCatalog(),
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestComputeGrantable_SkipsKnownAndDuplicateEntries(t *testing.T) {
	catalog := append(testCatalog(), alchemical("acid-flask-2", "acid-flask-moderate", "Acid Flask (Moderate)", 3))

	got, err := reconciler.ComputeGrantable(&formula.Request{
		PreviousLevel: 1,
		NewLevel:      11,
		Known:         formula.NewKnownSet("acid-flask-1", "acid-flask-3"),
		Catalog:       catalog,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"acid-flask-2"}, formula.IDs(got))
}

func TestComputeGrantable_InvalidRequests(t *testing.T) {
	tests := []struct {
		name string
		req  *formula.Request
	}{
		{name: "nil request", req: nil},
		{name: "level went down", req: &formula.Request{PreviousLevel: 5, NewLevel: 4, Known: formula.NewKnownSet("a")}},
		{name: "nothing known", req: &formula.Request{PreviousLevel: 1, NewLevel: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reconciler.ComputeGrantable(tt.req)
			assert.Nil(t, got)
			assert.True(t, alcherr.IsInvalidRequest(err), "got %v", err)
		})
	}
}

func TestComputeGrantable_Idempotent(t *testing.T) {
	req := &formula.Request{
		PreviousLevel: 1,
		NewLevel:      20,
		Known:         formula.NewKnownSet("acid-flask-1", "elixir-1"),
		Catalog:       testCatalog(),
	}

	first, err := reconciler.ComputeGrantable(req)
	require.NoError(t, err)
	second, err := reconciler.ComputeGrantable(req)
	require.NoError(t, err)

	assert.Equal(t, formula.IDs(first), formula.IDs(second))
}

func TestSortForPrompt(t *testing.T) {
	recipes := []*formula.Recipe{
		alchemical("b", "bomb-b", "bottled lightning (Moderate)", 3),
		alchemical("a2", "acid-flask-moderate", "Acid Flask, Moderate", 3),
		alchemical("a3", "acid-flask-greater", "acid flask (Greater)", 11),
		alchemical("a1", "acid-flask-lesser", "Acid Flask (Lesser)", 1),
	}

	reconciler.SortForPrompt(recipes)

	assert.Equal(t, []string{"a3", "a2", "a1", "b"}, formula.IDs(recipes))
}

func TestApplyGrantPolicy(t *testing.T) {
	ctx := context.Background()
	subject := reconciler.Subject{ID: "a-1", Name: "Vials"}
	catalog := testCatalog()
	candidates := []*formula.Recipe{findByID(catalog, "acid-flask-2"), findByID(catalog, "elixir-2")}

	t.Run("disabled never asks", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		confirmer := mockreconciler.NewMockConfirmer(ctrl)

		result, err := reconciler.ApplyGrantPolicy(ctx, subject, candidates, reconciler.GrantDisabled, confirmer)
		require.NoError(t, err)
		assert.Empty(t, result.Accepted)
	})

	t.Run("auto grants everything without asking", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		confirmer := mockreconciler.NewMockConfirmer(ctrl)

		result, err := reconciler.ApplyGrantPolicy(ctx, subject, candidates, reconciler.GrantAuto, confirmer)
		require.NoError(t, err)
		assert.Equal(t, candidates, result.Accepted)
		assert.Empty(t, result.Decisions)
	})

	t.Run("ask all accepted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		confirmer := mockreconciler.NewMockConfirmer(ctrl)
		confirmer.EXPECT().Confirm(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, p *reconciler.Prompt) (bool, error) {
				assert.Equal(t, reconciler.PromptGrantAll, p.Kind)
				assert.Equal(t, "Vials", p.ActorName)
				assert.Len(t, p.Recipes, 2)
				return true, nil
			}).Times(1)

		result, err := reconciler.ApplyGrantPolicy(ctx, subject, candidates, reconciler.GrantAskAll, confirmer)
		require.NoError(t, err)
		assert.Equal(t, candidates, result.Accepted)
	})

	t.Run("ask all declined", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		confirmer := mockreconciler.NewMockConfirmer(ctrl)
		confirmer.EXPECT().Confirm(ctx, gomock.Any()).Return(false, nil).Times(1)

		result, err := reconciler.ApplyGrantPolicy(ctx, subject, candidates, reconciler.GrantAskAll, confirmer)
		require.NoError(t, err)
		assert.Empty(t, result.Accepted)
		require.Len(t, result.Decisions, 1)
		assert.False(t, result.Decisions[0].Accepted)
	})

	t.Run("ask each prompts in candidate order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		confirmer := mockreconciler.NewMockConfirmer(ctrl)

		asked := []string{}
		record := func(answer bool) func(context.Context, *reconciler.Prompt) (bool, error) {
			return func(_ context.Context, p *reconciler.Prompt) (bool, error) {
				require.Len(t, p.Recipes, 1)
				assert.Equal(t, reconciler.PromptGrantOne, p.Kind)
				asked = append(asked, p.Recipes[0].ID)
				return answer, nil
			}
		}
		gomock.InOrder(
			confirmer.EXPECT().Confirm(ctx, gomock.Any()).DoAndReturn(record(false)),
			confirmer.EXPECT().Confirm(ctx, gomock.Any()).DoAndReturn(record(true)),
		)

		result, err := reconciler.ApplyGrantPolicy(ctx, subject, candidates, reconciler.GrantAskEach, confirmer)
		require.NoError(t, err)
		assert.Equal(t, []string{"acid-flask-2", "elixir-2"}, asked)
		assert.Equal(t, []string{"elixir-2"}, formula.IDs(result.Accepted))
	})

	t.Run("ask each all declined", func(t *testing.T) {
		result, err := reconciler.ApplyGrantPolicy(ctx, subject, candidates, reconciler.GrantAskEach, reconciler.DeclineAll)
		require.NoError(t, err)
		assert.Empty(t, result.Accepted)
		assert.Len(t, result.Decisions, 2)
	})

	t.Run("nil confirmer declines", func(t *testing.T) {
		for _, mode := range []reconciler.GrantMode{reconciler.GrantAskEach, reconciler.GrantAskAll} {
			result, err := reconciler.ApplyGrantPolicy(ctx, subject, candidates, mode, nil)
			require.NoError(t, err)
			assert.Empty(t, result.Accepted)
			assert.NotEmpty(t, result.Decisions)
		}
	})

	t.Run("ask each all accepted keeps order", func(t *testing.T) {
		result, err := reconciler.ApplyGrantPolicy(ctx, subject, candidates, reconciler.GrantAskEach, reconciler.AcceptAll)
		require.NoError(t, err)
		assert.Equal(t, candidates, result.Accepted)
	})

	t.Run("confirmer failure is a decline", func(t *testing.T) {
		failing := reconciler.ConfirmFunc(func(context.Context, *reconciler.Prompt) (bool, error) {
			return true, errors.New("dialog dismissed")
		})

		result, err := reconciler.ApplyGrantPolicy(ctx, subject, candidates, reconciler.GrantAskEach, failing)
		require.NoError(t, err)
		assert.Empty(t, result.Accepted)
		require.Len(t, result.Decisions, 2)
		assert.EqualError(t, result.Decisions[0].Err, "dialog dismissed")
	})

	t.Run("empty candidates never prompt", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		confirmer := mockreconciler.NewMockConfirmer(ctrl)

		result, err := reconciler.ApplyGrantPolicy(ctx, subject, nil, reconciler.GrantAskAll, confirmer)
		require.NoError(t, err)
		assert.Empty(t, result.Accepted)
	})

	t.Run("cancelled context abandons the run", func(t *testing.T) {
		cancelCtx, cancel := context.WithCancel(ctx)
		calls := 0
		cancelling := reconciler.ConfirmFunc(func(context.Context, *reconciler.Prompt) (bool, error) {
			calls++
			cancel()
			return false, context.Canceled
		})

		result, err := reconciler.ApplyGrantPolicy(cancelCtx, subject, candidates, reconciler.GrantAskEach, cancelling)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, result)
		assert.Equal(t, 1, calls)
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, err := reconciler.ApplyGrantPolicy(ctx, subject, candidates, reconciler.GrantMode("sometimes"), reconciler.AcceptAll)
		assert.True(t, alcherr.IsInvalidRequest(err))
	})
}
