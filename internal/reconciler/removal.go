package reconciler

import (
	"context"

	"github.com/KirkDiggler/alchemist-formulas/internal/domain/formula"
	alcherr "github.com/KirkDiggler/alchemist-formulas/internal/errors"
)

// RemovalPlan splits known recipes into the highest tier per base key and the rest
type RemovalPlan struct {
	Keepers   []*formula.Recipe
	Removable []*formula.Recipe
}

// RemovalResult is the outcome of applying a removal mode to a plan
type RemovalResult struct {
	Removed []*formula.Recipe

	// Keepers includes plan keepers plus removals the user declined
	Keepers   []*formula.Recipe
	Decisions []Decision
}

// ComputeRemovable walks the known set once, keeping the highest tier of each
// base key. On equal tiers the recipe seen first stays the keeper.
// Ids the catalog cannot resolve, and recipes without a base key, are left out of both lists.
func ComputeRemovable(known formula.KnownSet, catalog []*formula.Recipe) RemovalPlan {
	index := formula.Index(catalog)

	plan := RemovalPlan{
		Keepers:   []*formula.Recipe{},
		Removable: []*formula.Recipe{},
	}

	best := make(map[string]*formula.Recipe)
	order := make([]string, 0)

	for _, id := range known.IDs() {
		recipe, ok := index[id]
		if !ok {
			continue
		}
		base := recipe.BaseKey()
		if base == "" {
			continue
		}

		current, exists := best[base]
		switch {
		case !exists:
			best[base] = recipe
			order = append(order, base)
		case recipe.Tier() > current.Tier():
			plan.Removable = append(plan.Removable, current)
			best[base] = recipe
		default:
			plan.Removable = append(plan.Removable, recipe)
		}
	}

	for _, base := range order {
		plan.Keepers = append(plan.Keepers, best[base])
	}
	return plan
}

// ApplyRemovalPolicy decides which removable recipes are actually removed.
// With ask_each_lower a declined removal is moved back into the keepers.
// A nil confirmer declines every prompt.
func ApplyRemovalPolicy(ctx context.Context, subject Subject, plan RemovalPlan, mode RemovalMode, prompt PromptMode, confirmer Confirmer) (*RemovalResult, error) {
	if confirmer == nil {
		confirmer = DeclineAll
	}
	result := &RemovalResult{
		Removed: []*formula.Recipe{},
		Keepers: append([]*formula.Recipe{}, plan.Keepers...),
	}

	switch mode {
	case RemovalDisabled, RemovalAddLower:
		result.Keepers = append(result.Keepers, plan.Removable...)
		return result, nil
	case RemovalRemoveLower:
	default:
		return nil, alcherr.InvalidRequestf("unknown removal mode %q", mode)
	}

	if len(plan.Removable) == 0 {
		return result, nil
	}

	switch prompt {
	case PromptAutoLower:
		result.Removed = append(result.Removed, plan.Removable...)

	case PromptAskAllLower:
		decision, err := ask(ctx, confirmer, subject, PromptRemoveAll, plan.Removable)
		if err != nil {
			return nil, err
		}
		result.Decisions = append(result.Decisions, decision)
		if decision.Accepted {
			result.Removed = append(result.Removed, plan.Removable...)
		} else {
			result.Keepers = append(result.Keepers, plan.Removable...)
		}

	case PromptAskEachLower:
		for _, recipe := range plan.Removable {
			decision, err := ask(ctx, confirmer, subject, PromptRemoveOne, []*formula.Recipe{recipe})
			if err != nil {
				return nil, err
			}
			result.Decisions = append(result.Decisions, decision)
			if decision.Accepted {
				result.Removed = append(result.Removed, recipe)
			} else {
				result.Keepers = append(result.Keepers, recipe)
			}
		}

	default:
		return nil, alcherr.InvalidRequestf("unknown removal prompt mode %q", prompt)
	}

	return result, nil
}
