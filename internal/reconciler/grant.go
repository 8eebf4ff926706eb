package reconciler

import (
	"context"
	"sort"

	"github.com/KirkDiggler/alchemist-formulas/internal/domain/formula"
	alcherr "github.com/KirkDiggler/alchemist-formulas/internal/errors"
)

// GrantResult is the outcome of applying a grant mode to candidates
type GrantResult struct {
	Accepted  []*formula.Recipe
	Decisions []Decision
}

// ComputeGrantable lists the catalog recipes unlocked by the level change.
// A recipe qualifies when the character already knows some tier of it, it is
// alchemical and common, and its tier lies in (PreviousLevel, NewLevel].
func ComputeGrantable(req *formula.Request) ([]*formula.Recipe, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	index := formula.Index(req.Catalog)

	knownBases := make(map[string]struct{})
	for _, id := range req.Known.IDs() {
		recipe, ok := index[id]
		if !ok {
			continue
		}
		if base := recipe.BaseKey(); base != "" {
			knownBases[base] = struct{}{}
		}
	}

	seen := make(map[string]struct{})
	candidates := make([]*formula.Recipe, 0)
	for _, recipe := range req.Catalog {
		if recipe == nil || recipe.ID == "" {
			continue
		}
		if _, dup := seen[recipe.ID]; dup {
			continue
		}
		if !isCandidate(recipe, req, knownBases) {
			continue
		}
		seen[recipe.ID] = struct{}{}
		candidates = append(candidates, recipe)
	}

	SortForPrompt(candidates)
	return candidates, nil
}

func isCandidate(recipe *formula.Recipe, req *formula.Request, knownBases map[string]struct{}) bool {
	if req.Known.Contains(recipe.ID) {
		return false
	}
	base := recipe.BaseKey()
	if base == "" {
		return false
	}
	if _, ok := knownBases[base]; !ok {
		return false
	}
	if !recipe.IsAlchemical() || !recipe.IsCommon() {
		return false
	}
	return recipe.Tier() > req.PreviousLevel && recipe.Tier() <= req.NewLevel
}

func validateRequest(req *formula.Request) error {
	if req == nil {
		return alcherr.InvalidRequest("reconciliation request is required")
	}
	if req.NewLevel < req.PreviousLevel {
		return alcherr.InvalidRequestf("new level %d is below previous level %d", req.NewLevel, req.PreviousLevel).
			WithMeta("previous_level", req.PreviousLevel).
			WithMeta("new_level", req.NewLevel)
	}
	if req.Known.IsEmpty() {
		return alcherr.InvalidRequest("known formula set is empty")
	}
	return nil
}

// SortForPrompt orders recipes by base display name, then highest tier first
func SortForPrompt(recipes []*formula.Recipe) {
	sort.SliceStable(recipes, func(i, j int) bool {
		a, b := recipes[i], recipes[j]
		if an, bn := a.SortName(), b.SortName(); an != bn {
			return an < bn
		}
		if a.Tier() != b.Tier() {
			return a.Tier() > b.Tier()
		}
		return a.ID < b.ID
	})
}

// ApplyGrantPolicy decides which candidates are granted.
// ask_each prompts one candidate at a time in candidate order. A nil
// confirmer declines every prompt.
func ApplyGrantPolicy(ctx context.Context, subject Subject, candidates []*formula.Recipe, mode GrantMode, confirmer Confirmer) (*GrantResult, error) {
	if confirmer == nil {
		confirmer = DeclineAll
	}
	result := &GrantResult{Accepted: []*formula.Recipe{}}

	if len(candidates) == 0 {
		return result, nil
	}

	switch mode {
	case GrantDisabled:
		return result, nil

	case GrantAuto:
		result.Accepted = append(result.Accepted, candidates...)
		return result, nil

	case GrantAskAll:
		decision, err := ask(ctx, confirmer, subject, PromptGrantAll, candidates)
		if err != nil {
			return nil, err
		}
		result.Decisions = append(result.Decisions, decision)
		if decision.Accepted {
			result.Accepted = append(result.Accepted, candidates...)
		}
		return result, nil

	case GrantAskEach:
		for _, candidate := range candidates {
			decision, err := ask(ctx, confirmer, subject, PromptGrantOne, []*formula.Recipe{candidate})
			if err != nil {
				return nil, err
			}
			result.Decisions = append(result.Decisions, decision)
			if decision.Accepted {
				result.Accepted = append(result.Accepted, candidate)
			}
		}
		return result, nil

	default:
		return nil, alcherr.InvalidRequestf("unknown grant mode %q", mode)
	}
}
