package catalog

import (
	"context"
	"sort"

	"github.com/KirkDiggler/alchemist-formulas/internal/domain/formula"
	alcherr "github.com/KirkDiggler/alchemist-formulas/internal/errors"
)

// Pack is an in-memory source built from a compendium export
type Pack struct {
	name   string
	label  string
	byID   map[string]*formula.Recipe
	byBase map[string][]*formula.Recipe
	order  map[string]int
}

// NewPack indexes recipes by id and base key. Later duplicates of an id are dropped.
func NewPack(name, label string, recipes []*formula.Recipe) *Pack {
	p := &Pack{
		name:   name,
		label:  label,
		byID:   make(map[string]*formula.Recipe, len(recipes)),
		byBase: make(map[string][]*formula.Recipe),
		order:  make(map[string]int, len(recipes)),
	}

	for _, recipe := range recipes {
		if recipe == nil || recipe.ID == "" {
			continue
		}
		if _, exists := p.byID[recipe.ID]; exists {
			continue
		}
		stored := recipe.Clone()
		stored.Source = name
		p.byID[stored.ID] = stored
		p.order[stored.ID] = len(p.order)
		if base := stored.BaseKey(); base != "" {
			p.byBase[base] = append(p.byBase[base], stored)
		}
	}

	return p
}

// Name returns the pack name
func (p *Pack) Name() string {
	return p.name
}

// Label returns the human readable pack label
func (p *Pack) Label() string {
	if p.label == "" {
		return p.name
	}
	return p.label
}

// Len returns the number of indexed recipes
func (p *Pack) Len() int {
	return len(p.order)
}

// Resolve returns a copy of the recipe with the given id
func (p *Pack) Resolve(_ context.Context, id string) (*formula.Recipe, error) {
	recipe, ok := p.byID[id]
	if !ok {
		return nil, alcherr.NotFoundf("recipe '%s' not found in %s", id, p.name).
			WithMeta("recipe_id", id).
			WithMeta("pack", p.name)
	}
	return recipe.Clone(), nil
}

// FindByBaseKeys returns copies of all recipes in the requested families,
// in pack order
func (p *Pack) FindByBaseKeys(_ context.Context, keys []string) ([]*formula.Recipe, error) {
	var matched []*formula.Recipe
	seen := make(map[string]struct{})
	for _, key := range keys {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		matched = append(matched, p.byBase[key]...)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return p.order[matched[i].ID] < p.order[matched[j].ID]
	})

	result := make([]*formula.Recipe, 0, len(matched))
	for _, recipe := range matched {
		result = append(result, recipe.Clone())
	}
	return result, nil
}

// Recipes returns copies of every recipe in pack order
func (p *Pack) Recipes() []*formula.Recipe {
	result := make([]*formula.Recipe, len(p.order))
	for id, i := range p.order {
		result[i] = p.byID[id].Clone()
	}
	return result
}
