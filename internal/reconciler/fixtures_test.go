package reconciler_test

import (
	"github.com/KirkDiggler/alchemist-formulas/internal/domain/formula"
)

func alchemical(id, slug, name string, level int) *formula.Recipe {
	return &formula.Recipe{
		ID:     id,
		Slug:   slug,
		Name:   name,
		Level:  level,
		Traits: []string{"alchemical", "consumable"},
		Rarity: "common",
	}
}

// testCatalog holds three acid flask tiers, two elixir tiers and a few distractors
func testCatalog() []*formula.Recipe {
	return []*formula.Recipe{
		alchemical("acid-flask-1", "acid-flask-lesser", "Acid Flask (Lesser)", 1),
		alchemical("acid-flask-2", "acid-flask-moderate", "Acid Flask (Moderate)", 3),
		alchemical("acid-flask-3", "acid-flask-greater", "Acid Flask (Greater)", 11),
		alchemical("elixir-1", "elixir-of-life-minor", "Elixir of Life (Minor)", 1),
		alchemical("elixir-2", "elixir-of-life-lesser", "Elixir of Life (Lesser)", 5),
		{
			ID:     "elixir-rare",
			Slug:   "elixir-of-life-rare",
			Name:   "Elixir of Life (Rare)",
			Level:  4,
			Traits: []string{"alchemical"},
			Rarity: "uncommon",
		},
		{
			ID:     "elixir-magic",
			Slug:   "elixir-of-life-magic",
			Name:   "Elixir of Life (Magic)",
			Level:  4,
			Traits: []string{"magical"},
			Rarity: "common",
		},
		alchemical("frost-vial-2", "frost-vial-moderate", "Frost Vial (Moderate)", 3),
	}
}

func findByID(catalog []*formula.Recipe, id string) *formula.Recipe {
	for _, r := range catalog {
		if r.ID == id {
			return r
		}
	}
	return nil
}
