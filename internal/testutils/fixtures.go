package testutils

import (
	"github.com/KirkDiggler/alchemist-formulas/internal/catalog"
	"github.com/KirkDiggler/alchemist-formulas/internal/domain/character"
	"github.com/KirkDiggler/alchemist-formulas/internal/domain/formula"
)

// Recipe ids of the test compendium
const (
	AcidLesser   = "Compendium.pf2e.equipment-srd.Item.acid-lesser"
	AcidModerate = "Compendium.pf2e.equipment-srd.Item.acid-moderate"
	AcidGreater  = "Compendium.pf2e.equipment-srd.Item.acid-greater"
	AcidInfused  = "Compendium.pf2e.equipment-srd.Item.acid-infused"
	ElixirMinor  = "Compendium.pf2e.equipment-srd.Item.elixir-minor"
	ElixirLesser = "Compendium.pf2e.equipment-srd.Item.elixir-lesser"
	Antidote     = "Compendium.pf2e.equipment-srd.Item.antidote"
)

// CreateTestRecipe creates a common alchemical recipe
func CreateTestRecipe(id, slug, name string, level int) *formula.Recipe {
	return &formula.Recipe{
		ID:     id,
		Slug:   slug,
		Name:   name,
		Level:  level,
		Traits: []string{formula.TraitAlchemical, "consumable"},
		Rarity: formula.RarityCommon,
	}
}

// CreateTestRecipes returns the recipes of the test compendium
func CreateTestRecipes() []*formula.Recipe {
	infused := CreateTestRecipe(AcidInfused, "acid-flask-infused", "Acid Flask (Infused)", 3)
	infused.Rarity = "rare"

	return []*formula.Recipe{
		CreateTestRecipe(AcidLesser, "acid-flask-lesser", "Acid Flask (Lesser)", 1),
		CreateTestRecipe(AcidModerate, "acid-flask-moderate", "Acid Flask (Moderate)", 3),
		CreateTestRecipe(AcidGreater, "acid-flask-greater", "Acid Flask (Greater)", 11),
		infused,
		CreateTestRecipe(ElixirMinor, "elixir-of-life-minor", "Elixir of Life (Minor)", 1),
		CreateTestRecipe(ElixirLesser, "elixir-of-life-lesser", "Elixir of Life (Lesser)", 5),
		CreateTestRecipe(Antidote, "antidote", "Antidote", 1),
	}
}

// CreateTestPack wraps the test recipes as the system pack
func CreateTestPack() *catalog.Pack {
	return catalog.NewPack(catalog.SystemPack, "Equipment", CreateTestRecipes())
}

// CreateTestAlchemist creates a party alchemist owned by ownerID
func CreateTestAlchemist(id, ownerID, name string, level int, formulas ...string) *character.Character {
	return &character.Character{
		ID:            id,
		Name:          name,
		ClassSlug:     character.ClassAlchemist,
		Level:         level,
		PreviousLevel: character.DefaultPreviousLevel,
		Formulas:      formulas,
		Owners:        []string{ownerID},
		InParty:       true,
	}
}

// CreateTestUser creates a connected user
func CreateTestUser(id string, isGM bool) character.User {
	return character.User{ID: id, Name: id, IsGM: isGM, Active: true}
}
