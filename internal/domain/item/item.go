package item

import (
	"strings"
)

const (
	TypeWeapon     = "weapon"
	TypeConsumable = "consumable"

	// TraitInfused marks items made with Quick Alchemy
	TraitInfused = "infused"

	// RuleKeyNote is the rule element that prints text on a roll
	RuleKeyNote = "Note"
)

// RuleElement is one automation rule attached to an item
type RuleElement struct {
	Key      string `json:"key" yaml:"key"`
	Selector string `json:"selector,omitempty" yaml:"selector,omitempty"`
	Text     string `json:"text,omitempty" yaml:"text,omitempty"`
}

// Item is an owned item as created on an actor
type Item struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Type        string        `json:"type" yaml:"type"`
	Traits      []string      `json:"traits" yaml:"traits"`
	Description string        `json:"description" yaml:"description"`
	Rules       []RuleElement `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// HasTrait reports whether the item carries trait, ignoring case
func (i *Item) HasTrait(trait string) bool {
	for _, t := range i.Traits {
		if strings.EqualFold(t, trait) {
			return true
		}
	}
	return false
}

// IsWeaponOrConsumable reports whether the item type can carry a save DC
func (i *Item) IsWeaponOrConsumable() bool {
	return i.Type == TypeWeapon || i.Type == TypeConsumable
}

// Clone returns a deep copy of the item
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	clone := *i
	clone.Traits = append([]string(nil), i.Traits...)
	clone.Rules = append([]RuleElement(nil), i.Rules...)
	return &clone
}
