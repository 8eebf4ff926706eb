package formula

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

const (
	// TraitAlchemical marks items that alchemists can learn automatically
	TraitAlchemical = "alchemical"

	// RarityCommon is the only rarity granted automatically on level up
	RarityCommon = "common"
)

var variantSuffix = regexp.MustCompile(`\s*\(.*?\)|\s*,.*$`)

// Recipe is a craftable item definition a character can know as a formula
type Recipe struct {
	ID     string   `json:"id" yaml:"id"`
	Slug   string   `json:"slug" yaml:"slug"`
	Name   string   `json:"name" yaml:"name"`
	Level  int      `json:"level" yaml:"level"`
	Traits []string `json:"traits" yaml:"traits"`
	Rarity string   `json:"rarity" yaml:"rarity"`

	// Source is the catalog pack the recipe was read from
	Source string `json:"source,omitempty" yaml:"-"`
}

// BaseKey returns the tier independent identity of the recipe
func (r *Recipe) BaseKey() string {
	return BaseKey(r.Slug)
}

// Tier is the level requirement of the underlying item
func (r *Recipe) Tier() int {
	return r.Level
}

// IsAlchemical reports whether the recipe carries the alchemical trait
func (r *Recipe) IsAlchemical() bool {
	for _, trait := range r.Traits {
		if strings.EqualFold(trait, TraitAlchemical) {
			return true
		}
	}
	return false
}

// IsCommon reports whether the recipe has common rarity
func (r *Recipe) IsCommon() bool {
	return strings.EqualFold(r.Rarity, RarityCommon)
}

// SortName is the display name used for ordering prompts.
// Parenthetical variants and anything after a comma are ignored.
func (r *Recipe) SortName() string {
	return BaseName(r.Name)
}

// Clone returns a deep copy of the recipe
func (r *Recipe) Clone() *Recipe {
	if r == nil {
		return nil
	}
	clone := *r
	if r.Traits != nil {
		clone.Traits = append([]string(nil), r.Traits...)
	}
	return &clone
}

// BaseKey drops the trailing tier segment of a slug ("acid-flask-lesser" -> "acid-flask").
// A slug without a dash has no base key.
func BaseKey(slug string) string {
	idx := strings.LastIndex(slug, "-")
	if idx < 0 {
		return ""
	}
	return slug[:idx]
}

// BaseName folds case and strips variant decorations from a display name
func BaseName(name string) string {
	// Casers keep state, so one per call
	folded := cases.Fold().String(name)
	return strings.TrimSpace(variantSuffix.ReplaceAllString(folded, ""))
}
