package catalog

//go:generate mockgen -destination=mock/mock_source.go -package=mockcatalog -source=source.go

import (
	"context"

	"github.com/KirkDiggler/alchemist-formulas/internal/domain/formula"
)

// SystemPack is always searched first
const SystemPack = "pf2e.equipment-srd"

// Source is a read-only indexed collection of recipes
type Source interface {
	// Name identifies the source, e.g. a compendium pack name
	Name() string

	// Resolve returns the recipe with the given id or a not found error
	Resolve(ctx context.Context, id string) (*formula.Recipe, error)

	// FindByBaseKeys returns every recipe whose base key is in keys
	FindByBaseKeys(ctx context.Context, keys []string) ([]*formula.Recipe, error)
}
