package catalog

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/alchemist-formulas/internal/domain/formula"
	alcherr "github.com/KirkDiggler/alchemist-formulas/internal/errors"
)

const defaultCacheSize = 2048

// MultiConfig configures a Multi source
type MultiConfig struct {
	Registry *Registry

	// Packs are searched in order after the system pack
	UserPacks []string

	// SystemPack defaults to SystemPack
	SystemPack string

	Logger *zap.Logger
}

// Multi searches the system pack and then the user packs, in order
type Multi struct {
	sources []Source
	cache   *lru.Cache[string, *formula.Recipe]
	logger  *zap.Logger
}

// Assembly is the catalog slice a reconciliation needs
type Assembly struct {
	Recipes []*formula.Recipe

	// Unresolved lists known ids no source could resolve
	Unresolved []string
}

// NewMulti builds the ordered source list. Unknown packs are skipped with a warning.
func NewMulti(cfg *MultiConfig) (*Multi, error) {
	if cfg == nil || cfg.Registry == nil {
		return nil, alcherr.InvalidArgument("catalog registry is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	system := cfg.SystemPack
	if system == "" {
		system = SystemPack
	}

	var sources []Source
	seen := make(map[string]struct{})
	for _, name := range append([]string{system}, cfg.UserPacks...) {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		source, err := cfg.Registry.Get(name)
		if err != nil {
			fields := []zap.Field{zap.String("pack", name)}
			if suggestion, ok := alcherr.GetMeta(err)["suggestion"].(string); ok {
				fields = append(fields, zap.String("did_you_mean", suggestion))
			}
			logger.Warn("Compendium not found, skipping", fields...)
			continue
		}
		sources = append(sources, source)
		logger.Debug("Compendium indexed", zap.String("pack", name))
	}

	return NewMultiFromSources(logger, sources...), nil
}

// NewMultiFromSources wraps already ordered sources
func NewMultiFromSources(logger *zap.Logger, sources ...Source) *Multi {
	if logger == nil {
		logger = zap.NewNop()
	}
	cache, _ := lru.New[string, *formula.Recipe](defaultCacheSize)
	return &Multi{sources: sources, cache: cache, logger: logger}
}

// Name describes the combined source
func (m *Multi) Name() string {
	return "multi"
}

// Sources returns the names of the searched sources, in order
func (m *Multi) Sources() []string {
	names := make([]string, 0, len(m.sources))
	for _, s := range m.sources {
		names = append(names, s.Name())
	}
	return names
}

// Resolve asks each source in order and caches hits
func (m *Multi) Resolve(ctx context.Context, id string) (*formula.Recipe, error) {
	if recipe, ok := m.cache.Get(id); ok {
		return recipe.Clone(), nil
	}

	for _, source := range m.sources {
		recipe, err := source.Resolve(ctx, id)
		if err != nil {
			if alcherr.IsNotFound(err) {
				continue
			}
			return nil, alcherr.Wrapf(err, "failed to resolve %s from %s", id, source.Name())
		}
		m.cache.Add(id, recipe.Clone())
		return recipe, nil
	}

	return nil, alcherr.NotFoundf("recipe '%s' not found in any compendium", id).
		WithMeta("recipe_id", id)
}

// FindByBaseKeys queries all sources concurrently and concatenates results in source order
func (m *Multi) FindByBaseKeys(ctx context.Context, keys []string) ([]*formula.Recipe, error) {
	if len(keys) == 0 {
		return []*formula.Recipe{}, nil
	}

	results := make([][]*formula.Recipe, len(m.sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, source := range m.sources {
		i, source := i, source
		g.Go(func() error {
			found, err := source.FindByBaseKeys(gctx, keys)
			if err != nil {
				return alcherr.Wrapf(err, "failed to search %s", source.Name())
			}
			results[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make([]*formula.Recipe, 0)
	for i, found := range results {
		m.logger.Debug("Filtered compendium index",
			zap.String("pack", m.sources[i].Name()),
			zap.Int("matches", len(found)))
		merged = append(merged, found...)
	}
	return merged, nil
}

// Assemble resolves the known ids and fetches every recipe in their families.
// Known recipes come first so they win on duplicate ids.
func (m *Multi) Assemble(ctx context.Context, known formula.KnownSet) (*Assembly, error) {
	assembly := &Assembly{}
	keys := make([]string, 0)
	seenKeys := make(map[string]struct{})

	for _, id := range known.IDs() {
		recipe, err := m.Resolve(ctx, id)
		if err != nil {
			if alcherr.IsNotFound(err) {
				assembly.Unresolved = append(assembly.Unresolved, id)
				continue
			}
			return nil, err
		}
		assembly.Recipes = append(assembly.Recipes, recipe)

		base := recipe.BaseKey()
		if base == "" {
			continue
		}
		if _, dup := seenKeys[base]; !dup {
			seenKeys[base] = struct{}{}
			keys = append(keys, base)
		}
	}

	family, err := m.FindByBaseKeys(ctx, keys)
	if err != nil {
		return nil, err
	}
	assembly.Recipes = append(assembly.Recipes, family...)
	return assembly, nil
}
