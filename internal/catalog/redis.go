package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/alchemist-formulas/internal/domain/formula"
	alcherr "github.com/KirkDiggler/alchemist-formulas/internal/errors"
)

// RedisSource serves a pack that was seeded into Redis
type RedisSource struct {
	client redis.UniversalClient
	pack   string
}

// NewRedisSource creates a source for the named pack
func NewRedisSource(client redis.UniversalClient, pack string) *RedisSource {
	if client == nil {
		panic("redis client cannot be nil")
	}
	return &RedisSource{client: client, pack: pack}
}

func (s *RedisSource) recipeKey(id string) string {
	return fmt.Sprintf("catalog:%s:recipe:%s", s.pack, id)
}

func (s *RedisSource) baseKey(base string) string {
	return fmt.Sprintf("catalog:%s:base:%s", s.pack, base)
}

// Name returns the pack name
func (s *RedisSource) Name() string {
	return s.pack
}

// Save stores recipes and their base key index in one pipeline
func (s *RedisSource) Save(ctx context.Context, recipes []*formula.Recipe) error {
	pipe := s.client.Pipeline()
	for _, recipe := range recipes {
		if recipe == nil || recipe.ID == "" {
			return alcherr.InvalidArgument("recipe ID is required")
		}
		stored := recipe.Clone()
		stored.Source = s.pack

		data, err := json.Marshal(stored)
		if err != nil {
			return fmt.Errorf("failed to marshal recipe %s: %w", recipe.ID, err)
		}
		pipe.Set(ctx, s.recipeKey(stored.ID), string(data), 0)
		if base := stored.BaseKey(); base != "" {
			pipe.SAdd(ctx, s.baseKey(base), stored.ID)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save pack %s: %w", s.pack, err)
	}
	return nil
}

// Resolve loads one recipe
func (s *RedisSource) Resolve(ctx context.Context, id string) (*formula.Recipe, error) {
	data, err := s.client.Get(ctx, s.recipeKey(id)).Result()
	if err == redis.Nil {
		return nil, alcherr.NotFoundf("recipe '%s' not found in %s", id, s.pack).
			WithMeta("recipe_id", id).
			WithMeta("pack", s.pack)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	var recipe formula.Recipe
	if err := json.Unmarshal([]byte(data), &recipe); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe %s: %w", id, err)
	}
	return &recipe, nil
}

// FindByBaseKeys unions the base key sets and loads the members, sorted by id
func (s *RedisSource) FindByBaseKeys(ctx context.Context, keys []string) ([]*formula.Recipe, error) {
	if len(keys) == 0 {
		return []*formula.Recipe{}, nil
	}

	setKeys := make([]string, 0, len(keys))
	for _, key := range keys {
		setKeys = append(setKeys, s.baseKey(key))
	}

	ids, err := s.client.SUnion(ctx, setKeys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read base key index: %w", err)
	}
	if len(ids) == 0 {
		return []*formula.Recipe{}, nil
	}
	sort.Strings(ids)

	recipeKeys := make([]string, 0, len(ids))
	for _, id := range ids {
		recipeKeys = append(recipeKeys, s.recipeKey(id))
	}

	values, err := s.client.MGet(ctx, recipeKeys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}

	recipes := make([]*formula.Recipe, 0, len(values))
	for i, value := range values {
		data, ok := value.(string)
		if !ok {
			// index entry without a record
			continue
		}
		var recipe formula.Recipe
		if err := json.Unmarshal([]byte(data), &recipe); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recipe %s: %w", ids[i], err)
		}
		recipes = append(recipes, &recipe)
	}
	return recipes, nil
}
