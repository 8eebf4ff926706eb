package actors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/alchemist-formulas/internal/domain/character"
	alcherr "github.com/KirkDiggler/alchemist-formulas/internal/errors"
)

const (
	actorKeyPrefix = "actor:"
	actorIndexKey  = "actors"
)

// ActorData represents the serialized form of an actor in Redis
type ActorData struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ClassSlug     string    `json:"class_slug"`
	Feats         []string  `json:"feats"`
	Level         int       `json:"level"`
	PreviousLevel int       `json:"previous_level"`
	ClassDC       int       `json:"class_dc,omitempty"`
	Formulas      []string  `json:"formulas"`
	Owners        []string  `json:"owners"`
	InParty       bool      `json:"in_party"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient

	// Now defaults to time.Now
	Now func() time.Time
}

// redisRepo implements the Repository interface using Redis
type redisRepo struct {
	client redis.UniversalClient
	now    func() time.Time
}

// NewRedisRepository creates a new Redis-backed actor repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil || cfg.Client == nil {
		panic("redis client cannot be nil")
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &redisRepo{
		client: cfg.Client,
		now:    now,
	}
}

// NewRedis creates a Redis repository with default settings
func NewRedis(client redis.UniversalClient) Repository {
	return NewRedisRepository(&RedisRepoConfig{Client: client})
}

func actorKey(id string) string {
	return actorKeyPrefix + id
}

// Create stores a new actor
func (r *redisRepo) Create(ctx context.Context, actor *character.Character) error {
	if actor == nil {
		return alcherr.InvalidArgument("actor cannot be nil")
	}
	if actor.ID == "" {
		return alcherr.InvalidArgument("actor ID is required")
	}

	data, err := json.Marshal(toData(actor))
	if err != nil {
		return fmt.Errorf("failed to marshal actor: %w", err)
	}

	created, err := r.client.SetNX(ctx, actorKey(actor.ID), string(data), 0).Result()
	if err != nil {
		return fmt.Errorf("failed to create actor: %w", err)
	}
	if !created {
		return alcherr.AlreadyExistsf("actor with ID '%s' already exists", actor.ID).
			WithMeta("actor_id", actor.ID)
	}

	if err := r.client.SAdd(ctx, actorIndexKey, actor.ID).Err(); err != nil {
		return fmt.Errorf("failed to index actor: %w", err)
	}
	return nil
}

// Get retrieves an actor by ID
func (r *redisRepo) Get(ctx context.Context, id string) (*character.Character, error) {
	if id == "" {
		return nil, alcherr.InvalidArgument("actor ID is required")
	}
	return r.get(ctx, r.client, id)
}

// List returns every indexed actor ordered by ID. Index entries without a record are skipped.
func (r *redisRepo) List(ctx context.Context) ([]*character.Character, error) {
	ids, err := r.client.SMembers(ctx, actorIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list actors: %w", err)
	}
	if len(ids) == 0 {
		return []*character.Character{}, nil
	}
	sort.Strings(ids)

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, actorKey(id))
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load actors: %w", err)
	}

	result := make([]*character.Character, 0, len(values))
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}
		actor, err := fromJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal actor %s: %w", ids[i], err)
		}
		result = append(result, actor)
	}
	return result, nil
}

// ReplaceFormulas swaps the formula book inside a WATCH transaction
func (r *redisRepo) ReplaceFormulas(ctx context.Context, id string, expected, next []string) error {
	return r.update(ctx, id, func(actor *character.Character) error {
		if !slices.Equal(actor.Formulas, expected) {
			return conflict(id)
		}
		actor.Formulas = slices.Clone(next)
		return nil
	})
}

// SetLevel updates the actor level
func (r *redisRepo) SetLevel(ctx context.Context, id string, level int) error {
	return r.update(ctx, id, func(actor *character.Character) error {
		actor.Level = level
		return nil
	})
}

// SetPreviousLevel updates the level formulas were last reconciled at
func (r *redisRepo) SetPreviousLevel(ctx context.Context, id string, level int) error {
	return r.update(ctx, id, func(actor *character.Character) error {
		actor.PreviousLevel = level
		return nil
	})
}

// update runs a read-modify-write on one actor. A concurrent write to the
// key aborts the transaction and surfaces as a conflict.
func (r *redisRepo) update(ctx context.Context, id string, fn func(actor *character.Character) error) error {
	if id == "" {
		return alcherr.InvalidArgument("actor ID is required")
	}

	key := actorKey(id)
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		actor, err := r.get(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(actor); err != nil {
			return err
		}
		actor.UpdatedAt = r.now()

		data, err := json.Marshal(toData(actor))
		if err != nil {
			return fmt.Errorf("failed to marshal actor: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, string(data), 0)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return conflict(id)
	}
	return err
}

func (r *redisRepo) get(ctx context.Context, cmd redis.Cmdable, id string) (*character.Character, error) {
	raw, err := cmd.Get(ctx, actorKey(id)).Result()
	if err == redis.Nil {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get actor: %w", err)
	}

	actor, err := fromJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal actor %s: %w", id, err)
	}
	return actor, nil
}

func toData(actor *character.Character) *ActorData {
	return &ActorData{
		ID:            actor.ID,
		Name:          actor.Name,
		ClassSlug:     actor.ClassSlug,
		Feats:         actor.Feats,
		Level:         actor.Level,
		PreviousLevel: actor.PreviousLevel,
		ClassDC:       actor.ClassDC,
		Formulas:      actor.Formulas,
		Owners:        actor.Owners,
		InParty:       actor.InParty,
		UpdatedAt:     actor.UpdatedAt,
	}
}

func fromJSON(raw string) (*character.Character, error) {
	var data ActorData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, err
	}
	return &character.Character{
		ID:            data.ID,
		Name:          data.Name,
		ClassSlug:     data.ClassSlug,
		Feats:         data.Feats,
		Level:         data.Level,
		PreviousLevel: data.PreviousLevel,
		ClassDC:       data.ClassDC,
		Formulas:      data.Formulas,
		Owners:        data.Owners,
		InParty:       data.InParty,
		UpdatedAt:     data.UpdatedAt,
	}, nil
}
