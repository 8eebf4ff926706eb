package services

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/KirkDiggler/alchemist-formulas/internal/catalog"
	"github.com/KirkDiggler/alchemist-formulas/internal/config"
	"github.com/KirkDiggler/alchemist-formulas/internal/events"
	"github.com/KirkDiggler/alchemist-formulas/internal/metrics"
	"github.com/KirkDiggler/alchemist-formulas/internal/notify"
	"github.com/KirkDiggler/alchemist-formulas/internal/reconciler"
	"github.com/KirkDiggler/alchemist-formulas/internal/repositories/actors"
	"github.com/KirkDiggler/alchemist-formulas/internal/services/alchemy"
	"github.com/KirkDiggler/alchemist-formulas/internal/services/formulas"
)

// Provider holds all service instances
type Provider struct {
	Actors         actors.Repository
	Catalog        *catalog.Multi
	EventBus       *events.Bus
	FormulaService formulas.Service

	subscriptions []subscription
}

type subscription struct {
	eventType  events.EventType
	listenerID string
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	Config *config.Config

	// RedisClient backs actors and compendium packs missing from disk. Nil keeps everything in memory.
	RedisClient redis.UniversalClient

	// Registerer receives the formula metrics. Nil disables them.
	Registerer prometheus.Registerer

	// Confirmers answers level up prompts raised through the event bus. Optional.
	Confirmers formulas.ConfirmerFactory

	// DefaultConfirmer answers prompts when no user is attached. Defaults to declining.
	DefaultConfirmer reconciler.Confirmer

	// Notifiers receive announcements in addition to the log
	Notifiers []notify.Notifier

	Logger *zap.Logger
}

// NewProvider creates a new service provider with all services initialized
func NewProvider(cfg *ProviderConfig) (*Provider, error) {
	if cfg.Config == nil {
		panic("config is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	policy, err := cfg.Config.Policy()
	if err != nil {
		return nil, err
	}
	permission, err := cfg.Config.Permission()
	if err != nil {
		return nil, err
	}

	// Use in-memory repository if no Redis client is provided
	var actorRepo actors.Repository = actors.NewInMemoryRepository()
	if cfg.RedisClient != nil {
		actorRepo = actors.NewRedisRepository(&actors.RedisRepoConfig{Client: cfg.RedisClient})
	}

	registry, err := catalog.LoadPackFiles(cfg.Config.Catalog.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to load compendium packs: %w", err)
	}
	if cfg.RedisClient != nil {
		if err := registerRedisPacks(registry, cfg.RedisClient, cfg.Config.Catalog); err != nil {
			return nil, err
		}
	}

	compendium, err := catalog.NewMulti(&catalog.MultiConfig{
		Registry:   registry,
		SystemPack: cfg.Config.Catalog.SystemPack,
		UserPacks:  cfg.Config.Catalog.UserPacks,
		Logger:     logger.Named("catalog"),
	})
	if err != nil {
		return nil, err
	}

	var recorder metrics.Recorder = metrics.Nop{}
	if cfg.Registerer != nil {
		recorder = metrics.New(cfg.Registerer)
	}

	bus := events.NewBus(logger)

	formulaService := formulas.NewService(&formulas.ServiceConfig{
		Repository:       actorRepo,
		Catalog:          compendium,
		Policy:           policy,
		Permission:       permission,
		EventBus:         bus,
		Metrics:          recorder,
		DefaultConfirmer: cfg.DefaultConfirmer,
		Logger:           logger,
	})

	provider := &Provider{
		Actors:         actorRepo,
		Catalog:        compendium,
		EventBus:       bus,
		FormulaService: formulaService,
	}

	// A disabled grant mode turns level up bookkeeping off entirely
	if policy.Grant != reconciler.GrantDisabled {
		provider.subscribe(events.EventTypeActorUpdated, formulas.NewListener(&formulas.ListenerConfig{
			Service:    formulaService,
			Confirmers: cfg.Confirmers,
			Logger:     logger,
		}))
	}

	var announcer notify.Notifier
	if cfg.Config.Formulas.Announce {
		announcer = append(notify.Multi{notify.NewLogNotifier(logger)}, cfg.Notifiers...)
		provider.subscribe(events.EventTypeFormulasReconciled, notify.NewListener(announcer))
	}

	if cfg.Config.Formulas.PowerfulAlchemy {
		provider.subscribe(events.EventTypeItemCreated, alchemy.NewListener(&alchemy.ListenerConfig{
			Actors:   actorRepo,
			Notifier: announcer,
			Logger:   logger,
		}))
	}

	return provider, nil
}

func (p *Provider) subscribe(eventType events.EventType, listener events.EventListener) {
	p.EventBus.Subscribe(eventType, listener)
	p.subscriptions = append(p.subscriptions, subscription{eventType: eventType, listenerID: listener.ID()})
}

// Close removes the listeners the provider subscribed, so events emitted
// during shutdown no longer start reconciliations or announcements
func (p *Provider) Close() {
	for i := len(p.subscriptions) - 1; i >= 0; i-- {
		sub := p.subscriptions[i]
		p.EventBus.Unsubscribe(sub.eventType, sub.listenerID)
	}
	p.subscriptions = nil
}

// registerRedisPacks serves configured packs that were not loaded from disk out of Redis
func registerRedisPacks(registry *catalog.Registry, client redis.UniversalClient, cfg config.CatalogConfig) error {
	for _, name := range append([]string{cfg.SystemPack}, cfg.UserPacks...) {
		if _, err := registry.Get(name); err == nil {
			continue
		}
		if err := registry.Register(catalog.NewRedisSource(client, name)); err != nil {
			return err
		}
	}
	return nil
}
