package services_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/alchemist-formulas/internal/catalog"
	"github.com/KirkDiggler/alchemist-formulas/internal/config"
	"github.com/KirkDiggler/alchemist-formulas/internal/domain/character"
	"github.com/KirkDiggler/alchemist-formulas/internal/domain/item"
	"github.com/KirkDiggler/alchemist-formulas/internal/events"
	"github.com/KirkDiggler/alchemist-formulas/internal/notify"
	"github.com/KirkDiggler/alchemist-formulas/internal/services"
	"github.com/KirkDiggler/alchemist-formulas/internal/testutils"
)

type capturingNotifier struct {
	announcements []*notify.Announcement
}

func (n *capturingNotifier) Announce(_ context.Context, a *notify.Announcement) error {
	n.announcements = append(n.announcements, a)
	return nil
}

func testConfig(grant string) *config.Config {
	return &config.Config{
		Catalog: config.CatalogConfig{
			Paths:      []string{"../catalog/testdata/equipment.yaml"},
			SystemPack: catalog.SystemPack,
		},
		Formulas: config.FormulaConfig{
			GrantMode:   grant,
			RemovalMode: "remove_lower",
			PromptMode:  "auto_lower",
			Permission:  "actor_owner",
			Announce:    true,

			PowerfulAlchemy: true,
		},
	}
}

func TestProvider_LevelUpThroughEventBus(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	announced := &capturingNotifier{}

	provider, err := services.NewProvider(&services.ProviderConfig{
		Config:     testConfig("auto"),
		Registerer: reg,
		Notifiers:  []notify.Notifier{announced},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{catalog.SystemPack}, provider.Catalog.Sources())

	actor := testutils.CreateTestAlchemist("actor-1", "player-1", "Fizzwick", 5, testutils.AcidLesser)
	require.NoError(t, provider.Actors.Create(ctx, actor))

	player := testutils.CreateTestUser("player-1", false)
	update := events.NewActorUpdatedEvent("actor-1", player, 5)
	update.Online = []character.User{player}
	require.NoError(t, provider.EventBus.Emit(ctx, update))

	stored, err := provider.Actors.Get(ctx, "actor-1")
	require.NoError(t, err)
	assert.Equal(t, []string{testutils.AcidModerate}, stored.Formulas)
	assert.Equal(t, 5, stored.PreviousLevel)

	require.Len(t, announced.announcements, 1)
	assert.Equal(t, "Fizzwick", announced.announcements[0].ActorName)
	runs, err := testutil.GatherAndCount(reg, "alchemist_formulas_reconciliations_total")
	require.NoError(t, err)
	assert.Equal(t, 1, runs)
}

func TestProvider_DisabledGrantSkipsLevelUps(t *testing.T) {
	ctx := context.Background()

	provider, err := services.NewProvider(&services.ProviderConfig{Config: testConfig("disabled")})
	require.NoError(t, err)
	assert.False(t, provider.EventBus.HasListeners(events.EventTypeActorUpdated))
	assert.True(t, provider.EventBus.HasListeners(events.EventTypeFormulasReconciled))

	require.NoError(t, provider.Actors.Create(ctx, testutils.CreateTestAlchemist("actor-1", "player-1", "Fizzwick", 5, testutils.AcidLesser)))
	require.NoError(t, provider.EventBus.Emit(ctx, events.NewActorUpdatedEvent("actor-1", testutils.CreateTestUser("player-1", false), 5)))

	stored, err := provider.Actors.Get(ctx, "actor-1")
	require.NoError(t, err)
	assert.Equal(t, []string{testutils.AcidLesser}, stored.Formulas)
}

func TestProvider_InvalidConfig(t *testing.T) {
	cfg := testConfig("auto")
	cfg.Formulas.RemovalMode = "purge"

	_, err := services.NewProvider(&services.ProviderConfig{Config: cfg})
	assert.Error(t, err)

	cfg = testConfig("auto")
	cfg.Catalog.Paths = []string{"../catalog/testdata/missing.yaml"}
	_, err = services.NewProvider(&services.ProviderConfig{Config: cfg})
	assert.ErrorContains(t, err, "failed to load compendium packs")
}

func TestProvider_PowerfulAlchemyThroughEventBus(t *testing.T) {
	ctx := context.Background()
	announced := &capturingNotifier{}

	provider, err := services.NewProvider(&services.ProviderConfig{
		Config:    testConfig("auto"),
		Notifiers: []notify.Notifier{announced},
	})
	require.NoError(t, err)

	actor := testutils.CreateTestAlchemist("actor-1", "player-1", "Fizzwick", 5)
	actor.ClassDC = 22
	actor.Feats = []string{character.FeatPowerfulAlchemy}
	require.NoError(t, provider.Actors.Create(ctx, actor))

	created := &item.Item{
		Name:        "Acid Flask (Lesser)",
		Type:        item.TypeWeapon,
		Traits:      []string{"alchemical", item.TraitInfused},
		Description: "@Check[reflex|dc:17] or @Check[flat|dc:5]",
	}
	event := events.NewItemCreatedEvent("actor-1", created)
	require.NoError(t, provider.EventBus.Emit(ctx, event))

	assert.True(t, event.Updated)
	assert.Equal(t, "@Check[reflex|dc:22] or @Check[flat|dc:5]", created.Description)
	require.Len(t, announced.announcements, 1)
	assert.Equal(t, []notify.ItemUpdate{{Name: "Acid Flask (Lesser)", ClassDC: 22}}, announced.announcements[0].Items)
}

func TestProvider_PowerfulAlchemyDisabled(t *testing.T) {
	cfg := testConfig("auto")
	cfg.Formulas.PowerfulAlchemy = false

	provider, err := services.NewProvider(&services.ProviderConfig{Config: cfg})
	require.NoError(t, err)
	assert.False(t, provider.EventBus.HasListeners(events.EventTypeItemCreated))
}

func TestProvider_CloseUnsubscribesListeners(t *testing.T) {
	ctx := context.Background()
	announced := &capturingNotifier{}

	provider, err := services.NewProvider(&services.ProviderConfig{
		Config:    testConfig("auto"),
		Notifiers: []notify.Notifier{announced},
	})
	require.NoError(t, err)
	for _, eventType := range []events.EventType{events.EventTypeActorUpdated, events.EventTypeFormulasReconciled, events.EventTypeItemCreated} {
		assert.True(t, provider.EventBus.HasListeners(eventType), eventType)
	}

	provider.Close()
	for _, eventType := range []events.EventType{events.EventTypeActorUpdated, events.EventTypeFormulasReconciled, events.EventTypeItemCreated} {
		assert.False(t, provider.EventBus.HasListeners(eventType), eventType)
	}

	// Level ups after Close leave the formula book alone
	require.NoError(t, provider.Actors.Create(ctx, testutils.CreateTestAlchemist("actor-1", "player-1", "Fizzwick", 5, testutils.AcidLesser)))
	player := testutils.CreateTestUser("player-1", false)
	update := events.NewActorUpdatedEvent("actor-1", player, 5)
	update.Online = []character.User{player}
	require.NoError(t, provider.EventBus.Emit(ctx, update))

	stored, err := provider.Actors.Get(ctx, "actor-1")
	require.NoError(t, err)
	assert.Equal(t, []string{testutils.AcidLesser}, stored.Formulas)
	assert.Empty(t, announced.announcements)

	// Closing twice is harmless
	provider.Close()
}
