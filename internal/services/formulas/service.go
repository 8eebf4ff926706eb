package formulas

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/KirkDiggler/alchemist-formulas/internal/domain/character"
	"github.com/KirkDiggler/alchemist-formulas/internal/domain/formula"
	alcherr "github.com/KirkDiggler/alchemist-formulas/internal/errors"
	"github.com/KirkDiggler/alchemist-formulas/internal/events"
	"github.com/KirkDiggler/alchemist-formulas/internal/metrics"
	"github.com/KirkDiggler/alchemist-formulas/internal/reconciler"
	"github.com/KirkDiggler/alchemist-formulas/internal/repositories/actors"
	"github.com/KirkDiggler/alchemist-formulas/internal/uuid"
)

type service struct {
	repository       actors.Repository
	catalog          Catalog
	policy           reconciler.Policy
	permission       character.Permission
	eventBus         *events.Bus
	metrics          metrics.Recorder
	uuidGenerator    uuid.Generator
	defaultConfirmer reconciler.Confirmer
	logger           *zap.Logger
	locks            *actorLocks
	now              func() time.Time
}

// ServiceConfig holds configuration for the formula service
type ServiceConfig struct {
	Repository actors.Repository
	Catalog    Catalog

	// Policy defaults to reconciler.DefaultPolicy
	Policy reconciler.Policy

	// Permission defaults to actor_owner
	Permission character.Permission

	// EventBus receives FormulasReconciledEvent after a write. Optional.
	EventBus *events.Bus

	Metrics       metrics.Recorder
	UUIDGenerator uuid.Generator

	// DefaultConfirmer answers prompts when the input carries none. Defaults to declining.
	DefaultConfirmer reconciler.Confirmer

	Logger *zap.Logger
}

// NewService creates a new formula service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Repository == nil {
		panic("actor repository is required")
	}
	if cfg.Catalog == nil {
		panic("catalog is required")
	}

	svc := &service{
		repository:       cfg.Repository,
		catalog:          cfg.Catalog,
		policy:           cfg.Policy,
		permission:       cfg.Permission,
		eventBus:         cfg.EventBus,
		metrics:          cfg.Metrics,
		uuidGenerator:    cfg.UUIDGenerator,
		defaultConfirmer: cfg.DefaultConfirmer,
		logger:           cfg.Logger,
		locks:            newActorLocks(),
		now:              time.Now,
	}

	if svc.policy == (reconciler.Policy{}) {
		svc.policy = reconciler.DefaultPolicy()
	}
	if svc.permission == "" {
		svc.permission = character.PermissionActorOwner
	}
	if svc.metrics == nil {
		svc.metrics = metrics.Nop{}
	}
	if svc.uuidGenerator == nil {
		svc.uuidGenerator = &uuid.SortableGenerator{}
	}
	if svc.defaultConfirmer == nil {
		svc.defaultConfirmer = reconciler.DeclineAll
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}

	return svc
}

// HandleLevelChange runs one reconciliation and writes the new formula book in a single update
func (s *service) HandleLevelChange(ctx context.Context, input *LevelChangeInput) (*LevelChangeResult, error) {
	if input == nil {
		return nil, alcherr.InvalidArgument("input cannot be nil")
	}
	if input.ActorID == "" {
		return nil, alcherr.InvalidArgument("actor ID is required")
	}

	unlock := s.locks.lock(input.ActorID)
	defer unlock()

	started := s.now()
	result := &LevelChangeResult{
		RunID:    s.uuidGenerator.New(),
		ActorID:  input.ActorID,
		NewLevel: input.NewLevel,
	}
	log := s.logger.With(
		zap.String("run_id", result.RunID),
		zap.String("actor_id", input.ActorID),
		zap.Int("new_level", input.NewLevel))

	err := s.handleLevelChange(ctx, input, result, log)
	s.metrics.ObserveRun(runResult(result, err), s.now().Sub(started))
	if err != nil {
		log.Warn("Formula reconciliation failed", zap.Error(err))
		return nil, err
	}
	return result, nil
}

func (s *service) handleLevelChange(ctx context.Context, input *LevelChangeInput, result *LevelChangeResult, log *zap.Logger) error {
	actor, err := s.repository.Get(ctx, input.ActorID)
	if err != nil {
		return alcherr.Wrap(err, "failed to get actor")
	}
	result.ActorName = actor.Name
	result.PreviousLevel = actor.LastLevel()

	if !actor.IsAlchemist() {
		log.Debug("Actor is not an alchemist, ignoring")
		result.Skipped = SkipNotAlchemist
		return nil
	}

	if !character.CanManageFormulas(s.permission, actor, input.ActingUser, input.Online) {
		return alcherr.PermissionDeniedf("user %s cannot manage formulas for %s", input.ActingUser.ID, actor.Name).
			WithMeta("actor_id", actor.ID).
			WithMeta("user_id", input.ActingUser.ID).
			WithMeta("permission", string(s.permission))
	}

	if input.NewLevel < result.PreviousLevel {
		log.Info("Level dropped, recording new level without changes",
			zap.Int("previous_level", result.PreviousLevel))
		result.Skipped = SkipLevelDropped
		return s.recordLevel(ctx, actor.ID, input.NewLevel)
	}

	known := formula.NewKnownSet(actor.Formulas...)
	if known.IsEmpty() {
		log.Debug("Actor knows no formulas, nothing to reconcile")
		result.Skipped = SkipNoFormulas
		return s.recordLevel(ctx, actor.ID, input.NewLevel)
	}

	assembly, err := s.catalog.Assemble(ctx, known)
	if err != nil {
		return alcherr.Wrap(err, "failed to assemble catalog")
	}
	result.Unresolved = assembly.Unresolved
	if len(assembly.Unresolved) > 0 {
		log.Debug("Known formulas missing from every compendium", zap.Strings("formula_ids", assembly.Unresolved))
	}

	confirmer := input.Confirmer
	if confirmer == nil {
		confirmer = s.defaultConfirmer
	}

	outcome, err := reconciler.Reconcile(ctx, &formula.Request{
		ActorID:       actor.ID,
		ActorName:     actor.Name,
		PreviousLevel: result.PreviousLevel,
		NewLevel:      input.NewLevel,
		Known:         known,
		Catalog:       assembly.Recipes,
	}, s.policy, confirmer)
	if err != nil {
		return alcherr.Wrap(err, "failed to reconcile formulas")
	}
	result.Outcome = outcome

	for _, decision := range outcome.Decisions {
		s.metrics.ObserveDecision(string(decision.Kind), decision.Accepted)
		if decision.Err != nil {
			log.Warn("Prompt failed, treated as declined",
				zap.String("kind", string(decision.Kind)),
				zap.Error(decision.Err))
		}
	}

	if outcome.Changed() {
		if err := s.repository.ReplaceFormulas(ctx, actor.ID, actor.Formulas, outcome.Known.IDs()); err != nil {
			return alcherr.Wrap(err, "failed to save formulas")
		}
		s.metrics.AddGranted(len(outcome.Accepted))
		s.metrics.AddRemoved(len(outcome.Removed))

		log.Info("Formulas reconciled",
			zap.Strings("learned", formula.Names(outcome.Accepted)),
			zap.Strings("removed", formula.Names(outcome.Removed)))
	}

	if err := s.recordLevel(ctx, actor.ID, input.NewLevel); err != nil {
		return err
	}

	if outcome.Changed() && s.eventBus != nil {
		event := events.NewFormulasReconciledEvent(result.RunID, actor.ID, actor.Name, outcome.Accepted, outcome.Removed)
		if err := s.eventBus.Emit(ctx, event); err != nil {
			// formulas are already saved
			log.Warn("Failed to publish reconciled event", zap.Error(err))
		}
	}

	return nil
}

func (s *service) recordLevel(ctx context.Context, actorID string, level int) error {
	if err := s.repository.SetPreviousLevel(ctx, actorID, level); err != nil {
		return alcherr.Wrap(err, "failed to record previous level")
	}
	return nil
}

// Plan runs the configured policy with every prompt accepted and writes nothing.
// Outcome is nil when the actor knows no formulas.
func (s *service) Plan(ctx context.Context, actorID string, newLevel int) (*PlanResult, error) {
	if actorID == "" {
		return nil, alcherr.InvalidArgument("actor ID is required")
	}

	actor, err := s.repository.Get(ctx, actorID)
	if err != nil {
		return nil, alcherr.Wrap(err, "failed to get actor")
	}

	plan := &PlanResult{
		Actor:         actor,
		PreviousLevel: actor.LastLevel(),
		NewLevel:      newLevel,
	}

	known := formula.NewKnownSet(actor.Formulas...)
	if known.IsEmpty() {
		// no formula book, nothing to plan
		return plan, nil
	}

	assembly, err := s.catalog.Assemble(ctx, known)
	if err != nil {
		return nil, alcherr.Wrap(err, "failed to assemble catalog")
	}
	plan.Unresolved = assembly.Unresolved

	outcome, err := reconciler.Reconcile(ctx, &formula.Request{
		ActorID:       actor.ID,
		ActorName:     actor.Name,
		PreviousLevel: plan.PreviousLevel,
		NewLevel:      newLevel,
		Known:         known,
		Catalog:       assembly.Recipes,
	}, s.policy, reconciler.AcceptAll)
	if err != nil {
		return nil, alcherr.Wrap(err, "failed to plan formulas")
	}
	plan.Outcome = outcome

	return plan, nil
}

// SyncPreviousLevels stores each actor's current level as its previous level
func (s *service) SyncPreviousLevels(ctx context.Context, actorIDs []string) (int, error) {
	targets, err := s.syncTargets(ctx, actorIDs)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, actor := range targets {
		unlock := s.locks.lock(actor.ID)
		err := s.repository.SetPreviousLevel(ctx, actor.ID, actor.Level)
		unlock()
		if err != nil {
			return updated, alcherr.Wrapf(err, "failed to sync previous level for %s", actor.ID)
		}

		s.logger.Debug("Previous level synced",
			zap.String("actor_id", actor.ID),
			zap.Int("level", actor.Level))
		updated++
	}

	return updated, nil
}

// syncTargets returns the qualifying actors, each once
func (s *service) syncTargets(ctx context.Context, actorIDs []string) ([]*character.Character, error) {
	if len(actorIDs) == 0 {
		all, err := s.repository.List(ctx)
		if err != nil {
			return nil, alcherr.Wrap(err, "failed to list actors")
		}

		targets := make([]*character.Character, 0, len(all))
		for _, actor := range all {
			if actor.InParty && actor.IsAlchemist() {
				targets = append(targets, actor)
			}
		}
		return targets, nil
	}

	seen := make(map[string]struct{}, len(actorIDs))
	targets := make([]*character.Character, 0, len(actorIDs))
	for _, id := range actorIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		actor, err := s.repository.Get(ctx, id)
		if err != nil {
			return nil, alcherr.Wrap(err, "failed to get actor")
		}
		if !actor.IsAlchemist() {
			continue
		}
		targets = append(targets, actor)
	}
	return targets, nil
}

func runResult(result *LevelChangeResult, err error) string {
	switch {
	case err != nil:
		return metrics.ResultError
	case result.Skipped != SkipNone:
		return metrics.ResultSkipped
	case result.Outcome != nil && result.Outcome.Changed():
		return metrics.ResultChanged
	default:
		return metrics.ResultUnchanged
	}
}
