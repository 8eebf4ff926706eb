package reconciler

import (
	"context"

	"github.com/KirkDiggler/alchemist-formulas/internal/domain/formula"
	alcherr "github.com/KirkDiggler/alchemist-formulas/internal/errors"
)

// State is a step of a single reconciliation run
type State string

const (
	StateIdle       State = "idle"
	StateResolving  State = "resolving"
	StateConfirming State = "confirming"
	StateFinalizing State = "finalizing"
)

// Outcome is everything a finished run decided. Callers persist Known as one update.
type Outcome struct {
	Candidates []*formula.Recipe
	Accepted   []*formula.Recipe
	Plan       RemovalPlan
	Removed    []*formula.Recipe

	// Known is the known set after removing Removed and adding Accepted
	Known formula.KnownSet

	Decisions []Decision

	// Trace lists the states the run passed through, ending in StateIdle
	Trace []State
}

// Changed reports whether the run grants or removes anything
func (o *Outcome) Changed() bool {
	return len(o.Accepted) > 0 || len(o.Removed) > 0
}

// Declined returns the decisions that were answered no or failed
func (o *Outcome) Declined() []Decision {
	declined := make([]Decision, 0)
	for _, d := range o.Decisions {
		if !d.Accepted {
			declined = append(declined, d)
		}
	}
	return declined
}

// Reconcile runs grant then removal for one level change. Removal is planned over
// the known set plus accepted grants, so a newly granted tier can retire an older one.
// Nothing is returned on error; the caller has nothing to persist.
func Reconcile(ctx context.Context, req *formula.Request, policy Policy, confirmer Confirmer) (*Outcome, error) {
	if err := policy.Validate(); err != nil {
		return nil, alcherr.WrapWithCode(err, alcherr.CodeInvalidRequest, "invalid policy")
	}
	if confirmer == nil {
		confirmer = DeclineAll
	}

	outcome := &Outcome{Trace: []State{StateIdle, StateResolving}}

	candidates, err := ComputeGrantable(req)
	if err != nil {
		return nil, err
	}
	outcome.Candidates = candidates
	subject := Subject{ID: req.ActorID, Name: req.ActorName}

	outcome.Trace = append(outcome.Trace, StateConfirming)
	grant, err := ApplyGrantPolicy(ctx, subject, candidates, policy.Grant, confirmer)
	if err != nil {
		return nil, err
	}
	outcome.Accepted = grant.Accepted
	outcome.Decisions = append(outcome.Decisions, grant.Decisions...)

	afterGrant := req.Known.Apply(nil, formula.IDs(grant.Accepted))
	outcome.Plan = ComputeRemovable(afterGrant, req.Catalog)

	removal, err := ApplyRemovalPolicy(ctx, subject, outcome.Plan, policy.Removal, policy.Prompt, confirmer)
	if err != nil {
		return nil, err
	}
	outcome.Removed = removal.Removed
	outcome.Decisions = append(outcome.Decisions, removal.Decisions...)

	outcome.Trace = append(outcome.Trace, StateFinalizing)
	outcome.Known = afterGrant.Apply(formula.IDs(removal.Removed), nil)

	outcome.Trace = append(outcome.Trace, StateIdle)
	return outcome, nil
}
