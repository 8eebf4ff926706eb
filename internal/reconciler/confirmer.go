package reconciler

//go:generate mockgen -destination=mock/mock_confirmer.go -package=mockreconciler -source=confirmer.go

import (
	"context"

	"github.com/KirkDiggler/alchemist-formulas/internal/domain/formula"
)

// PromptKind identifies what a confirmation is about
type PromptKind string

const (
	PromptGrantOne  PromptKind = "grant_one"
	PromptGrantAll  PromptKind = "grant_all"
	PromptRemoveOne PromptKind = "remove_one"
	PromptRemoveAll PromptKind = "remove_all"
)

// Prompt is a single yes/no question put to whoever manages the actor
type Prompt struct {
	Kind      PromptKind
	ActorID   string
	ActorName string
	Recipes   []*formula.Recipe
}

// IsRemoval reports whether the prompt asks to remove formulas
func (p *Prompt) IsRemoval() bool {
	return p.Kind == PromptRemoveOne || p.Kind == PromptRemoveAll
}

// IsBatch reports whether the prompt covers a whole list
func (p *Prompt) IsBatch() bool {
	return p.Kind == PromptGrantAll || p.Kind == PromptRemoveAll
}

// Confirmer asks a user to accept or decline a prompt. It may block until answered.
// An error is treated as a decline.
type Confirmer interface {
	Confirm(ctx context.Context, prompt *Prompt) (bool, error)
}

// ConfirmFunc adapts a function to the Confirmer interface
type ConfirmFunc func(ctx context.Context, prompt *Prompt) (bool, error)

// Confirm calls f
func (f ConfirmFunc) Confirm(ctx context.Context, prompt *Prompt) (bool, error) {
	return f(ctx, prompt)
}

// AcceptAll confirms every prompt
var AcceptAll Confirmer = ConfirmFunc(func(context.Context, *Prompt) (bool, error) {
	return true, nil
})

// DeclineAll declines every prompt
var DeclineAll Confirmer = ConfirmFunc(func(context.Context, *Prompt) (bool, error) {
	return false, nil
})
