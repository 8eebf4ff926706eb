package reconciler

import (
	alcherr "github.com/KirkDiggler/alchemist-formulas/internal/errors"
)

// GrantMode controls how newly unlocked formulas are granted
type GrantMode string

const (
	GrantDisabled GrantMode = "disabled"
	GrantAuto     GrantMode = "auto"
	GrantAskEach  GrantMode = "ask_each"
	GrantAskAll   GrantMode = "ask_all"
)

// RemovalMode controls what happens to lower tiers of a known formula
type RemovalMode string

const (
	RemovalDisabled RemovalMode = "disabled"
	// RemovalAddLower keeps every tier. It behaves like RemovalDisabled here.
	RemovalAddLower    RemovalMode = "add_lower"
	RemovalRemoveLower RemovalMode = "remove_lower"
)

// PromptMode controls confirmation of lower tier removals
type PromptMode string

const (
	PromptAutoLower    PromptMode = "auto_lower"
	PromptAskAllLower  PromptMode = "ask_all_lower"
	PromptAskEachLower PromptMode = "ask_each_lower"
)

// Policy is the full set of modes threaded into a reconciliation
type Policy struct {
	Grant   GrantMode
	Removal RemovalMode
	Prompt  PromptMode
}

// DefaultPolicy matches the defaults players get out of the box
func DefaultPolicy() Policy {
	return Policy{
		Grant:   GrantAskAll,
		Removal: RemovalRemoveLower,
		Prompt:  PromptAskAllLower,
	}
}

// AutoPolicy grants and removes without asking
func AutoPolicy() Policy {
	return Policy{
		Grant:   GrantAuto,
		Removal: RemovalRemoveLower,
		Prompt:  PromptAutoLower,
	}
}

// Validate checks that every mode is known
func (p Policy) Validate() error {
	if _, err := ParseGrantMode(string(p.Grant)); err != nil {
		return err
	}
	if _, err := ParseRemovalMode(string(p.Removal)); err != nil {
		return err
	}
	if _, err := ParsePromptMode(string(p.Prompt)); err != nil {
		return err
	}
	return nil
}

// ParseGrantMode validates a grant mode string
func ParseGrantMode(value string) (GrantMode, error) {
	switch mode := GrantMode(value); mode {
	case GrantDisabled, GrantAuto, GrantAskEach, GrantAskAll:
		return mode, nil
	default:
		return "", alcherr.InvalidArgumentf("unknown grant mode %q", value)
	}
}

// ParseRemovalMode validates a removal mode string
func ParseRemovalMode(value string) (RemovalMode, error) {
	switch mode := RemovalMode(value); mode {
	case RemovalDisabled, RemovalAddLower, RemovalRemoveLower:
		return mode, nil
	default:
		return "", alcherr.InvalidArgumentf("unknown removal mode %q", value)
	}
}

// ParsePromptMode validates a removal prompt mode string
func ParsePromptMode(value string) (PromptMode, error) {
	switch mode := PromptMode(value); mode {
	case PromptAutoLower, PromptAskAllLower, PromptAskEachLower:
		return mode, nil
	default:
		return "", alcherr.InvalidArgumentf("unknown removal prompt mode %q", value)
	}
}
