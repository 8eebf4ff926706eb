package alchemy

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/alchemist-formulas/internal/domain/item"
)

// damageNoteSelector marks Note rules that repeat the item description on damage rolls
const damageNoteSelector = "{item|_id}-damage"

var (
	// @Check[reflex|dc:17]; flat checks are filtered by hand
	inlineCheckDC = regexp.MustCompile(`@Check\[(\w+)\|dc:(\d+)\]`)
	proseDC       = regexp.MustCompile(`DC is \d+`)
)

// RewriteDC replaces the DC of every non flat inline check and every
// "DC is N" phrase in text with dc
func RewriteDC(text string, dc int) string {
	value := strconv.Itoa(dc)

	text = inlineCheckDC.ReplaceAllStringFunc(text, func(match string) string {
		groups := inlineCheckDC.FindStringSubmatch(match)
		if strings.HasPrefix(groups[1], "flat") {
			return match
		}
		return "@Check[" + groups[1] + "|dc:" + value + "]"
	})

	return proseDC.ReplaceAllLiteralString(text, "DC is "+value)
}

// Change reports what ApplyClassDC touched
type Change struct {
	Description bool
	Rules       bool
}

// Any reports whether the item was modified
func (c Change) Any() bool {
	return c.Description || c.Rules
}

// ApplyClassDC rewrites the item description to dc and copies the result
// into the damage Note rules
func ApplyClassDC(it *item.Item, dc int) Change {
	var change Change

	updated := RewriteDC(it.Description, dc)
	if updated != it.Description {
		it.Description = updated
		change.Description = true
	}

	for i, rule := range it.Rules {
		if rule.Key != item.RuleKeyNote || !strings.Contains(rule.Selector, damageNoteSelector) {
			continue
		}
		if rule.Text == updated {
			continue
		}
		it.Rules[i].Text = updated
		change.Rules = true
	}

	return change
}
