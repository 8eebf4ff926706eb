package discord

import (
	"fmt"
	"strings"
)

const (
	// CustomIDSeparator separates parts of a component custom ID
	CustomIDSeparator = ":"

	// MaxCustomIDLength is Discord's limit for component custom IDs
	MaxCustomIDLength = 100

	// DomainFormula marks components owned by formula prompts
	DomainFormula = "formula"

	ActionConfirm = "confirm"

	AnswerYes = "yes"
	AnswerNo  = "no"
)

// CustomID is a structured component custom ID: domain:action:target[:args...]
type CustomID struct {
	Domain string
	Action string
	Target string
	Args   []string
}

// Encode joins the parts, failing when the result exceeds Discord's limit
func (c *CustomID) Encode() (string, error) {
	if c.Domain == "" || c.Action == "" {
		return "", fmt.Errorf("custom ID needs a domain and an action")
	}

	parts := []string{c.Domain, c.Action}
	if c.Target != "" || len(c.Args) > 0 {
		parts = append(parts, c.Target)
	}
	parts = append(parts, c.Args...)

	result := strings.Join(parts, CustomIDSeparator)
	if len(result) > MaxCustomIDLength {
		return "", fmt.Errorf("custom ID exceeds maximum length of %d characters", MaxCustomIDLength)
	}
	return result, nil
}

// MustEncode is like Encode but panics on error
func (c *CustomID) MustEncode() string {
	result, err := c.Encode()
	if err != nil {
		panic(err)
	}
	return result
}

// ParseCustomID parses a custom ID string
func ParseCustomID(customID string) (*CustomID, error) {
	if customID == "" {
		return nil, fmt.Errorf("empty custom ID")
	}

	parts := strings.Split(customID, CustomIDSeparator)
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid custom ID format: expected at least domain:action")
	}

	result := &CustomID{Domain: parts[0], Action: parts[1]}
	if len(parts) > 2 {
		result.Target = parts[2]
	}
	if len(parts) > 3 {
		result.Args = parts[3:]
	}
	return result, nil
}

// confirmButtonID builds the custom ID for one answer button of a prompt
func confirmButtonID(promptID, answer string) string {
	return (&CustomID{
		Domain: DomainFormula,
		Action: ActionConfirm,
		Target: promptID,
		Args:   []string{answer},
	}).MustEncode()
}
