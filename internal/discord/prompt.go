package discord

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/alchemist-formulas/internal/domain/formula"
	"github.com/KirkDiggler/alchemist-formulas/internal/reconciler"
)

const (
	colorGrant   = 0x2ecc71
	colorRemoval = 0xe67e22
)

// PromptTitle returns the embed title for a prompt
func PromptTitle(prompt *reconciler.Prompt) string {
	switch prompt.Kind {
	case reconciler.PromptGrantOne:
		return "New Formula Discovered"
	case reconciler.PromptGrantAll:
		return "New Formulas Discovered"
	case reconciler.PromptRemoveOne:
		return "Remove Lower-Level Formula"
	default:
		return "Remove Lower-Level Formulas"
	}
}

// PromptText returns the question put to the user
func PromptText(prompt *reconciler.Prompt) string {
	if len(prompt.Recipes) == 0 {
		return ""
	}

	name := prompt.ActorName
	if !prompt.IsBatch() {
		recipe := prompt.Recipes[0]
		if prompt.IsRemoval() {
			return fmt.Sprintf("%s has a higher version of formula **%s** (Level %d). Do you want to remove it?",
				name, recipe.Name, recipe.Level)
		}
		return fmt.Sprintf("%s has unlocked the formula for **%s** (Level %d). Do you want to add it?",
			name, recipe.Name, recipe.Level)
	}

	var b strings.Builder
	if prompt.IsRemoval() {
		fmt.Fprintf(&b, "%s has the following lower-level formulas that are being replaced:\n", name)
	} else {
		fmt.Fprintf(&b, "%s has unlocked new formulas:\n", name)
	}
	for _, recipe := range byLevel(prompt.Recipes) {
		fmt.Fprintf(&b, "- Level %d: **%s**\n", recipe.Level, recipe.Name)
	}
	if prompt.IsRemoval() {
		b.WriteString("\nDo you want to remove these formulas?")
	} else {
		b.WriteString("\nDo you want to add these formulas?")
	}
	return b.String()
}

// byLevel sorts a copy by level ascending, keeping the prompt order within a level
func byLevel(recipes []*formula.Recipe) []*formula.Recipe {
	sorted := slices.Clone(recipes)
	slices.SortStableFunc(sorted, func(a, b *formula.Recipe) int {
		return a.Level - b.Level
	})
	return sorted
}

// promptMessage renders the prompt with yes/no buttons addressed to userID
func promptMessage(promptID, userID string, prompt *reconciler.Prompt) *discordgo.MessageSend {
	color := colorGrant
	if prompt.IsRemoval() {
		color = colorRemoval
	}

	return &discordgo.MessageSend{
		Content: fmt.Sprintf("<@%s>", userID),
		Embeds: []*discordgo.MessageEmbed{{
			Title:       PromptTitle(prompt),
			Description: PromptText(prompt),
			Color:       color,
		}},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Yes",
						Style:    discordgo.SuccessButton,
						CustomID: confirmButtonID(promptID, AnswerYes),
					},
					discordgo.Button{
						Label:    "No",
						Style:    discordgo.DangerButton,
						CustomID: confirmButtonID(promptID, AnswerNo),
					},
				},
			},
		},
		AllowedMentions: &discordgo.MessageAllowedMentions{Users: []string{userID}},
	}
}

// answeredEmbed replaces the prompt after it is answered or expires
func answeredEmbed(prompt *reconciler.Prompt, status string) []*discordgo.MessageEmbed {
	return []*discordgo.MessageEmbed{{
		Title:       PromptTitle(prompt),
		Description: PromptText(prompt),
		Footer:      &discordgo.MessageEmbedFooter{Text: status},
	}}
}
