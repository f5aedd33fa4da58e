// Prompt builders.
//
// Every capability sends the provider a system message fixing the output
// layout plus a user message carrying the request. The layouts mirror what
// the extract package parses: labeled sections for recipes and pairings, a
// fenced JSON object for social posts. Time fields are explicitly requested
// as integers with 0 (never "n/a") for dishes that need no cooking, which is
// what lets the validity gate treat 0 as a real value.
package services

import (
	"fmt"
	"strings"

	"github.com/plateful/go-recipe-backend/internal/domain"
	"github.com/plateful/go-recipe-backend/internal/provider"
)

const recipeLayout = `Respond with exactly these labeled sections:

Recipe Name: <name>

Description: <one or two sentences>

Ingredients:
- <ingredient with quantity>

Steps:
1. <step>

Cook time: <integer> minutes
Prep time: <integer> minutes
Total time: <integer> minutes
Servings: <integer>
Calories: <integer>

Times are integers in minutes, rounded to the nearest 5. If a dish needs no
cooking, write 0, never "n/a". Do not add any other sections.`

// recipePrompt builds the generation request for a new recipe.
func recipePrompt(specifications string, servings int) []domain.ChatMessage {
	sys := "You are a professional chef writing precise, reproducible recipes.\n\n" + recipeLayout
	user := fmt.Sprintf("Create a recipe for: %s.", specifications)
	if servings > 0 {
		user += fmt.Sprintf(" It must serve %d.", servings)
	}
	return []domain.ChatMessage{provider.SystemMessage(sys), provider.UserMessage(user)}
}

// adjustPrompt builds the request for modifying an existing recipe. The
// provider is told to keep every field it was not asked to change.
func adjustPrompt(prior *domain.Recipe, instruction string) []domain.ChatMessage {
	sys := "You are a professional chef revising an existing recipe.\n\n" + recipeLayout +
		"\n\nPreserve every field the instruction does not ask you to change, verbatim."
	user := fmt.Sprintf("Here is the current recipe:\n\n%s\nApply this change: %s", prior.FullText(), instruction)
	return []domain.ChatMessage{provider.SystemMessage(sys), provider.UserMessage(user)}
}

// formatPrompt builds the request that normalizes uploaded free text into
// the labeled-section layout.
func formatPrompt(rawText string) []domain.ChatMessage {
	sys := "You restructure recipe text without inventing content.\n\n" + recipeLayout +
		"\n\nUse only information present in the provided text; estimate times only when the text implies them."
	user := "Reformat the following recipe text:\n\n" + rawText
	return []domain.ChatMessage{provider.SystemMessage(sys), provider.UserMessage(user)}
}

// pairingPrompt builds the request for a drink pairing.
func pairingPrompt(recipe *domain.Recipe, ptype domain.PairingType) []domain.ChatMessage {
	sys := fmt.Sprintf(`You are a sommelier. Suggest one %s pairing.

Respond with exactly these labeled sections:

Pairing: <the suggestion>
Reason: <why it works>

Do not add any other sections.`, ptype)
	user := "Suggest a pairing for this recipe:\n\n" + recipe.FullText()
	return []domain.ChatMessage{provider.SystemMessage(sys), provider.UserMessage(user)}
}

// chatSystemPrompt opens every conversation thread.
const chatSystemPrompt = "You are a friendly cooking assistant. Answer questions about recipes, " +
	"techniques, and substitutions concisely."

// socialPrompt builds the request for a social post about a recipe.
func socialPrompt(recipe *domain.Recipe) []domain.ChatMessage {
	sys := `You write social media posts for home cooks. Respond with a single JSON object
inside a fenced code block:

` + "```json\n" + `{"post": "...", "hashtags": ["..."], "image_prompt": "..."}
` + "```" + `

No text outside the code block.`
	user := "Write a post announcing this recipe:\n\n" + recipe.FullText()
	return []domain.ChatMessage{provider.SystemMessage(sys), provider.UserMessage(user)}
}

// uploadQuestionPrompt builds the request for answering a question about
// uploaded recipe text.
func uploadQuestionPrompt(rawText, question string) []domain.ChatMessage {
	sys := "Answer questions using only the provided recipe text. If the text does not " +
		"contain the answer, say so."
	user := fmt.Sprintf("Recipe text:\n\n%s\n\nQuestion: %s", rawText, strings.TrimSpace(question))
	return []domain.ChatMessage{provider.SystemMessage(sys), provider.UserMessage(user)}
}
