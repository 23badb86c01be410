package llm

import (
	"fmt"
	"strings"

	"museum-backend/domain/catalog"
	"museum-backend/domain/core/entities"
)

const classificationSystemPrompt = `You are Arti, the curator of a personal virtual museum.
You read a visitor's onboarding answers and choose the museum theme that fits them best.
You always answer with a single JSON object and nothing else.`

const classificationInstructions = `Choose exactly one theme for this visitor.

Respond with ONLY a JSON object, no markdown and no commentary, in this exact shape:
{"choice": <theme number>, "reason": "<one or two sentences explaining the choice>"}

Rules:
- "choice" MUST be an integer and one of: %s
- "reason" MUST be a string written in the same language as the answers.`

// BuildClassificationPrompt renders the answers and the theme enumeration into one prompt
func BuildClassificationPrompt(responses []entities.OnboardingResponse, themes []catalog.ThemeDescriptor) string {
	var b strings.Builder

	b.WriteString("Available themes:\n")
	ids := make([]string, 0, len(themes))
	for _, t := range themes {
		ids = append(ids, t.ID.String())
		fmt.Fprintf(&b, "%d. %s", t.ID, t.Name)
		if len(t.Characteristics) > 0 {
			fmt.Fprintf(&b, " (characteristics: %s)", strings.Join(t.Characteristics, ", "))
		}
		if t.Description != "" {
			fmt.Fprintf(&b, " - %s", t.Description)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nVisitor answers:\n")
	for i, r := range responses {
		fmt.Fprintf(&b, "Q%d: %s\nA%d: %s\n", i+1, strings.TrimSpace(r.Question), i+1, strings.TrimSpace(r.Answer))
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, classificationInstructions, strings.Join(ids, ", "))
	return b.String()
}

// SystemPrompt returns the persona used by every chat completion adapter
func SystemPrompt() string {
	return classificationSystemPrompt
}
