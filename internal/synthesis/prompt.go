// ABOUTME: System and user prompt construction for post synthesis
// ABOUTME: The schema contract lives in the system prompt so every attempt sees it

package synthesis

import (
	"fmt"
	"strings"

	"github.com/postforge/postforge/internal/budget"
	"github.com/postforge/postforge/internal/models"
)

const systemPrompt = `You are a professional content strategist who writes engaging LinkedIn posts.

Write in a confident, conversational voice. Open with a hook, develop one clear idea, and close with a question or call to action. Short paragraphs. No emoji walls, no clickbait.

Respond with a single JSON object and nothing else, in exactly this shape:
{
  "content": "the full post text",
  "hashtags": ["#TagOne", "#TagTwo", "#TagThree"],
  "key_points": ["first takeaway", "second takeaway", "third takeaway"]
}

Rules:
- content must be a complete post, roughly 150-300 words
- hashtags: 3 to 5 entries, each a single word or CamelCase phrase
- key_points: 3 to 5 short bullet statements capturing the post's substance
- ground every claim in the provided material; do not invent facts`

// sourceLabels explains to the model what kind of material it was given.
var sourceLabels = map[models.ToolKind]string{
	models.ToolWeb:      "web research findings",
	models.ToolVideo:    "a video transcript",
	models.ToolDocument: "passages from an uploaded document",
}

// buildUserPrompt assembles the per-request message from the budgeted context.
func buildUserPrompt(query string, ctx budget.Context) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Request: %s\n", query)

	if ctx.History != "" {
		sb.WriteString("\nConversation so far (refine relative to this):\n")
		sb.WriteString(ctx.History)
		sb.WriteString("\n")
	}

	label := sourceLabels[ctx.Tool]
	if label == "" {
		label = "source material"
	}
	fmt.Fprintf(&sb, "\nMaterial (%s):\n", label)
	if ctx.Findings == "" {
		sb.WriteString("(no material retrieved; write from the request alone and say nothing unverifiable)")
	} else {
		sb.WriteString(ctx.Findings)
	}

	return sb.String()
}

// retryNudge is appended to the user prompt after a schema failure so the next
// attempt knows what went wrong.
func retryNudge(reason string) string {
	return fmt.Sprintf("\n\nYour previous response was rejected: %s. Respond again with only the JSON object in the required shape.", reason)
}
