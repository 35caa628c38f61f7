// ABOUTME: Token budgeting for the synthesis context window
// ABOUTME: Conversation history is kept whole; findings absorb the truncation

package budget

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/postforge/postforge/internal/models"
	"github.com/postforge/postforge/internal/tokens"
)

// Context is the assembled input handed to synthesis.
type Context struct {
	Tool      models.ToolKind
	History   string
	Findings  string
	Truncated bool
}

// Budgeter fits history and findings under a fixed token ceiling.
type Budgeter struct {
	maxTokens int
	logger    *zap.Logger
}

// NewBudgeter creates a Budgeter.
func NewBudgeter(maxTokens int, logger *zap.Logger) *Budgeter {
	return &Budgeter{maxTokens: maxTokens, logger: logger}
}

// Build assembles the synthesis context. History is admitted first because it
// is small and carries the refinement intent; findings take whatever budget
// remains and are cut from the tail when they don't fit.
func (b *Budgeter) Build(tool models.ToolKind, turns []models.Turn, findings string) Context {
	history := formatHistory(turns)

	remaining := b.maxTokens - tokens.Estimate(history)
	if remaining < 0 {
		remaining = 0
	}

	truncated := false
	if tokens.Estimate(findings) > remaining {
		findings = tokens.Truncate(findings, remaining)
		truncated = true
		b.logger.Info("findings truncated to fit context budget",
			zap.Int("budget_tokens", b.maxTokens),
			zap.Int("findings_tokens", remaining))
	}

	return Context{
		Tool:      tool,
		History:   history,
		Findings:  findings,
		Truncated: truncated,
	}
}

// formatHistory renders prior turns as labeled lines, oldest first.
func formatHistory(turns []models.Turn) string {
	if len(turns) == 0 {
		return ""
	}

	lines := make([]string, len(turns))
	for i, turn := range turns {
		label := "User"
		if turn.Role == models.RoleAssistant {
			label = "Assistant"
		}
		lines[i] = fmt.Sprintf("%s: %s", label, turn.Content)
	}
	return strings.Join(lines, "\n")
}
