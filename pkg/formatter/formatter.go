// Package formatter maps raw execution results to the fixed notification
// shape. Formatting is deterministic and total: a formatter that panics
// on unexpected provider output is replaced by a generic failure message
// rather than taking the pipeline down.
package formatter

import (
	"context"

	"github.com/byrencheema/tappy/pkg/logger"
	"github.com/byrencheema/tappy/pkg/skills"
	skilltypes "github.com/byrencheema/tappy/pkg/types/skills"
)

// maxMessageLength bounds the notification body so pushed items stay
// scannable. Skill formatters already cap their item counts; this is the
// backstop for free-form provider output.
const maxMessageLength = 4000

// Format renders the execution result through the skill's handler.
func Format(ctx context.Context, reg skills.Registration, result skilltypes.ExecutionResult) (formatted skilltypes.FormattedResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.G(ctx).WithField("skill_id", reg.Config.ID).WithField("panic", r).
				Error("skill formatter panicked")
			formatted = Fallback(reg.Config.Name, result)
		}
	}()

	formatted = reg.Handler.Format(result)
	if formatted.Title == "" {
		formatted = Fallback(reg.Config.Name, result)
	}
	if formatted.Status == "" {
		formatted.Status = skilltypes.FormattedPending
	}
	if len(formatted.Message) > maxMessageLength {
		formatted.Message = formatted.Message[:maxMessageLength] + "..."
	}
	return formatted
}

// Fallback produces the generic notification used when a skill's own
// formatter cannot, including for skills that are no longer registered.
func Fallback(skillName string, result skilltypes.ExecutionResult) skilltypes.FormattedResult {
	if skillName == "" {
		skillName = "Skill"
	}
	if result.Failed() {
		message := "Something went wrong — try again later."
		if result.Error != "" {
			message = skillName + " couldn't complete: " + result.Error + " — try again later."
		}
		return skilltypes.FormattedResult{
			Title:   "❌ " + skillName + " Failed",
			Message: message,
			Status:  skilltypes.FormattedPending,
		}
	}
	return skilltypes.FormattedResult{
		Title:   "✅ " + skillName + " Completed",
		Message: skillName + " finished, but the result couldn't be summarized.",
		Status:  skilltypes.FormattedPending,
	}
}
