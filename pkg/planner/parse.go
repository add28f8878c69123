package planner

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/byrencheema/tappy/pkg/logger"
	skilltypes "github.com/byrencheema/tappy/pkg/types/skills"
)

// parseDecision decodes the model's reply strictly as a PlannerDecision.
// Markdown fences are tolerated since models add them despite instructions.
// If the model returns a JSON array, only the first well-formed element is
// honored; the contract allows at most one skill per note.
func parseDecision(ctx context.Context, raw string) (skilltypes.PlannerDecision, error) {
	cleaned := stripFences(raw)
	if cleaned == "" {
		return skilltypes.PlannerDecision{}, errors.New("empty planner reply")
	}

	if strings.HasPrefix(cleaned, "[") {
		var elements []json.RawMessage
		if err := json.Unmarshal([]byte(cleaned), &elements); err != nil {
			return skilltypes.PlannerDecision{}, errors.Wrap(err, "invalid JSON array")
		}
		if len(elements) == 0 {
			return skilltypes.PlannerDecision{}, errors.New("planner returned an empty array")
		}
		logger.G(ctx).WithField("choices", len(elements)).
			Warn("planner returned multiple decisions, honoring the first")
		cleaned = string(elements[0])
	}

	var payload struct {
		ShouldAct  *bool          `json:"should_act"`
		SkillID    *string        `json:"skill_id"`
		SkillName  *string        `json:"skill_name"`
		Parameters map[string]any `json:"parameters"`
		Reason     string         `json:"reason"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return skilltypes.PlannerDecision{}, errors.Wrap(err, "invalid JSON object")
	}
	if payload.ShouldAct == nil {
		return skilltypes.PlannerDecision{}, errors.New("reply is missing the should_act field")
	}

	decision := skilltypes.PlannerDecision{
		ShouldAct:  *payload.ShouldAct,
		Parameters: payload.Parameters,
		Reason:     payload.Reason,
	}
	if payload.SkillID != nil {
		decision.SkillID = *payload.SkillID
	}
	if payload.SkillName != nil {
		decision.SkillName = *payload.SkillName
	}
	return decision, nil
}

// stripFences removes a surrounding markdown code fence if present.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	return s
}
