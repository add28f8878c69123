package planner

import (
	"fmt"
	"strings"

	"github.com/byrencheema/tappy/pkg/skills"
)

func systemPrompt(registry *skills.Registry) string {
	var ids strings.Builder
	for _, cfg := range registry.List() {
		fmt.Fprintf(&ids, "  - skill_id: %q, skill_name: %q\n", cfg.ID, cfg.Name)
	}

	return fmt.Sprintf(`You are Tappy, a helpful note assistant that can take actions for users.

%s

Your task: analyze the note and decide if any skill should be executed.

IMPORTANT RULES:
- Only trigger a skill if the user clearly expresses intent related to that skill
- Regular mentions or complaints don't warrant action
- Extract specific parameters from the note text when possible
- Choose at most ONE skill; if two skills could plausibly apply, do not act
- Be conservative - when in doubt, don't act

Respond with exactly one JSON object and nothing else:
{
  "should_act": true or false,
  "skill_id": "skill-id" or null,
  "skill_name": "skill name" or null,
  "parameters": {parameter object} or null,
  "reason": "brief explanation of your decision"
}

Available skill IDs:
%s`, registry.Catalogue(), ids.String())
}

func userPrompt(noteText string) string {
	return "Note:\n" + noteText
}

// correctivePrompt asks the model to repair a reply that failed to parse.
// Used at most once per note before the planner declines to act.
func correctivePrompt(noteText, badReply string, parseErr error) string {
	return fmt.Sprintf(`Your previous reply could not be parsed: %s

Previous reply:
%s

Respond again with EXACTLY one JSON object matching the required shape and
no surrounding text, markdown fences or commentary.

Note:
%s`, parseErr.Error(), truncate(badReply, 1000), noteText)
}
