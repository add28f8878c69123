package executor

import (
	"github.com/byrencheema/tappy/pkg/skills"
	skilltypes "github.com/byrencheema/tappy/pkg/types/skills"
)

// testResult builds the canned result returned in test mode. The shape
// mirrors what the provider returns for a small data-retrieval query so
// formatters exercise their real paths.
func testResult(cfg skills.SkillConfig) skilltypes.ExecutionResult {
	var output map[string]any
	switch cfg.Kind {
	case skilltypes.KindAction:
		output = map[string]any{
			"result": map[string]any{
				"success": true,
				"data": map[string]any{
					"output": "Test mode: task completed without contacting the provider.",
				},
			},
		}
	default:
		output = map[string]any{
			"result": map[string]any{
				"success": true,
				"data": map[string]any{
					"jobs": []any{
						map[string]any{
							"title":    "Test ML Engineer",
							"company":  "Test Corp",
							"location": "San Francisco",
							"salary":   "$150k-$200k",
						},
						map[string]any{
							"title":    "Test AI Researcher",
							"company":  "Test AI",
							"location": "Remote",
							"salary":   "$180k-$220k",
						},
					},
					"count": 2,
				},
			},
		}
	}

	return skilltypes.ExecutionResult{
		Status:    skilltypes.StatusCompleted,
		SkillID:   cfg.ID,
		SkillName: cfg.Name,
		Kind:      cfg.Kind,
		Output:    output,
		Metadata:  map[string]any{MetaTestMode: true},
	}
}
