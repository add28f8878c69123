package builtin

import (
	"fmt"

	"github.com/byrencheema/tappy/pkg/skills"
	skilltypes "github.com/byrencheema/tappy/pkg/types/skills"
)

func gmailDraftConfig() skills.SkillConfig {
	return skills.SkillConfig{
		ID:          "gmail-draft",
		Name:        "Save Gmail Draft",
		Kind:        skilltypes.KindAction,
		Description: "Saves an email draft in Gmail with recipient, subject, and body",
		Schema: skills.MustParameterSchema(
			skills.Field{
				Name: "to", Type: skills.FieldString, Required: true,
				Description: "Recipient email address",
			},
			skills.Field{
				Name: "subject", Type: skills.FieldString, Required: true,
				Description: "Email subject",
			},
			skills.Field{
				Name: "body", Type: skills.FieldString, Required: true,
				Description: "Email body",
			},
		),
		ExampleParams: map[string]any{
			"to":      "friend@example.com",
			"subject": "Quick update",
			"body":    "Hey, just wanted to share...",
		},
		PlannerHints: "Trigger when the note mentions wanting to email someone, draft a message, " +
			"write to someone, reach out via email, or compose an email. Look for cues like " +
			"'should email', 'need to write to', 'send a message to', 'reach out to X about'. " +
			"Extract the recipient, subject, and body from context. " +
			"IMPORTANT: This is an ACTION skill - always require user confirmation before saving.",
	}
}

func gmailDraftTask(params map[string]any) string {
	return fmt.Sprintf(
		"Go to Gmail, click compose, fill in To: %v, Subject: %v, Body: %v, then close to save as draft. Do NOT send.",
		params["to"], params["subject"], params["body"])
}

func formatGmailDraft(result skilltypes.ExecutionResult) skilltypes.FormattedResult {
	if result.Failed() {
		return pending("📧 Draft Failed", "Could not save draft: "+result.Error+" — try again later.")
	}

	return skilltypes.FormattedResult{
		Title:       "📧 Draft Saved",
		Message:     "Your email draft was saved to Gmail.",
		ActionLabel: "View Drafts",
		Status:      skilltypes.FormattedCompleted,
	}
}
