package builtin

import (
	"fmt"

	"github.com/byrencheema/tappy/pkg/skills"
	skilltypes "github.com/byrencheema/tappy/pkg/types/skills"
)

func xPostConfig() skills.SkillConfig {
	maxLen := 280
	return skills.SkillConfig{
		ID:          "x-post",
		Name:        "X.com Post Maker",
		Kind:        skilltypes.KindAction,
		Description: "Posts content to X.com (Twitter) on your behalf",
		Schema: skills.MustParameterSchema(
			skills.Field{
				Name: "content", Type: skills.FieldString, Required: true,
				MaxLength:   &maxLen,
				Description: "The text content to post",
			},
		),
		ExampleParams: map[string]any{"content": "Just had a great insight about..."},
		PlannerHints: "Trigger when the note reflects a desire to share publicly, post more, take action, " +
			"be more visible, or contains a thought worth sharing. Look for cues like " +
			"'I should post this', 'want to share', 'hot take', 'need to put myself out there', " +
			"'should be more active online', 'this would make a good tweet'. " +
			"Extract the core insight or thought and craft it into a concise post. " +
			"IMPORTANT: This is an ACTION skill - always require user confirmation before posting.",
	}
}

func xPostTask(params map[string]any) string {
	content, _ := params["content"].(string)
	return fmt.Sprintf("Post a tweet saying: %s", content)
}

func formatXPost(result skilltypes.ExecutionResult) skilltypes.FormattedResult {
	if result.Failed() {
		return pending("𝕏 Post Failed", "Unable to post: "+result.Error+" — try again later.")
	}

	data, providerErr, ok := envelope(result)
	if !ok {
		return pending("𝕏 Post - Unknown Status", "The post may have been sent but we couldn't confirm.")
	}
	if providerErr != "" {
		return pending("𝕏 Post Failed", providerErr)
	}

	content := getString(data, "content", "")
	if content == "" {
		if params, found := data["parameters"].(map[string]any); found {
			content = getString(params, "content", "Your post")
		} else {
			content = "Your post"
		}
	}
	message := fmt.Sprintf("Posted: %q", truncate(content, 100))

	var links []skilltypes.Link
	if url := getString(data, "url", ""); url != "" {
		message += "\n\n🔗 " + url
		links = append(links, skilltypes.Link{Label: "View on X", URL: url, Kind: "post"})
	}

	return skilltypes.FormattedResult{
		Title:       "𝕏 Posted Successfully",
		Message:     message,
		ActionLabel: "View Post",
		Status:      skilltypes.FormattedCompleted,
		Links:       links,
	}
}
