package builtin

import (
	"fmt"
	"strings"

	"github.com/byrencheema/tappy/pkg/skills"
	skilltypes "github.com/byrencheema/tappy/pkg/types/skills"
)

func hackerNewsConfig() skills.SkillConfig {
	return skills.SkillConfig{
		ID:          "hackernews-top-posts",
		Name:        "HackerNews Top Posts",
		Kind:        skilltypes.KindDataRetrieval,
		Description: "Fetches top posts from HackerNews",
		Schema: skills.MustParameterSchema(
			skills.Field{
				Name: "limit", Type: skills.FieldInt, Default: 10,
				Min: ptr(1.0), Max: ptr(30.0),
				Description: "Number of top posts to fetch",
			},
		),
		ExampleParams: map[string]any{"limit": 10},
		PlannerHints: "Trigger when the note mentions feeling out of the loop on tech, curiosity about " +
			"what developers are talking about, wanting to stay current, or reflects on " +
			"tech industry trends. Look for cues like 'wonder what's new in tech', " +
			"'feel behind on trends', 'curious what other devs think about'.",
	}
}

func formatHackerNews(result skilltypes.ExecutionResult) skilltypes.FormattedResult {
	if result.Failed() {
		return pending("🔶 HackerNews Fetch Failed", "Unable to fetch posts: "+result.Error+" — try again later.")
	}

	data, providerErr, ok := envelope(result)
	if !ok {
		return pending("🔶 HackerNews - No Results", "The fetch completed but returned no data.")
	}
	if providerErr != "" {
		return pending("🔶 HackerNews Fetch Failed", providerErr)
	}

	posts := getList(data, "posts")
	if len(posts) == 0 {
		return pending("🔶 No Posts Found", "Unable to fetch HackerNews posts at this time.")
	}
	if len(posts) > 8 {
		posts = posts[:8]
	}

	var b strings.Builder
	var links []skilltypes.Link
	for idx, post := range posts {
		title := getString(post, "title", "Untitled")
		fmt.Fprintf(&b, "%d. %s\n", idx+1, title)
		fmt.Fprintf(&b, "   ⬆️ %d points | 💬 %d comments\n\n",
			getInt(post, "score", 0), getInt(post, "comments_count", 0))
		if url := getString(post, "url", ""); url != "" {
			links = append(links, skilltypes.Link{Label: title, URL: url, Kind: "article"})
		}
	}

	return skilltypes.FormattedResult{
		Title:       fmt.Sprintf("🔶 Top %d HackerNews Posts", len(posts)),
		Message:     strings.TrimRight(b.String(), "\n"),
		ActionLabel: "Read on HN",
		Status:      skilltypes.FormattedNeedsConfirmation,
		Links:       links,
	}
}
