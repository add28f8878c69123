package builtin

import (
	"fmt"
	"strings"

	"github.com/byrencheema/tappy/pkg/skills"
	skilltypes "github.com/byrencheema/tappy/pkg/types/skills"
)

func newsSearchConfig() skills.SkillConfig {
	return skills.SkillConfig{
		ID:          "news-search",
		Name:        "News Search",
		Kind:        skilltypes.KindDataRetrieval,
		Description: "Searches for news articles on any topic",
		Schema: skills.MustParameterSchema(
			skills.Field{
				Name: "query", Type: skills.FieldString, Required: true,
				Description: "Topic, company or event to search news for",
			},
			skills.Field{
				Name: "max_results", Type: skills.FieldInt, Default: 5,
				Min: ptr(1.0), Max: ptr(20.0),
				Description: "Max articles to return",
			},
		),
		ExampleParams: map[string]any{"query": "AI developments", "max_results": 5},
		PlannerHints: "Trigger when the note reflects curiosity about current events, wondering what's happening " +
			"with a topic/company/industry, feeling uninformed, or mentions something they heard about. " +
			"Look for cues like 'wonder what X is up to', 'heard something about', 'curious about', " +
			"'want to catch up on', 'what's happening with'. Extract the topic of interest.",
	}
}

func formatNewsSearch(result skilltypes.ExecutionResult) skilltypes.FormattedResult {
	if result.Failed() {
		return pending("📰 News Search Failed", "Unable to search news: "+result.Error+" — try again later.")
	}

	data, providerErr, ok := envelope(result)
	if !ok {
		return pending("📰 News - No Results", "The search completed but returned no data.")
	}
	if providerErr != "" {
		return pending("📰 News Search Failed", providerErr)
	}

	articles := getList(data, "articles")
	if len(articles) == 0 {
		return pending("📰 No Articles Found", "No news articles found. Try a different search.")
	}
	total := len(articles)
	if len(articles) > 6 {
		articles = articles[:6]
	}

	var b strings.Builder
	for idx, article := range articles {
		fmt.Fprintf(&b, "%d. %s\n", idx+1, getString(article, "title", "Untitled Article"))
		fmt.Fprintf(&b, "   📌 %s\n", getString(article, "source", "Unknown Source"))
		if snippet := getString(article, "snippet", ""); snippet != "" {
			fmt.Fprintf(&b, "   %s\n", truncate(snippet, 100))
		}
		b.WriteString("\n")
	}

	return skilltypes.FormattedResult{
		Title:       fmt.Sprintf("📰 Found %d article%s", total, plural(total)),
		Message:     strings.TrimRight(b.String(), "\n"),
		ActionLabel: "Read Articles",
		Status:      skilltypes.FormattedNeedsConfirmation,
	}
}
