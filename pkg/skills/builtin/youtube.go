package builtin

import (
	"fmt"
	"strings"

	"github.com/byrencheema/tappy/pkg/skills"
	skilltypes "github.com/byrencheema/tappy/pkg/types/skills"
)

func youtubeSearchConfig() skills.SkillConfig {
	return skills.SkillConfig{
		ID:          "youtube-search",
		Name:        "YouTube Search",
		Kind:        skilltypes.KindDataRetrieval,
		Description: "Searches YouTube and extracts video titles, channels, and view counts",
		Schema: skills.MustParameterSchema(
			skills.Field{
				Name: "query", Type: skills.FieldString, Required: true,
				Description: "Search query for YouTube videos",
			},
			skills.Field{
				Name: "max_results", Type: skills.FieldInt, Default: 10,
				Min: ptr(1.0), Max: ptr(20.0),
				Description: "Max videos to return",
			},
		),
		ExampleParams: map[string]any{"query": "Python tutorials", "max_results": 10},
		PlannerHints: "Trigger when the note mentions wanting to learn something via video, tutorials, " +
			"how-to content, entertainment, or visual explanations. Look for cues like " +
			"'want to watch', 'need a tutorial on', 'looking for videos about', " +
			"'should learn how to', 'need to see how'. Extract the search topic from context.",
	}
}

func formatYouTubeSearch(result skilltypes.ExecutionResult) skilltypes.FormattedResult {
	if result.Failed() {
		return pending("▶️ YouTube Search Failed", "Unable to search: "+result.Error+" — try again later.")
	}

	data, providerErr, ok := envelope(result)
	if !ok {
		return pending("▶️ YouTube - No Results", "The search completed but returned no data.")
	}
	if providerErr != "" {
		return pending("▶️ YouTube Search Failed", providerErr)
	}

	videos := getList(data, "results")
	if len(videos) == 0 {
		videos = getList(data, "videos")
	}
	if len(videos) == 0 {
		return pending("▶️ No Videos Found", "No YouTube videos found. Try a different search.")
	}
	total := len(videos)
	if len(videos) > 6 {
		videos = videos[:6]
	}

	var b strings.Builder
	var links []skilltypes.Link
	for idx, video := range videos {
		title := getString(video, "title", "Untitled Video")
		fmt.Fprintf(&b, "%d. %s\n", idx+1, title)
		fmt.Fprintf(&b, "   📺 %s\n", getString(video, "channel", "Unknown Channel"))
		fmt.Fprintf(&b, "   👁️ %s\n\n", getScalar(video, "view_count", getScalar(video, "views", "Unknown views")))
		if url := getString(video, "url", ""); url != "" {
			links = append(links, skilltypes.Link{Label: title, URL: url, Kind: "video"})
		}
	}

	return skilltypes.FormattedResult{
		Title:       fmt.Sprintf("▶️ Found %d video%s", total, plural(total)),
		Message:     strings.TrimRight(b.String(), "\n"),
		ActionLabel: "Watch Videos",
		Status:      skilltypes.FormattedNeedsConfirmation,
		Links:       links,
	}
}
