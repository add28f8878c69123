package builtin

import (
	"fmt"
	"strings"

	"github.com/byrencheema/tappy/pkg/skills"
	skilltypes "github.com/byrencheema/tappy/pkg/types/skills"
)

func jobSearchConfig() skills.SkillConfig {
	return skills.SkillConfig{
		ID:          "tech-job-search",
		Name:        "Tech Job Search",
		Kind:        skilltypes.KindDataRetrieval,
		Description: "Searches for tech jobs across multiple job boards",
		Schema: skills.MustParameterSchema(
			skills.Field{
				Name: "query", Type: skills.FieldString, Required: true,
				Description: "Search query with optional filters (@company:name, @location:city)",
			},
			skills.Field{
				Name: "limit", Type: skills.FieldInt, Default: 10,
				Min: ptr(1.0), Max: ptr(50.0),
				Description: "Max results to return",
			},
		),
		ExampleParams: map[string]any{
			"query": "python engineer @location:San Francisco",
			"limit": 10,
		},
		PlannerHints: "Trigger when the note reflects career frustration, job dissatisfaction, " +
			"wanting a change, feeling stuck at work, considering new opportunities, " +
			"or mentions specific roles/companies they admire. Look for emotional cues like " +
			"'hate my job', 'need a change', 'thinking about leaving', 'wish I worked at', " +
			"or explicit searches like 'looking for backend engineer jobs'. " +
			"Extract relevant skills, industries, or locations mentioned into a location parameter " +
			"inside the query filter. Expand location abbreviations (SF -> San Francisco, NYC -> New York City).",
	}
}

func formatJobSearch(result skilltypes.ExecutionResult) skilltypes.FormattedResult {
	if result.Failed() {
		return pending("💼 Job Search Failed", "Unable to complete job search: "+result.Error+" — try again later.")
	}

	data, providerErr, ok := envelope(result)
	if !ok {
		return pending("💼 Job Search - No Results", "The search completed but returned no data.")
	}
	if providerErr != "" {
		return pending("💼 Job Search Failed", providerErr)
	}

	jobs := getList(data, "jobs")
	total := getInt(data, "count", len(jobs))
	if len(jobs) == 0 {
		return pending("💼 No Jobs Found", "Try adjusting your search criteria or checking back later.")
	}

	var b strings.Builder
	for idx, job := range jobs {
		if idx == 5 {
			break
		}
		fmt.Fprintf(&b, "%d. %s at %s\n", idx+1,
			getString(job, "title", "Unknown Position"),
			getString(job, "company", "Unknown Company"))
		fmt.Fprintf(&b, "   📍 %s\n", getString(job, "location", "Location not specified"))
		fmt.Fprintf(&b, "   💰 %s\n\n", getString(job, "salary", "Salary not listed"))
	}
	message := strings.TrimRight(b.String(), "\n")
	if total > 5 {
		message += fmt.Sprintf("\n\n... and %d more jobs", total-5)
	}

	return skilltypes.FormattedResult{
		Title:       fmt.Sprintf("💼 Found %d job%s", total, plural(total)),
		Message:     message,
		ActionLabel: "Browse Results",
		Status:      skilltypes.FormattedNeedsConfirmation,
	}
}

func ptr(f float64) *float64 {
	return &f
}
