package builtin

import (
	"fmt"
	"strings"

	"github.com/byrencheema/tappy/pkg/skills"
	skilltypes "github.com/byrencheema/tappy/pkg/types/skills"
)

func weatherConfig() skills.SkillConfig {
	return skills.SkillConfig{
		ID:          "weather-forecast",
		Name:        "Weather Forecast",
		Kind:        skilltypes.KindDataRetrieval,
		Description: "Fetches weather forecast for a location",
		Schema: skills.MustParameterSchema(
			skills.Field{
				Name: "location", Type: skills.FieldString, Required: true,
				Description: "City or location for weather forecast",
			},
			skills.Field{
				Name: "days", Type: skills.FieldInt, Default: 7,
				Min: ptr(1.0), Max: ptr(7.0),
				Description: "Number of days to forecast",
			},
			skills.Field{
				Name: "units", Type: skills.FieldString, Default: "e",
				Description: "Temperature units: 'e' for Fahrenheit, 'm' for Celsius",
			},
		),
		ExampleParams: map[string]any{"location": "San Francisco", "days": 3, "units": "e"},
		PlannerHints: "Trigger when the note mentions planning outdoor activities, upcoming trips, " +
			"wondering what to wear, hoping for good weather, or concerns about rain/storms. " +
			"Look for cues like 'planning a hike', 'going to the beach', 'hope it doesn't rain', " +
			"'packing for my trip to', 'weekend plans'. Extract the location from context. " +
			"Expand abbreviations (SF -> San Francisco, NYC -> New York City, LA -> Los Angeles).",
	}
}

func formatWeather(result skilltypes.ExecutionResult) skilltypes.FormattedResult {
	if result.Failed() {
		return pending("🌤️ Weather Forecast Failed", "Unable to fetch weather: "+result.Error+" — try again later.")
	}

	data, providerErr, ok := envelope(result)
	if !ok {
		return pending("🌤️ Weather - No Results", "The forecast fetch completed but returned no data.")
	}
	if providerErr != "" {
		return pending("🌤️ Weather Forecast Failed", providerErr)
	}

	location := getString(data, "location", "Unknown location")
	forecasts := getList(data, "forecast")
	if len(forecasts) == 0 {
		return pending("🌤️ No Forecast Available", "Unable to fetch weather for "+location+".")
	}
	if len(forecasts) > 5 {
		forecasts = forecasts[:5]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📍 %s\n\n", location)
	if current, found := data["current"].(map[string]any); found {
		fmt.Fprintf(&b, "Now: %s° - %s\n\n",
			getScalar(current, "temperature", "?"),
			getString(current, "conditions", "Unknown"))
	}
	for _, day := range forecasts {
		fmt.Fprintf(&b, "%s (%s)\n", getString(day, "day", "Unknown"), getString(day, "date", ""))
		fmt.Fprintf(&b, "  High: %s° | Low: %s°\n", getScalar(day, "high", "?"), getScalar(day, "low", "?"))
		if narrative := getString(day, "narrative", ""); narrative != "" {
			fmt.Fprintf(&b, "  %s\n", narrative)
		}
		b.WriteString("\n")
	}

	return skilltypes.FormattedResult{
		Title:       "🌤️ Weather for " + location,
		Message:     strings.TrimRight(b.String(), "\n"),
		ActionLabel: "View Full Forecast",
		Status:      skilltypes.FormattedNeedsConfirmation,
	}
}
