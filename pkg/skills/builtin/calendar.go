package builtin

import (
	"fmt"
	"regexp"

	"github.com/byrencheema/tappy/pkg/skills"
	skilltypes "github.com/byrencheema/tappy/pkg/types/skills"
)

var calendarTemplateURL = regexp.MustCompile(`https://calendar\.google\.com/\S+`)

func googleCalendarConfig() skills.SkillConfig {
	return skills.SkillConfig{
		ID:          "google-calendar",
		Name:        "Google Calendar",
		Kind:        skilltypes.KindAction,
		Description: "Creates calendar events with title, date/time, description, and location",
		Schema: skills.MustParameterSchema(
			skills.Field{
				Name: "title", Type: skills.FieldString, Required: true,
				Description: "Event title",
			},
			skills.Field{
				Name: "date", Type: skills.FieldString, Required: true,
				Description: "Event date in YYYY-MM-DD format",
			},
			skills.Field{
				Name: "time", Type: skills.FieldString, Required: true,
				Description: "Event start time in HH:MM format (24-hour)",
			},
			skills.Field{
				Name: "description", Type: skills.FieldString,
				Description: "Event description",
			},
			skills.Field{
				Name: "location", Type: skills.FieldString,
				Description: "Event location",
			},
			skills.Field{
				Name: "duration_minutes", Type: skills.FieldInt, Default: 60,
				Min: ptr(15.0), Max: ptr(480.0),
				Description: "Event duration in minutes",
			},
		),
		ExampleParams: map[string]any{
			"title":            "Team Meeting",
			"date":             "2025-01-15",
			"time":             "14:00",
			"description":      "Weekly sync",
			"location":         "Conference Room A",
			"duration_minutes": 60,
		},
		PlannerHints: "Trigger when the note mentions scheduling, planning meetings, setting reminders, " +
			"appointments, or time-based commitments. Look for cues like 'need to schedule', " +
			"'should set up a meeting', 'don't forget to', 'remind me to', 'at X o'clock', " +
			"'on Monday', 'next week'. Extract the event details from context. " +
			"IMPORTANT: This is an ACTION skill - always require user confirmation before creating.",
	}
}

func googleCalendarTask(params map[string]any) string {
	task := fmt.Sprintf("Create a calendar event titled %q on %v at %v for %v minutes",
		params["title"], params["date"], params["time"], valueOr(params, "duration_minutes", 60))
	if description, ok := params["description"].(string); ok && description != "" {
		task += " with description: " + description
	}
	if location, ok := params["location"].(string); ok && location != "" {
		task += " at location: " + location
	}
	return task
}

func valueOr(params map[string]any, key string, fallback any) any {
	if v, ok := params[key]; ok {
		return v
	}
	return fallback
}

func formatGoogleCalendar(result skilltypes.ExecutionResult) skilltypes.FormattedResult {
	if result.Failed() {
		return pending("📅 Calendar Event Failed", "Unable to create event: "+result.Error+" — try again later.")
	}

	data, providerErr, ok := envelope(result)
	if !ok {
		return pending("📅 Calendar Event - Unknown Status", "The event may have been created but we couldn't confirm.")
	}
	if providerErr != "" {
		return pending("📅 Calendar Event Failed", providerErr)
	}

	// The provider agent often ends on a pre-filled template link rather
	// than a saved event; surface it as a confirmation step.
	if templateURL := calendarTemplateURL.FindString(getString(data, "output", "")); templateURL != "" {
		return skilltypes.FormattedResult{
			Title:       "📅 Calendar Event Ready",
			Message:     "Event details ready - click to add to your calendar\n\n🔗 " + templateURL,
			ActionLabel: "Add to Calendar",
			Status:      skilltypes.FormattedNeedsConfirmation,
			Links:       []skilltypes.Link{{Label: "Add to Calendar", URL: templateURL, Kind: "calendar"}},
		}
	}

	title := getString(data, "title", "")
	if title == "" {
		if params, found := data["parameters"].(map[string]any); found {
			title = getString(params, "title", "Your event")
		} else {
			title = "Your event"
		}
	}
	message := fmt.Sprintf("Created: %q", title)
	if date, timeOfDay := getString(data, "date", ""), getString(data, "time", ""); date != "" && timeOfDay != "" {
		message += fmt.Sprintf("\n📆 %s at %s", date, timeOfDay)
	}
	if url := getString(data, "url", ""); url != "" {
		message += "\n\n🔗 " + url
	}

	return skilltypes.FormattedResult{
		Title:       "📅 Event Created Successfully",
		Message:     message,
		ActionLabel: "View Calendar",
		Status:      skilltypes.FormattedCompleted,
	}
}
