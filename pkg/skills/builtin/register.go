package builtin

import (
	"github.com/pkg/errors"

	"github.com/byrencheema/tappy/pkg/browseruse"
	"github.com/byrencheema/tappy/pkg/skills"
)

// Register wires every builtin skill into the registry against the given
// provider client. Called once at process start; any error here is fatal.
func Register(registry *skills.Registry, client *browseruse.Client) error {
	retrievals := []struct {
		config skills.SkillConfig
		format FormatFunc
	}{
		{jobSearchConfig(), formatJobSearch},
		{hackerNewsConfig(), formatHackerNews},
		{weatherConfig(), formatWeather},
		{newsSearchConfig(), formatNewsSearch},
		{youtubeSearchConfig(), formatYouTubeSearch},
	}
	for _, s := range retrievals {
		handler := NewDataRetrievalHandler(s.config, client, s.format)
		if err := registry.Register(s.config, handler); err != nil {
			return errors.Wrap(err, "failed to register data-retrieval skill")
		}
	}

	actions := []struct {
		config skills.SkillConfig
		format FormatFunc
		task   TaskFunc
	}{
		{xPostConfig(), formatXPost, xPostTask},
		{googleCalendarConfig(), formatGoogleCalendar, googleCalendarTask},
		{amazonCartConfig(), formatAmazonCart, amazonCartTask},
		{gmailDraftConfig(), formatGmailDraft, gmailDraftTask},
	}
	for _, s := range actions {
		handler := NewActionHandler(s.config, client, s.format, s.task)
		if err := registry.Register(s.config, handler); err != nil {
			return errors.Wrap(err, "failed to register action skill")
		}
	}

	return nil
}
