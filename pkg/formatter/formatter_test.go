package formatter

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/byrencheema/tappy/pkg/skills"
	skilltypes "github.com/byrencheema/tappy/pkg/types/skills"
)

type fixedFormatter struct {
	formatted skilltypes.FormattedResult
	panics    bool
}

func (f fixedFormatter) Execute(ctx context.Context, params map[string]any) skilltypes.ExecutionResult {
	return skilltypes.ExecutionResult{Status: skilltypes.StatusCompleted}
}

func (f fixedFormatter) Format(result skilltypes.ExecutionResult) skilltypes.FormattedResult {
	if f.panics {
		panic("formatter bug")
	}
	return f.formatted
}

func (f fixedFormatter) ValidateOutput(output map[string]any) bool { return true }

func registration(handler skilltypes.Handler) skills.Registration {
	return skills.Registration{
		Config: skills.SkillConfig{
			ID:   "weather-forecast",
			Name: "Weather Forecast",
			Kind: skilltypes.KindDataRetrieval,
		},
		Handler: handler,
	}
}

func TestFormatDelegatesToHandler(t *testing.T) {
	want := skilltypes.FormattedResult{
		Title:   "🌤️ Weather for Austin",
		Message: "Sunny all week",
		Status:  skilltypes.FormattedNeedsConfirmation,
	}

	got := Format(context.Background(), registration(fixedFormatter{formatted: want}), skilltypes.ExecutionResult{})
	assert.Equal(t, want, got)
}

func TestFormatIsDeterministic(t *testing.T) {
	reg := registration(fixedFormatter{formatted: skilltypes.FormattedResult{
		Title:   "title",
		Message: "message",
		Status:  skilltypes.FormattedCompleted,
	}})
	result := skilltypes.ExecutionResult{Status: skilltypes.StatusCompleted}

	first := Format(context.Background(), reg, result)
	second := Format(context.Background(), reg, result)
	assert.Equal(t, first, second)
}

func TestFormatRecoversFromPanic(t *testing.T) {
	result := skilltypes.ExecutionResult{
		Status: skilltypes.StatusFailed,
		Error:  "bad payload",
	}

	got := Format(context.Background(), registration(fixedFormatter{panics: true}), result)
	assert.Equal(t, "❌ Weather Forecast Failed", got.Title)
	assert.Contains(t, got.Message, "bad payload")
	assert.Equal(t, skilltypes.FormattedPending, got.Status)
}

func TestFormatFallsBackOnEmptyTitle(t *testing.T) {
	got := Format(context.Background(), registration(fixedFormatter{}), skilltypes.ExecutionResult{
		Status: skilltypes.StatusCompleted,
	})
	assert.Equal(t, "✅ Weather Forecast Completed", got.Title)
}

func TestFormatDefaultsStatus(t *testing.T) {
	got := Format(context.Background(), registration(fixedFormatter{formatted: skilltypes.FormattedResult{
		Title:   "title",
		Message: "message",
	}}), skilltypes.ExecutionResult{})
	assert.Equal(t, skilltypes.FormattedPending, got.Status)
}

func TestFormatCapsMessageLength(t *testing.T) {
	got := Format(context.Background(), registration(fixedFormatter{formatted: skilltypes.FormattedResult{
		Title:   "title",
		Message: strings.Repeat("x", maxMessageLength+500),
		Status:  skilltypes.FormattedCompleted,
	}}), skilltypes.ExecutionResult{})
	assert.Len(t, got.Message, maxMessageLength+3)
	assert.True(t, strings.HasSuffix(got.Message, "..."))
}

func TestFallbackUnknownSkill(t *testing.T) {
	got := Fallback("", skilltypes.ExecutionResult{Status: skilltypes.StatusFailed})
	assert.Equal(t, "❌ Skill Failed", got.Title)
	assert.NotEmpty(t, got.Message)
}
