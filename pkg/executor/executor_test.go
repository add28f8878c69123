package executor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byrencheema/tappy/pkg/skills"
	skilltypes "github.com/byrencheema/tappy/pkg/types/skills"
)

// scriptedHandler lets each test control execution behaviour.
type scriptedHandler struct {
	execute func(ctx context.Context, params map[string]any) skilltypes.ExecutionResult
	calls   int
}

func (h *scriptedHandler) Execute(ctx context.Context, params map[string]any) skilltypes.ExecutionResult {
	h.calls++
	return h.execute(ctx, params)
}

func (h *scriptedHandler) Format(result skilltypes.ExecutionResult) skilltypes.FormattedResult {
	return skilltypes.FormattedResult{Status: skilltypes.FormattedCompleted}
}

func (h *scriptedHandler) ValidateOutput(output map[string]any) bool { return true }

func registryWith(t *testing.T, handler skilltypes.Handler) *skills.Registry {
	t.Helper()
	registry := skills.NewRegistry()
	err := registry.Register(skills.SkillConfig{
		ID:          "weather-forecast",
		Name:        "Weather Forecast",
		Kind:        skilltypes.KindDataRetrieval,
		Description: "Fetches the weather forecast for a location.",
		Schema: skills.MustParameterSchema(
			skills.Field{Name: "location", Type: skills.FieldString, Required: true},
		),
		ExampleParams: map[string]any{"location": "Austin"},
		PlannerHints:  "Use when the note asks about weather.",
	}, handler)
	require.NoError(t, err)
	return registry
}

func actionable(params map[string]any) skilltypes.PlannerDecision {
	return skilltypes.PlannerDecision{
		ShouldAct:  true,
		SkillID:    "weather-forecast",
		Parameters: params,
		Reason:     "weather intent",
	}
}

func TestRunCompletes(t *testing.T) {
	handler := &scriptedHandler{execute: func(ctx context.Context, params map[string]any) skilltypes.ExecutionResult {
		assert.Equal(t, "Austin", params["location"])
		return skilltypes.ExecutionResult{
			Status: skilltypes.StatusCompleted,
			Output: map[string]any{"result": "sunny"},
		}
	}}

	exec := New(registryWith(t, handler), Config{})
	result := exec.Run(context.Background(), actionable(map[string]any{"location": "Austin"}))

	assert.Equal(t, skilltypes.StatusCompleted, result.Status)
	assert.Equal(t, "weather-forecast", result.SkillID)
	assert.Equal(t, "Weather Forecast", result.SkillName)
	assert.Equal(t, skilltypes.KindDataRetrieval, result.Kind)
	assert.Contains(t, result.Metadata, MetaDurationMS)
	assert.Equal(t, 1, handler.calls)
}

func TestRunRejectsNonActionableDecision(t *testing.T) {
	handler := &scriptedHandler{execute: func(ctx context.Context, params map[string]any) skilltypes.ExecutionResult {
		t.Fatal("handler must not run")
		return skilltypes.ExecutionResult{}
	}}

	exec := New(registryWith(t, handler), Config{})
	result := exec.Run(context.Background(), skilltypes.PlannerDecision{ShouldAct: false})

	assert.True(t, result.Failed())
	assert.Equal(t, 0, handler.calls)
}

func TestRunValidationFailureSkipsHandler(t *testing.T) {
	handler := &scriptedHandler{execute: func(ctx context.Context, params map[string]any) skilltypes.ExecutionResult {
		t.Fatal("handler must not run on invalid parameters")
		return skilltypes.ExecutionResult{}
	}}

	exec := New(registryWith(t, handler), Config{})
	result := exec.Run(context.Background(), actionable(map[string]any{}))

	assert.True(t, result.Failed())
	assert.Equal(t, ErrorKindValidation, result.Metadata[MetaErrorKind])
	assert.Equal(t, skilltypes.KindDataRetrieval, result.Kind)
	assert.Contains(t, result.Error, "location")
	assert.Equal(t, 0, handler.calls)
}

func TestRunUnknownSkill(t *testing.T) {
	exec := New(skills.NewRegistry(), Config{})
	result := exec.Run(context.Background(), skilltypes.PlannerDecision{
		ShouldAct: true,
		SkillID:   "missing",
	})

	assert.True(t, result.Failed())
	assert.Contains(t, result.Error, "not registered")
}

func TestRunContainsPanics(t *testing.T) {
	handler := &scriptedHandler{execute: func(ctx context.Context, params map[string]any) skilltypes.ExecutionResult {
		panic("handler exploded")
	}}

	exec := New(registryWith(t, handler), Config{})
	result := exec.Run(context.Background(), actionable(map[string]any{"location": "Austin"}))

	assert.True(t, result.Failed())
	assert.Equal(t, ErrorKindPanic, result.Metadata[MetaErrorKind])
	assert.Contains(t, result.Error, "handler exploded")
}

func TestRunEnforcesTimeout(t *testing.T) {
	handler := &scriptedHandler{execute: func(ctx context.Context, params map[string]any) skilltypes.ExecutionResult {
		// Ignores cancellation on purpose.
		time.Sleep(500 * time.Millisecond)
		return skilltypes.ExecutionResult{Status: skilltypes.StatusCompleted}
	}}

	exec := New(registryWith(t, handler), Config{Timeout: 20 * time.Millisecond})

	start := time.Now()
	result := exec.Run(context.Background(), actionable(map[string]any{"location": "Austin"}))

	assert.True(t, result.Failed())
	assert.Equal(t, ErrorKindTimeout, result.Metadata[MetaErrorKind])
	assert.Less(t, time.Since(start), 400*time.Millisecond)
}

func TestRunTestMode(t *testing.T) {
	handler := &scriptedHandler{execute: func(ctx context.Context, params map[string]any) skilltypes.ExecutionResult {
		t.Fatal("handler must not run in test mode")
		return skilltypes.ExecutionResult{}
	}}

	exec := New(registryWith(t, handler), Config{TestMode: true})
	result := exec.Run(context.Background(), actionable(map[string]any{"location": "Austin"}))

	assert.Equal(t, skilltypes.StatusCompleted, result.Status)
	assert.Equal(t, true, result.Metadata[MetaTestMode])
	assert.Contains(t, result.Output, "result")
	assert.Equal(t, 0, handler.calls)
}
