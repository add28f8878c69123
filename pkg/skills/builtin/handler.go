// Package builtin defines the skills shipped with the service and the two
// handler variants that execute them against the browser automation
// provider: a fast synchronous data-retrieval handler and a slower
// session-based action handler.
package builtin

import (
	"context"
	"fmt"
	"time"

	"github.com/byrencheema/tappy/pkg/browseruse"
	"github.com/byrencheema/tappy/pkg/logger"
	"github.com/byrencheema/tappy/pkg/skills"
	skilltypes "github.com/byrencheema/tappy/pkg/types/skills"
	"github.com/pkg/errors"
)

// Session lifecycle states recorded in action result metadata.
const (
	sessionStateCreated   = "created"
	sessionStateSubmitted = "submitted"
	sessionStateCompleted = "completed"
	sessionStateFailed    = "failed"
	sessionStateTimedOut  = "timed_out"
)

// FormatFunc maps a raw execution result to the notification shape.
type FormatFunc func(skilltypes.ExecutionResult) skilltypes.FormattedResult

// TaskFunc builds the natural-language task description an action skill
// submits to the provider's agent.
type TaskFunc func(params map[string]any) string

// DataRetrievalHandler executes a skill as a single provider call.
// Idempotent; the client retries once on transient network failure.
type DataRetrievalHandler struct {
	config skills.SkillConfig
	client *browseruse.Client
	format FormatFunc
}

// NewDataRetrievalHandler wires a data-retrieval skill to the provider.
func NewDataRetrievalHandler(config skills.SkillConfig, client *browseruse.Client, format FormatFunc) *DataRetrievalHandler {
	return &DataRetrievalHandler{config: config, client: client, format: format}
}

// Execute runs the single synchronous provider call.
func (h *DataRetrievalHandler) Execute(ctx context.Context, params map[string]any) skilltypes.ExecutionResult {
	output, err := h.client.ExecuteSkill(ctx, h.config.ID, params)
	if err != nil {
		return h.failure(err.Error())
	}
	return skilltypes.ExecutionResult{
		Status:    skilltypes.StatusCompleted,
		SkillID:   h.config.ID,
		SkillName: h.config.Name,
		Kind:      skilltypes.KindDataRetrieval,
		Output:    output,
		Metadata:  map[string]any{"api_version": "v2"},
	}
}

// Format delegates to the skill's formatter.
func (h *DataRetrievalHandler) Format(result skilltypes.ExecutionResult) skilltypes.FormattedResult {
	return h.format(result)
}

// ValidateOutput checks the payload carries the provider's result
// envelope.
func (h *DataRetrievalHandler) ValidateOutput(output map[string]any) bool {
	if output == nil {
		return false
	}
	_, ok := output["result"]
	return ok
}

func (h *DataRetrievalHandler) failure(message string) skilltypes.ExecutionResult {
	return skilltypes.ExecutionResult{
		Status:    skilltypes.StatusFailed,
		SkillID:   h.config.ID,
		SkillName: h.config.Name,
		Kind:      skilltypes.KindDataRetrieval,
		Error:     message,
	}
}

// ActionHandler executes a skill through an authenticated provider
// session: create session, submit task, poll to a terminal state, then
// release. The session is released exactly once on every exit path.
type ActionHandler struct {
	config skills.SkillConfig
	client *browseruse.Client
	format FormatFunc
	task   TaskFunc
}

// NewActionHandler wires an action skill to the provider.
func NewActionHandler(config skills.SkillConfig, client *browseruse.Client, format FormatFunc, task TaskFunc) *ActionHandler {
	return &ActionHandler{config: config, client: client, format: format, task: task}
}

// Execute drives the session state machine:
// created -> submitted -> {completed|failed|timed_out}.
func (h *ActionHandler) Execute(ctx context.Context, params map[string]any) skilltypes.ExecutionResult {
	if h.client.ProfileID() == "" {
		// Operator error, not a transient condition: surfaced distinctly
		// so logs point at the missing configuration.
		logger.G(ctx).WithField("skill_id", h.config.ID).
			Error("action skill invoked without a configured browser profile")
		result := h.failure("a browser profile is required for authenticated action skills", "")
		result.Metadata = map[string]any{"error_kind": "configuration"}
		return result
	}

	sessionID, err := h.client.CreateSession(ctx)
	if err != nil {
		return h.failure(fmt.Sprintf("failed to create session: %s", err), "")
	}
	defer func() {
		// Release must survive a cancelled or deadline-exceeded request
		// context: give it its own short budget.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
		defer cancel()
		if err := h.client.ReleaseSession(releaseCtx, sessionID); err != nil {
			logger.G(ctx).WithError(err).WithField("session_id", sessionID).
				Warn("failed to release provider session")
		}
	}()

	taskID, err := h.client.SubmitTask(ctx, sessionID, h.config.ID, h.task(params))
	if err != nil {
		return h.failure(fmt.Sprintf("failed to submit task: %s", err), sessionStateCreated)
	}

	status, err := h.client.AwaitTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, browseruse.ErrTaskTimedOut) {
			result := h.failure("task did not complete before the deadline", sessionStateTimedOut)
			result.Metadata["task_id"] = taskID
			return result
		}
		result := h.failure(fmt.Sprintf("task polling failed: %s", err), sessionStateSubmitted)
		result.Metadata["task_id"] = taskID
		return result
	}

	if status.Status != "finished" || !status.IsSuccess {
		message := status.Output
		if message == "" {
			message = fmt.Sprintf("task %s", status.Status)
		}
		result := h.failure(message, sessionStateFailed)
		result.Metadata["task_id"] = taskID
		return result
	}

	return skilltypes.ExecutionResult{
		Status:    skilltypes.StatusCompleted,
		SkillID:   h.config.ID,
		SkillName: h.config.Name,
		Kind:      skilltypes.KindAction,
		Output: map[string]any{
			"result": map[string]any{
				"success": true,
				"data": map[string]any{
					"output":     status.Output,
					"parameters": params,
				},
			},
		},
		Metadata: map[string]any{
			"task_id":       taskID,
			"steps":         len(status.Steps),
			"session_state": sessionStateCompleted,
		},
	}
}

// Format delegates to the skill's formatter.
func (h *ActionHandler) Format(result skilltypes.ExecutionResult) skilltypes.FormattedResult {
	return h.format(result)
}

// ValidateOutput checks the payload carries the provider's result
// envelope.
func (h *ActionHandler) ValidateOutput(output map[string]any) bool {
	if output == nil {
		return false
	}
	_, ok := output["result"]
	return ok
}

func (h *ActionHandler) failure(message, sessionState string) skilltypes.ExecutionResult {
	result := skilltypes.ExecutionResult{
		Status:    skilltypes.StatusFailed,
		SkillID:   h.config.ID,
		SkillName: h.config.Name,
		Kind:      skilltypes.KindAction,
		Error:     message,
		Metadata:  map[string]any{},
	}
	if sessionState != "" {
		result.Metadata["session_state"] = sessionState
	}
	return result
}
