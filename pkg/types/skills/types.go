// Package skills defines the core data model shared across the planner,
// executor, formatter and delivery components. It intentionally contains
// no behaviour beyond small helpers so that every layer of the pipeline
// can depend on it without import cycles.
package skills

import (
	"context"
)

// Kind classifies a skill by its execution behaviour.
type Kind string

const (
	// KindDataRetrieval is a single synchronous provider call returning
	// structured data. Idempotent, safe to retry on transient failure.
	KindDataRetrieval Kind = "data_retrieval"
	// KindAction is a multi-step authenticated session against the
	// provider: create session, submit task, poll to completion, release.
	KindAction Kind = "action"
)

// Status is the lifecycle state of a skill execution.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// ExecutionResult is produced by exactly one executor run per actionable
// decision. It is never mutated after creation.
type ExecutionResult struct {
	Status    Status         `json:"status"`
	SkillID   string         `json:"skill_id"`
	SkillName string         `json:"skill_name,omitempty"`
	Kind      Kind           `json:"kind,omitempty"`
	Output    map[string]any `json:"output,omitempty"`
	Error     string         `json:"error,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Failed reports whether the execution ended in failure.
func (r ExecutionResult) Failed() bool {
	return r.Status == StatusFailed
}

// WithMetadata returns a copy of the result with the given key set in the
// metadata map. The original result is left untouched.
func (r ExecutionResult) WithMetadata(key string, value any) ExecutionResult {
	meta := make(map[string]any, len(r.Metadata)+1)
	for k, v := range r.Metadata {
		meta[k] = v
	}
	meta[key] = value
	r.Metadata = meta
	return r
}

// FormattedStatus is the initial state a notification derived from the
// execution result should carry.
type FormattedStatus string

const (
	FormattedPending           FormattedStatus = "pending"
	FormattedNeedsConfirmation FormattedStatus = "needs_confirmation"
	FormattedCompleted         FormattedStatus = "completed"
)

// Link is a reference attached to a formatted result, e.g. a job posting
// or a video the user can open from the notification.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
	Kind  string `json:"kind,omitempty"`
}

// FormattedResult is the fixed notification shape derived deterministically
// from an ExecutionResult.
type FormattedResult struct {
	Title       string          `json:"title"`
	Message     string          `json:"message"`
	ActionLabel string          `json:"action_label,omitempty"`
	Status      FormattedStatus `json:"status"`
	Links       []Link          `json:"links,omitempty"`
}

// PlannerDecision is the planner's verdict for a single note. Created once
// per note and immutable; Reason is always present for auditability.
type PlannerDecision struct {
	ShouldAct  bool           `json:"should_act"`
	SkillID    string         `json:"skill_id,omitempty"`
	SkillName  string         `json:"skill_name,omitempty"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Reason     string         `json:"reason"`
}

// Handler is the polymorphic execution contract every registered skill
// implements. Exactly two variants exist: data-retrieval and action.
type Handler interface {
	// Execute runs the skill with schema-normalized parameters. Failures
	// are reported through the result status, never by panicking.
	Execute(ctx context.Context, params map[string]any) ExecutionResult
	// Format maps a raw execution result to the notification shape.
	Format(result ExecutionResult) FormattedResult
	// ValidateOutput reports whether a raw provider payload has the
	// structure the formatter expects.
	ValidateOutput(output map[string]any) bool
}
