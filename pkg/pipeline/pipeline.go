// Package pipeline wires the planner, executor, formatter, and notification
// service into the note processing flow.
package pipeline

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/byrencheema/tappy/pkg/executor"
	"github.com/byrencheema/tappy/pkg/formatter"
	"github.com/byrencheema/tappy/pkg/logger"
	"github.com/byrencheema/tappy/pkg/notifications"
	"github.com/byrencheema/tappy/pkg/planner"
	"github.com/byrencheema/tappy/pkg/skills"
	skilltypes "github.com/byrencheema/tappy/pkg/types/skills"
)

// ErrEmptyNote is returned when a note contains no usable text.
var ErrEmptyNote = errors.New("note text is empty")

// Outcome is the full result of processing one note.
type Outcome struct {
	Decision     skilltypes.PlannerDecision  `json:"decision"`
	Result       *skilltypes.ExecutionResult `json:"result,omitempty"`
	Notification *notifications.Notification `json:"notification,omitempty"`
}

// Acted reports whether a skill ran for this note.
func (o Outcome) Acted() bool {
	return o.Result != nil
}

// Pipeline processes notes end to end: plan, execute, format, notify.
type Pipeline struct {
	planner  *planner.Planner
	executor *executor.Executor
	registry *skills.Registry
	service  *notifications.Service
}

// New creates a pipeline.
func New(p *planner.Planner, exec *executor.Executor, registry *skills.Registry, service *notifications.Service) *Pipeline {
	return &Pipeline{
		planner:  p,
		executor: exec,
		registry: registry,
		service:  service,
	}
}

// Process runs the full pipeline for one note. When the planner decides no
// skill applies the outcome carries the decision only; otherwise the skill
// executes and a notification is persisted and broadcast. Skill failures do
// not produce an error here: they surface as a failed notification.
func (p *Pipeline) Process(ctx context.Context, noteText string) (Outcome, error) {
	if strings.TrimSpace(noteText) == "" {
		return Outcome{}, ErrEmptyNote
	}

	log := logger.G(ctx)

	decision := p.planner.Plan(ctx, noteText)
	if !decision.ShouldAct {
		log.WithField("reason", decision.Reason).Debug("no skill selected for note")
		return Outcome{Decision: decision}, nil
	}

	log.WithFields(logrus.Fields{
		"skill_id": decision.SkillID,
		"reason":   decision.Reason,
	}).Info("executing skill for note")

	result := p.executor.Run(ctx, decision)

	var formatted skilltypes.FormattedResult
	if registration, ok := p.registry.Lookup(result.SkillID); ok {
		formatted = formatter.Format(ctx, registration, result)
	} else {
		formatted = formatter.Fallback(result.SkillName, result)
	}

	notification, err := p.service.Publish(ctx, noteText, result, formatted)
	if err != nil {
		return Outcome{Decision: decision, Result: &result}, errors.Wrap(err, "failed to publish notification")
	}

	return Outcome{
		Decision:     decision,
		Result:       &result,
		Notification: notification,
	}, nil
}
