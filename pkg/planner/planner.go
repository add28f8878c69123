// Package planner decides whether a note warrants executing a skill.
// It makes a single call to a language model under a strict JSON output
// contract and treats the model as an untrusted external capability:
// every contract violation degrades to "no action" rather than an error.
package planner

import (
	"context"

	"github.com/byrencheema/tappy/pkg/llm"
	"github.com/byrencheema/tappy/pkg/logger"
	"github.com/byrencheema/tappy/pkg/skills"
	skilltypes "github.com/byrencheema/tappy/pkg/types/skills"
)

// ReasonParseError is recorded on decisions downgraded after the model's
// reply failed to parse twice.
const ReasonParseError = "planner_parse_error"

// Planner turns a note into a PlannerDecision using the skill catalogue.
type Planner struct {
	completer llm.Completer
	registry  *skills.Registry
}

// New creates a planner over the given completer and registry.
func New(completer llm.Completer, registry *skills.Registry) *Planner {
	return &Planner{completer: completer, registry: registry}
}

// Plan produces the decision for one note. It never returns an error for
// model misbehaviour: malformed output is retried once with a corrective
// prompt and then downgraded to should_act=false, and decisions naming an
// unregistered skill are downgraded likewise. This is the sole gate that
// prevents unwanted execution.
func (p *Planner) Plan(ctx context.Context, noteText string) skilltypes.PlannerDecision {
	log := logger.G(ctx)

	systemPrompt := systemPrompt(p.registry)
	raw, err := p.completer.Complete(ctx, systemPrompt, userPrompt(noteText))
	if err != nil {
		log.WithError(err).Warn("planner model call failed")
		return skilltypes.PlannerDecision{ShouldAct: false, Reason: "planner_unavailable: " + err.Error()}
	}

	decision, parseErr := parseDecision(ctx, raw)
	if parseErr != nil {
		log.WithError(parseErr).WithField("reply", truncate(raw, 500)).
			Info("planner reply malformed, retrying with corrective prompt")

		raw, err = p.completer.Complete(ctx, systemPrompt, correctivePrompt(noteText, raw, parseErr))
		if err != nil {
			log.WithError(err).Warn("planner corrective call failed")
			return skilltypes.PlannerDecision{ShouldAct: false, Reason: "planner_unavailable: " + err.Error()}
		}
		decision, parseErr = parseDecision(ctx, raw)
		if parseErr != nil {
			log.WithError(parseErr).Warn("planner reply malformed twice, declining to act")
			return skilltypes.PlannerDecision{ShouldAct: false, Reason: ReasonParseError}
		}
	}

	return p.vet(ctx, decision)
}

// vet enforces the decision contract against the registry. A decision that
// wants to act must reference a registered skill.
func (p *Planner) vet(ctx context.Context, decision skilltypes.PlannerDecision) skilltypes.PlannerDecision {
	if !decision.ShouldAct {
		decision.SkillID = ""
		decision.SkillName = ""
		decision.Parameters = nil
		if decision.Reason == "" {
			decision.Reason = "no actionable intent"
		}
		return decision
	}

	if decision.SkillID == "" {
		logger.G(ctx).Warn("planner wanted to act but named no skill, declining")
		return skilltypes.PlannerDecision{ShouldAct: false, Reason: "planner selected no skill: " + decision.Reason}
	}
	if _, ok := p.registry.Lookup(decision.SkillID); !ok {
		logger.G(ctx).WithField("skill_id", decision.SkillID).
			Warn("planner referenced unregistered skill, declining")
		return skilltypes.PlannerDecision{
			ShouldAct: false,
			Reason:    "planner referenced unknown skill " + decision.SkillID + ": " + decision.Reason,
		}
	}
	if decision.Reason == "" {
		decision.Reason = "no reason provided"
	}
	return decision
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
