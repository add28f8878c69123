// Package executor drives skill execution for actionable planner
// decisions with parameter validation, timeout enforcement and error
// containment. Handler failures of any kind become failed results; they
// never propagate as process crashes.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/byrencheema/tappy/pkg/logger"
	"github.com/byrencheema/tappy/pkg/skills"
	skilltypes "github.com/byrencheema/tappy/pkg/types/skills"
)

// Metadata keys recorded on execution results.
const (
	MetaDurationMS = "duration_ms"
	MetaErrorKind  = "error_kind"
	MetaTestMode   = "test_mode"
)

// Error kinds recorded under MetaErrorKind. ErrorKindConfiguration
// indicates an operator fix is needed, not a transient condition.
const (
	ErrorKindValidation    = "validation"
	ErrorKindTimeout       = "timeout"
	ErrorKindPanic         = "panic"
	ErrorKindConfiguration = "configuration"
)

// Config holds executor settings. TestMode is threaded in explicitly at
// construction time rather than read from a global toggle.
type Config struct {
	// Timeout bounds one handler execution end to end, including an
	// action skill's whole session lifecycle. Defaults to 6m.
	Timeout time.Duration
	// TestMode returns canned results without contacting the external
	// provider. Development and deterministic testing only.
	TestMode bool
}

func (c Config) withDefaults() Config {
	if c.Timeout == 0 {
		c.Timeout = 6 * time.Minute
	}
	return c
}

// Executor runs handlers looked up from the registry.
type Executor struct {
	registry *skills.Registry
	config   Config
}

// New creates an executor over the registry.
func New(registry *skills.Registry, config Config) *Executor {
	return &Executor{registry: registry, config: config.withDefaults()}
}

// Run executes the decision's skill and always returns a result: lookup
// or validation failures, handler errors, panics and timeouts all surface
// as status failed.
func (e *Executor) Run(ctx context.Context, decision skilltypes.PlannerDecision) skilltypes.ExecutionResult {
	if !decision.ShouldAct {
		return failed(decision.SkillID, "", "decision does not request execution", "")
	}

	reg, ok := e.registry.Lookup(decision.SkillID)
	if !ok {
		return failed(decision.SkillID, "", fmt.Sprintf("skill %s is not registered", decision.SkillID), "")
	}
	cfg := reg.Config

	normalized, err := cfg.Schema.Validate(decision.Parameters)
	if err != nil {
		logger.G(ctx).WithError(err).WithField("skill_id", cfg.ID).Info("parameter validation failed")
		result := failed(cfg.ID, cfg.Name, err.Error(), ErrorKindValidation)
		result.Kind = cfg.Kind
		return result
	}

	if e.config.TestMode {
		logger.G(ctx).WithField("skill_id", cfg.ID).WithField("parameters", normalized).
			Info("test mode: skipping provider call")
		return testResult(cfg)
	}

	start := time.Now()
	result := e.invoke(ctx, reg, normalized)
	result = result.WithMetadata(MetaDurationMS, time.Since(start).Milliseconds())

	if result.SkillID == "" {
		result.SkillID = cfg.ID
	}
	if result.SkillName == "" {
		result.SkillName = cfg.Name
	}
	if result.Kind == "" {
		result.Kind = cfg.Kind
	}
	return result
}

// invoke runs the handler under the configured timeout with panic
// containment. A handler that ignores context cancellation still cannot
// stall the pipeline: the run is abandoned once the deadline passes.
func (e *Executor) invoke(ctx context.Context, reg skills.Registration, params map[string]any) skilltypes.ExecutionResult {
	runCtx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	done := make(chan skilltypes.ExecutionResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.G(ctx).WithField("skill_id", reg.Config.ID).WithField("panic", r).
					Error("skill handler panicked")
				done <- failed(reg.Config.ID, reg.Config.Name,
					fmt.Sprintf("skill handler panicked: %v", r), ErrorKindPanic)
			}
		}()
		done <- reg.Handler.Execute(runCtx, params)
	}()

	select {
	case result := <-done:
		return result
	case <-runCtx.Done():
		return failed(reg.Config.ID, reg.Config.Name,
			fmt.Sprintf("skill execution timed out after %s", e.config.Timeout), ErrorKindTimeout)
	}
}

func failed(skillID, skillName, message, errorKind string) skilltypes.ExecutionResult {
	result := skilltypes.ExecutionResult{
		Status:    skilltypes.StatusFailed,
		SkillID:   skillID,
		SkillName: skillName,
		Error:     message,
	}
	if errorKind != "" {
		result.Metadata = map[string]any{MetaErrorKind: errorKind}
	}
	return result
}
