// Package skills provides the process-wide skill registry and the
// declarative parameter schemas that document and validate each skill.
// The registry is populated once at start-up and read-only thereafter,
// so lookups need no synchronization.
package skills

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	skilltypes "github.com/byrencheema/tappy/pkg/types/skills"
)

// SkillConfig declares a registered capability. Immutable after
// registration.
type SkillConfig struct {
	// ID is the globally unique skill identifier the planner selects and
	// the provider executes.
	ID string
	// Name is the human-readable display name.
	Name string
	Kind skilltypes.Kind
	// Description documents the skill to the planner.
	Description string
	Schema      ParameterSchema
	// ExampleParams shows the planner a well-formed parameter object.
	ExampleParams map[string]any
	// PlannerHints is natural-language guidance for when the skill
	// applies.
	PlannerHints string
}

// Registration pairs a skill's configuration with its handler.
type Registration struct {
	Config  SkillConfig
	Handler skilltypes.Handler
}

// Registry maps skill identifiers to their configuration and handler.
type Registry struct {
	order  []string
	skills map[string]Registration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{skills: make(map[string]Registration)}
}

// Register adds a skill. A duplicate identifier is a programming error in
// the skill definitions, so registration fails fast at start-up rather
// than being tolerated at runtime.
func (r *Registry) Register(config SkillConfig, handler skilltypes.Handler) error {
	if config.ID == "" {
		return errors.New("skill id must not be empty")
	}
	if _, exists := r.skills[config.ID]; exists {
		return errors.Errorf("skill %q is already registered", config.ID)
	}
	if config.Description == "" {
		return errors.Errorf("skill %q has no description", config.ID)
	}
	if config.PlannerHints == "" {
		return errors.Errorf("skill %q has no planner hints", config.ID)
	}
	if handler == nil {
		return errors.Errorf("skill %q has no handler", config.ID)
	}
	if config.Kind != skilltypes.KindDataRetrieval && config.Kind != skilltypes.KindAction {
		return errors.Errorf("skill %q has unknown kind %q", config.ID, config.Kind)
	}
	if _, err := config.Schema.Validate(config.ExampleParams); err != nil {
		return errors.Wrapf(err, "skill %q example parameters do not validate", config.ID)
	}

	r.order = append(r.order, config.ID)
	r.skills[config.ID] = Registration{Config: config, Handler: handler}
	return nil
}

// Lookup returns the registration for a skill id.
func (r *Registry) Lookup(id string) (Registration, bool) {
	reg, ok := r.skills[id]
	return reg, ok
}

// List returns all registered skill configurations in registration order.
func (r *Registry) List() []SkillConfig {
	configs := make([]SkillConfig, 0, len(r.order))
	for _, id := range r.order {
		configs = append(configs, r.skills[id].Config)
	}
	return configs
}

// Len returns the number of registered skills.
func (r *Registry) Len() int {
	return len(r.order)
}

// Catalogue produces a compact description of every registered skill
// suitable for embedding in the planner's prompt context.
func (r *Registry) Catalogue() string {
	if len(r.order) == 0 {
		return "No skills available."
	}

	var b strings.Builder
	b.WriteString("Available skills:\n")
	for _, id := range r.order {
		cfg := r.skills[id].Config
		fmt.Fprintf(&b, "\n- %s (%s):\n", cfg.Name, cfg.ID)
		fmt.Fprintf(&b, "  Kind: %s\n", cfg.Kind)
		fmt.Fprintf(&b, "  Description: %s\n", cfg.Description)
		fmt.Fprintf(&b, "  When to use: %s\n", cfg.PlannerHints)
		fmt.Fprintf(&b, "  Parameter schema: %s\n", mustCompactJSON(cfg.Schema.JSONSchema()))
		fmt.Fprintf(&b, "  Example parameters: %s\n", mustCompactJSON(cfg.ExampleParams))
	}
	return b.String()
}

func mustCompactJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}
