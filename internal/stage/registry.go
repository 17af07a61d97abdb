package stage

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// #region validation-config

// ValidationSet declares which filter names a configuration may reference.
// Known names have concrete handlers; Placeholders are intentionally inert
// names that execute as logged no-ops. Any other name is a startup error.
// Required names must be enabled by every stage: the safety short-circuit
// lives in a filter, so a table that omits it never reaches traffic.
type ValidationSet struct {
	Known        map[string]bool
	Placeholders map[string]bool
	Required     map[string]bool
}

// #endregion validation-config

// #region registry

// Registry is the process-wide, read-only table of stage configurations.
type Registry struct {
	stages    map[string]StageConfig
	defaultID string
}

// NewRegistry validates the configuration set and builds the lookup table.
// Validation failures here are configuration errors and must prevent the
// process from serving traffic.
func NewRegistry(configs []StageConfig, filters ValidationSet) (*Registry, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("stage registry: no stages configured")
	}

	stages := make(map[string]StageConfig, len(configs))
	for _, cfg := range configs {
		if cfg.ID == "" {
			return nil, fmt.Errorf("stage registry: stage with empty id")
		}
		if _, dup := stages[cfg.ID]; dup {
			return nil, fmt.Errorf("stage registry: duplicate stage %q", cfg.ID)
		}
		if err := validateStage(cfg, filters); err != nil {
			return nil, err
		}
		stages[cfg.ID] = cfg
	}

	if _, ok := stages[DefaultStageID]; !ok {
		return nil, fmt.Errorf("stage registry: default stage %q not configured", DefaultStageID)
	}

	return &Registry{stages: stages, defaultID: DefaultStageID}, nil
}

// Get resolves a stage by identifier. Unknown identifiers fall back to the
// default stage; Get never fails once the registry is built.
func (r *Registry) Get(id string) StageConfig {
	if cfg, ok := r.stages[id]; ok {
		return cfg
	}
	return r.stages[r.defaultID]
}

// Has reports whether a stage identifier is configured.
func (r *Registry) Has(id string) bool {
	_, ok := r.stages[id]
	return ok
}

// IDs returns all configured stage identifiers.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.stages))
	for id := range r.stages {
		ids = append(ids, id)
	}
	return ids
}

// #endregion registry

// #region stage-validation

func validateStage(cfg StageConfig, filters ValidationSet) error {
	for _, level := range []string{"green", "yellow", "red"} {
		entry, ok := cfg.Crisis[level]
		if !ok {
			return fmt.Errorf("stage %q: missing crisis entry for %s", cfg.ID, level)
		}
		if level != "green" && len(entry.Responses) == 0 {
			return fmt.Errorf("stage %q: crisis level %s has no responses", cfg.ID, level)
		}
	}
	red := cfg.Crisis["red"]
	if red.ForcedElement == "" {
		return fmt.Errorf("stage %q: red crisis entry must force an element", cfg.ID)
	}

	orderSet := make(map[string]bool, len(cfg.Filters.Order))
	for _, name := range cfg.Filters.Order {
		if !filters.Known[name] && !filters.Placeholders[name] {
			return fmt.Errorf("stage %q: filter %q is neither implemented nor a registered placeholder", cfg.ID, name)
		}
		orderSet[name] = true
	}
	enabledSet := cfg.Filters.EnabledSet()
	for _, name := range cfg.Filters.Enabled {
		if !orderSet[name] {
			return fmt.Errorf("stage %q: enabled filter %q does not appear in the order list", cfg.ID, name)
		}
	}
	for name := range filters.Required {
		if !enabledSet[name] {
			return fmt.Errorf("stage %q: required filter %q must be enabled", cfg.ID, name)
		}
	}

	if cfg.Mastery != nil && cfg.Mastery.Enabled {
		if cfg.Mastery.MaxSentenceWords <= 0 {
			return fmt.Errorf("stage %q: mastery max_sentence_words must be positive", cfg.ID)
		}
		if len(cfg.Mastery.ClosingLines) == 0 {
			return fmt.Errorf("stage %q: mastery voice requires closing lines", cfg.ID)
		}
	}
	return nil
}

// #endregion stage-validation

// #region yaml-loading

// stageFile is the YAML document shape: a flat list of stages.
type stageFile struct {
	Stages []StageConfig `yaml:"stages"`
}

// LoadFile reads a stage configuration table from YAML. The file replaces
// the built-in table wholesale; it is not merged.
func LoadFile(path string) ([]StageConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stage config: %w", err)
	}
	var doc stageFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse stage config %s: %w", path, err)
	}
	if len(doc.Stages) == 0 {
		return nil, fmt.Errorf("stage config %s: no stages defined", path)
	}
	return doc.Stages, nil
}

// #endregion yaml-loading
