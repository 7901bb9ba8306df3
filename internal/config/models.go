package config

import (
	"fmt"
	"os"

	"imagerelay/internal/core"
	"imagerelay/internal/util"
)

// ModelRegistry is the immutable model table shared by every request.
type ModelRegistry struct {
	models     []core.ModelDescriptor
	byID       map[string]core.ModelDescriptor
	defaultID  string
	fallbackID string
}

// DefaultModelsConfig returns the built-in model table.
func DefaultModelsConfig() core.ModelsConfig {
	return core.ModelsConfig{
		Default:  core.DefaultModelID,
		Fallback: core.FallbackModelID,
		Models: []core.ModelDescriptor{
			{ID: core.ModelGeminiFlashImage, DisplayName: "Gemini 2.5 Flash Image", EndpointKind: core.EndpointGenerateContent, SupportsImageGen: true},
			{ID: core.ModelGeminiFlashImagePreview, DisplayName: "Gemini 2.0 Flash Image Preview", EndpointKind: core.EndpointGenerateContent, SupportsImageGen: true},
			{ID: core.ModelImagen4, DisplayName: "Imagen 4", EndpointKind: core.EndpointGenerateImage, SupportsImageGen: true},
			{ID: core.ModelImagen3, DisplayName: "Imagen 3", EndpointKind: core.EndpointGenerateImage, SupportsImageGen: true},
			{ID: core.ModelGeminiFlash, DisplayName: "Gemini 2.5 Flash (text only)", EndpointKind: core.EndpointGenerateContent, SupportsImageGen: false},
		},
	}
}

// LoadModelsConfig reads a model table override from a JSON file.
func LoadModelsConfig(path string) (core.ModelsConfig, error) {
	var cfg core.ModelsConfig

	data, err := os.ReadFile(path) //nolint:gosec // G304: path from config, not user input
	if err != nil {
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := util.UnmarshalJSON(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return cfg, nil
}

// NewModelRegistry validates cfg and freezes it into a registry.
func NewModelRegistry(cfg core.ModelsConfig) (*ModelRegistry, error) {
	if len(cfg.Models) == 0 {
		return nil, core.ErrInvalidModelsTable("model table is empty")
	}

	r := &ModelRegistry{
		models: make([]core.ModelDescriptor, 0, len(cfg.Models)),
		byID:   make(map[string]core.ModelDescriptor, len(cfg.Models)),
	}

	for _, m := range cfg.Models {
		if m.ID == "" {
			return nil, core.ErrInvalidModelsTable("model entry without id")
		}
		if _, dup := r.byID[m.ID]; dup {
			return nil, core.ErrInvalidModelsTable(fmt.Sprintf("duplicate model id %q", m.ID))
		}
		if !m.EndpointKind.Valid() {
			return nil, core.ErrInvalidModelsTable(fmt.Sprintf("model %q has unknown endpoint %q", m.ID, m.EndpointKind))
		}
		if m.DisplayName == "" {
			m.DisplayName = m.ID
		}
		r.models = append(r.models, m)
		r.byID[m.ID] = m
	}

	r.defaultID = cfg.Default
	if r.defaultID == "" {
		r.defaultID = r.models[0].ID
	}
	if _, ok := r.byID[r.defaultID]; !ok {
		return nil, core.ErrInvalidModelsTable(fmt.Sprintf("default model %q is not in the table", r.defaultID))
	}

	if cfg.Fallback != "" {
		if _, ok := r.byID[cfg.Fallback]; !ok {
			return nil, core.ErrInvalidModelsTable(fmt.Sprintf("fallback model %q is not in the table", cfg.Fallback))
		}
		if cfg.Fallback != r.defaultID {
			r.fallbackID = cfg.Fallback
		}
	}

	return r, nil
}

// LoadModelRegistry builds the registry from path, or the built-in table when path is empty.
func LoadModelRegistry(path string, logger core.Logger) (*ModelRegistry, error) {
	cfg := DefaultModelsConfig()
	source := "built-in table"
	if path != "" {
		loaded, err := LoadModelsConfig(path)
		if err != nil {
			return nil, core.ErrConfigLoadFailed("models", err)
		}
		cfg = loaded
		source = path
	}

	registry, err := NewModelRegistry(cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("Loaded %d models from %s (default=%s, fallback=%s)",
		len(registry.models), source, registry.defaultID, registry.fallbackIDOrNone())
	return registry, nil
}

func (r *ModelRegistry) fallbackIDOrNone() string {
	if r.fallbackID == "" {
		return "none"
	}
	return r.fallbackID
}

// Lookup finds a model by id.
func (r *ModelRegistry) Lookup(id string) (core.ModelDescriptor, bool) {
	m, ok := r.byID[id]
	return m, ok
}

// Default returns the default model.
func (r *ModelRegistry) Default() core.ModelDescriptor {
	return r.byID[r.defaultID]
}

// Fallback returns the fallback model, if one is configured.
func (r *ModelRegistry) Fallback() (core.ModelDescriptor, bool) {
	if r.fallbackID == "" {
		return core.ModelDescriptor{}, false
	}
	return r.byID[r.fallbackID], true
}

// IDs returns model ids in table order.
func (r *ModelRegistry) IDs() []string {
	ids := make([]string, len(r.models))
	for i, m := range r.models {
		ids[i] = m.ID
	}
	return ids
}

// ModelList builds the GET /api/models response.
func (r *ModelRegistry) ModelList() core.ModelList {
	list := core.ModelList{
		Models:  make([]core.ModelInfo, len(r.models)),
		Default: r.defaultID,
	}
	for i, m := range r.models {
		list.Models[i] = core.ModelInfo{ID: m.ID, Name: m.DisplayName, SupportsImageGen: m.SupportsImageGen}
	}
	return list
}
