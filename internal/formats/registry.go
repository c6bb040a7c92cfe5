// Package formats is the registry of accepted upload extensions and
// conversion targets, loaded from an embedded YAML file.
package formats

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"docmill/internal/domain/models"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry maps upload extensions to source kinds and lists the supported
// conversion targets. Thread-safe for concurrent reads.
type Registry struct {
	mu         sync.RWMutex
	extensions map[string]models.SourceKind
	targets    []models.TargetFormat
}

type formatsFile struct {
	Extensions []struct {
		Ext  string `yaml:"ext"`
		Kind string `yaml:"kind"`
	} `yaml:"extensions"`
	Targets []string `yaml:"targets"`
}

// NewRegistry loads the embedded formats file.
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/formats.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read formats config: %w", err)
	}

	var file formatsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal formats config: %w", err)
	}

	r := &Registry{extensions: make(map[string]models.SourceKind)}
	for _, e := range file.Extensions {
		r.extensions[strings.ToLower(e.Ext)] = models.SourceKind(e.Kind)
	}
	for _, t := range file.Targets {
		r.targets = append(r.targets, models.TargetFormat(t))
	}

	if len(r.extensions) == 0 || len(r.targets) == 0 {
		return nil, fmt.Errorf("formats config is incomplete")
	}
	return r, nil
}

// Allowed reports whether an extension (without dot, case-insensitive) is on
// the upload allow-list.
func (r *Registry) Allowed(ext string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.extensions[normalizeExt(ext)]
	return ok
}

// KindFor returns the source kind registered for an extension, or
// KindUnsupported when the extension is not allow-listed.
func (r *Registry) KindFor(ext string) models.SourceKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if kind, ok := r.extensions[normalizeExt(ext)]; ok {
		return kind
	}
	return models.KindUnsupported
}

// Targets returns the supported conversion targets in config order.
func (r *Registry) Targets() []models.TargetFormat {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.TargetFormat, len(r.targets))
	copy(out, r.targets)
	return out
}

// ParseTarget resolves a case-insensitive target format string.
func (r *Registry) ParseTarget(s string) (models.TargetFormat, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for _, t := range r.Targets() {
		if string(t) == want {
			return t, nil
		}
	}
	return "", fmt.Errorf("unsupported target format %q", s)
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
