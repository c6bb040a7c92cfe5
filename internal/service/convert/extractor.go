package convert

import (
	"fmt"
	"sync"

	"docmill/internal/domain/models"
	domainSvc "docmill/internal/domain/services"
)

// ExtractorRegistry routes source kinds to their text extractors.
// Follows the Factory + Registry pattern; thread-safe for concurrent access.
type ExtractorRegistry struct {
	mu         sync.RWMutex
	extractors map[models.SourceKind]domainSvc.Extractor
}

// NewExtractorRegistry creates a registry with the standard extractors
// pre-registered.
func NewExtractorRegistry() *ExtractorRegistry {
	registry := &ExtractorRegistry{
		extractors: make(map[models.SourceKind]domainSvc.Extractor),
	}

	registry.Register(NewPDFExtractor())
	registry.Register(NewDocxExtractor())
	registry.Register(NewTextExtractor())

	return registry
}

// Register adds an extractor, keyed by the source kind it handles.
func (r *ExtractorRegistry) Register(extractor domainSvc.Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors[extractor.Kind()] = extractor
}

// Get retrieves the extractor for a source kind, or nil if none is
// registered.
func (r *ExtractorRegistry) Get(kind models.SourceKind) domainSvc.Extractor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.extractors[kind]
}

// errNoTextExtracted marks the empty-result case: structurally valid input
// that yielded no text. It signals a different remediation path (OCR) than a
// parser fault does.
func errNoTextExtracted(what string) error {
	return fmt.Errorf("no text could be extracted from the %s; it may contain only scanned images (OCR is not enabled)", what)
}
