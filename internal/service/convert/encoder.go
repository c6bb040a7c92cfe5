package convert

import (
	"sync"

	"docmill/internal/domain/models"
	domainSvc "docmill/internal/domain/services"
)

// EncoderRegistry routes target formats to their encoders.
// Thread-safe for concurrent access.
type EncoderRegistry struct {
	mu       sync.RWMutex
	encoders map[models.TargetFormat]domainSvc.Encoder
}

// NewEncoderRegistry creates a registry with the standard encoders
// pre-registered.
func NewEncoderRegistry() *EncoderRegistry {
	registry := &EncoderRegistry{
		encoders: make(map[models.TargetFormat]domainSvc.Encoder),
	}

	registry.Register(NewTxtEncoder())
	registry.Register(NewDocxEncoder())

	return registry
}

// Register adds an encoder, keyed by the target format it produces.
func (r *EncoderRegistry) Register(encoder domainSvc.Encoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.encoders[encoder.Target()] = encoder
}

// Get retrieves the encoder for a target format, or nil if none is
// registered.
func (r *EncoderRegistry) Get(target models.TargetFormat) domainSvc.Encoder {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.encoders[target]
}

// txtEncoder writes plain text output. Since the extracted text is already
// UTF-8, this is a passthrough.
type txtEncoder struct{}

// NewTxtEncoder creates a plain text encoder.
func NewTxtEncoder() domainSvc.Encoder {
	return &txtEncoder{}
}

// Encode returns the text as UTF-8 bytes, verbatim.
func (e *txtEncoder) Encode(text string) ([]byte, error) {
	return []byte(text), nil
}

// Target returns the format this encoder produces.
func (e *txtEncoder) Target() models.TargetFormat {
	return models.TargetTxt
}
