package convert

import (
	"context"

	"docmill/internal/domain/models"
	domainSvc "docmill/internal/domain/services"
)

// textExtractor decodes plain text bytes. The content has already passed the
// sniffer's binary-content heuristic, so this is a passthrough: the text is
// used verbatim, with no trimming, so TXT to TXT conversion is an identity.
type textExtractor struct{}

// NewTextExtractor creates a plain text extractor.
func NewTextExtractor() domainSvc.Extractor {
	return &textExtractor{}
}

// Extract returns the bytes decoded as UTF-8 text, verbatim.
func (e *textExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	return string(data), nil
}

// Kind returns the source kind this extractor handles.
func (e *textExtractor) Kind() models.SourceKind {
	return models.KindText
}
