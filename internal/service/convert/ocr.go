package convert

import (
	"context"
	"errors"

	domainSvc "docmill/internal/domain/services"
)

// ErrOCRNotEnabled is returned for every recognition request by the disabled
// engine. Image uploads are accepted so callers get this precise diagnostic
// instead of a generic rejection.
var ErrOCRNotEnabled = errors.New("OCR is not enabled on this server; scanned images cannot be converted")

// disabledOCR is the recognized-but-unimplemented OCR capability. Wiring a
// real engine behind the OCREngine interface requires no orchestrator
// changes.
type disabledOCR struct{}

// NewDisabledOCR creates the no-op OCR engine.
func NewDisabledOCR() domainSvc.OCREngine {
	return &disabledOCR{}
}

// Recognize always fails with ErrOCRNotEnabled.
func (o *disabledOCR) Recognize(ctx context.Context, data []byte) (string, error) {
	return "", ErrOCRNotEnabled
}

// Enabled reports that no recognition capability is available.
func (o *disabledOCR) Enabled() bool {
	return false
}
