package validation

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	apperrors "github.com/dumbgoos/WEB2PG/internal/errors"
)

// ScreenshotValidator checks decoded screenshot payloads before they are
// handed to the OCR stage.
type ScreenshotValidator struct {
	minWidth  int
	minHeight int
	maxBytes  int64
}

// NewScreenshotValidator creates a validator with default limits.
// Anything that decodes as an image passes; the dimension floor only
// rejects payloads too small to contain any text.
func NewScreenshotValidator(maxBytes int64) *ScreenshotValidator {
	return &ScreenshotValidator{
		minWidth:  1,
		minHeight: 1,
		maxBytes:  maxBytes,
	}
}

// Validate confirms the payload is a decodable image within limits.
func (v *ScreenshotValidator) Validate(data []byte) error {
	if len(data) == 0 {
		return apperrors.NewValidationError("screenshot data is empty", nil)
	}
	if v.maxBytes > 0 && int64(len(data)) > v.maxBytes {
		return apperrors.NewValidationError(
			fmt.Sprintf("screenshot exceeds size limit of %d bytes", v.maxBytes), nil)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return apperrors.NewValidationError("screenshot is not a decodable image", err)
	}
	if cfg.Width < v.minWidth || cfg.Height < v.minHeight {
		return apperrors.NewValidationError(
			fmt.Sprintf("screenshot dimensions %dx%d below minimum %dx%d (%s)",
				cfg.Width, cfg.Height, v.minWidth, v.minHeight, format), nil)
	}

	return nil
}
