package repository

import (
	"context"
	"encoding/base64"
	"strings"

	apperrors "github.com/dumbgoos/WEB2PG/internal/errors"
	"github.com/dumbgoos/WEB2PG/internal/storage"
	"github.com/dumbgoos/WEB2PG/pkg/models"
	"github.com/dumbgoos/WEB2PG/pkg/validation"
)

const azureBlobHostSuffix = ".blob.core.windows.net"

// screenshotRepository resolves screenshots from inline base64 data or by
// fetching a URL through the configured storage backends.
type screenshotRepository struct {
	fetcher      storage.ScreenshotFetcher
	blobStorage  storage.BlobStorage // nil when Azure is not configured
	urlValidator *validation.URLValidator
	validator    *validation.ScreenshotValidator
}

// NewScreenshotRepository creates a screenshot repository. blobStorage may
// be nil; Azure blob URLs then fall through to the plain HTTP fetcher.
func NewScreenshotRepository(
	fetcher storage.ScreenshotFetcher,
	blobStorage storage.BlobStorage,
	validator *validation.ScreenshotValidator,
) ScreenshotRepository {
	return &screenshotRepository{
		fetcher:      fetcher,
		blobStorage:  blobStorage,
		urlValidator: validation.NewURLValidator(),
		validator:    validator,
	}
}

// Resolve returns the screenshot bytes for the request. Inline data takes
// precedence over a URL when both are present.
func (r *screenshotRepository) Resolve(ctx context.Context, req *models.ExtractionRequest) ([]byte, error) {
	switch {
	case req.Image != "":
		return r.resolveInline(req.Image)
	case req.ImageURL != "":
		return r.resolveURL(ctx, req.ImageURL)
	default:
		return nil, apperrors.NewValidationError(ErrMissingImage.Error(), ErrMissingImage)
	}
}

func (r *screenshotRepository) resolveInline(imageData string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(StripDataURLPrefix(imageData))
	if err != nil {
		return nil, apperrors.NewValidationError(ErrInvalidBase64.Error(), err)
	}
	if err := r.validator.Validate(data); err != nil {
		return nil, err
	}
	return data, nil
}

func (r *screenshotRepository) resolveURL(ctx context.Context, screenshotURL string) ([]byte, error) {
	if err := r.urlValidator.ValidateScreenshotURL(screenshotURL); err != nil {
		return nil, err
	}

	var data []byte
	var err error
	if r.blobStorage != nil && isAzureBlobURL(screenshotURL) {
		data, err = r.blobStorage.GetScreenshot(ctx, screenshotURL)
	} else {
		data, err = r.fetcher.FetchScreenshot(ctx, screenshotURL)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to fetch screenshot", err)
	}

	if err := r.validator.Validate(data); err != nil {
		return nil, err
	}
	return data, nil
}

// StripDataURLPrefix removes a "data:image/png;base64," style prefix.
// The capture host sends canvas data URLs verbatim.
func StripDataURLPrefix(imageData string) string {
	if idx := strings.IndexByte(imageData, ','); idx >= 0 {
		return imageData[idx+1:]
	}
	return imageData
}

func isAzureBlobURL(rawURL string) bool {
	return strings.Contains(rawURL, azureBlobHostSuffix)
}
